// Package jobs agrupa los trabajos periódicos del worker: expiración de
// reservas SOFT, reconciliación de saldos, recálculo de costo promedio,
// alertas de mínimos e indicadores semanales. Usa robfig/cron.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

// Scheduler programa y ejecuta los trabajos periódicos.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// NewScheduler crea el scheduler. Un trabajo que sigue corriendo cuando toca
// su próxima ejecución se salta (no se apilan), y un pánico dentro de un
// trabajo no tumba el proceso.
func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		log:  log,
		jobs: make(map[string]cron.EntryID),
	}
}

// Start arranca el scheduler. Los trabajos agregados antes empiezan a correr.
func (s *Scheduler) Start() {
	s.log.Info().Msg("scheduler iniciado")
	s.cron.Start()
}

// Stop detiene el scheduler. Los trabajos en curso terminan; el contexto
// devuelto se cierra cuando todos acabaron.
func (s *Scheduler) Stop() context.Context {
	s.log.Info().Msg("deteniendo scheduler")
	return s.cron.Stop()
}

// AddJob registra un trabajo con nombre y expresión cron
// ("@every 5m", "@hourly", "0 3 * * *"...).
func (s *Scheduler) AddJob(name, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("el trabajo %s ya existe", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.log.Debug().Str("job", name).Msg("ejecutando trabajo")
		job()
		s.log.Debug().Str("job", name).Msg("trabajo completado")
	})
	if err != nil {
		return fmt.Errorf("no se pudo registrar el trabajo %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.Info().Str("job", name).Str("cron", cronExpr).Msg("trabajo registrado")
	return nil
}
