package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-stock-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapSchemaErr traduce 42P01 (undefined_table) a ErrSchemaNotReady: el schema
// del tenant existe en el registro pero sus tablas aún no fueron aprovisionadas.
// Los workers lo tratan como skip, no como falla.
func mapSchemaErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return domain.ErrSchemaNotReady
	}
	return err
}
