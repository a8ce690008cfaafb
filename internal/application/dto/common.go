package dto

// PageRequest parámetros de paginación de los listados (query string).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize acota la página: limit en 1..100 (default 20), offset >= 0.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse eco de la página aplicada. Los listados no devuelven conteo
// total; el cliente pagina hasta recibir menos filas que el limit.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo uniforme de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
