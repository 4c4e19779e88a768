package dto

import (
	"math"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// PageRequest paginación por página (page/per_page) para listados.
type PageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

// Límites de paginación.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize aplica valores por defecto y acota PerPage y Page. Page se limita para que
// Offset nunca desborde.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if maxPage := math.MaxInt32/p.PerPage + 1; p.Page > maxPage {
		p.Page = maxPage
	}
}

// Offset devuelve el desplazamiento SQL de la página (requiere Normalize previo).
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// NewPageResponse calcula el número de páginas.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.PerPage > 0 {
		pages = (total + p.PerPage - 1) / p.PerPage
	}
	return PageResponse{Page: p.Page, PerPage: p.PerPage, Total: total, Pages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ParseDateRange interpreta from/to en formato YYYY-MM-DD (UTC). To incluye el día completo.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, nil, domain.Invalid("from", "formato esperado YYYY-MM-DD")
		}
		f = &d
	}
	if to != "" {
		d, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, nil, domain.Invalid("to", "formato esperado YYYY-MM-DD")
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	if f != nil && t != nil && t.Before(*f) {
		return nil, nil, domain.Invalid("to", "debe ser posterior a from")
	}
	return f, t, nil
}

const dateLayout = "2006-01-02"
