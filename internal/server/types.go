package server

import (
	"github.com/rezonia/invoice-generator/internal/model"
)

// ErrorResponse is the standard error response. Fields is set only when
// validation failed.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid     bool              `json:"valid"`
	Errors    map[string]string `json:"errors,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
	Total     string            `json:"total,omitempty"`
	TaxIDKind model.TaxIDKind   `json:"tax_id_kind,omitempty"`
	Lines     []string          `json:"lines,omitempty"` // document text preview
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
