// Package httpx provides HTTP response utilities following RFC7807 problem details.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/milkbook/milkbook/internal/shared"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// DecodeJSON decodes JSON request body into the target struct.
// Malformed bodies are reported as validation failures.
func DecodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode body: %v", shared.ErrValidation, err)
	}
	return nil
}

// QueryDate parses an optional yyyy-MM-dd query parameter.
func QueryDate(r *http.Request, name string) (shared.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return shared.Date{}, nil
	}
	d, err := shared.ParseDate(raw)
	if err != nil {
		return shared.Date{}, fmt.Errorf("%w: %s: %v", shared.ErrValidation, name, err)
	}
	return d, nil
}

// List normalises a nil slice so it encodes as [] rather than null.
func List[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
