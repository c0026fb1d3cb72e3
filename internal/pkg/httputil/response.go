// Package httputil provides HTTP response helpers and middleware.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// envelope is the uniform response shape of the API.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes the pagination block for a page/limit window.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}
}

// Success writes a {"success":true} envelope with optional message and data.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a successful list response with a pagination block.
func Paginated(w http.ResponseWriter, status int, data interface{}, p Pagination) {
	writeJSON(w, status, envelope{Success: true, Data: data, Pagination: &p})
}

// Error writes a {"success":false} envelope with a message.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// ValidationError writes a 400 response. If err is validator.ValidationErrors,
// per-field details are included.
func ValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errorsAs(err, &validationErrors) {
		fieldErrors := make([]map[string]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, map[string]string{
				"field":   e.Field(),
				"message": e.Tag(),
			})
		}
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "validation error",
			Errors:  fieldErrors,
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "validation error",
		Error:   err.Error(),
	})
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// JSON writes a raw JSON response without envelope. Used for infrastructure
// endpoints like /version; API handlers use Success/Error.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = ve
	return true
}
