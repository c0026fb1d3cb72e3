package httputil

import (
	"net/http"
	"strconv"
)

// Pagination parsing limits.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ParsePagination reads page/limit query parameters, clamping to sane bounds.
func ParsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = DefaultPageLimit

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset converts a page/limit window into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
