package pagination

import (
	"net/http"
	"strconv"
)

// Patient search shows ten rows per page by default.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Params represents pagination query parameters
type Params struct {
	Page  int `json:"page"` // 1-based
	Limit int `json:"limit"`
}

// Meta contains pagination metadata for responses
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	Total      int  `json:"total"`
	HasNext    bool `json:"hasNext"`
}

// ParseParams reads page and limit from the query string. Bad values fall back to defaults.
func ParseParams(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{
		Page:  atoiOr(q.Get("page"), DefaultPage),
		Limit: atoiOr(q.Get("limit"), DefaultLimit),
	}
	p.Validate()
	return p
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Validate clamps parameters into range.
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset returns the SQL OFFSET value based on page and limit
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta builds response metadata for a result set of total rows.
func (p Params) Meta(total int) Meta {
	totalPages := (total + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Total:      total,
		HasNext:    p.Page < totalPages,
	}
}
