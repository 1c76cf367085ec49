package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/petnest/petnest/internal/transport/http/dto"
)

// ListParams is a queue page request. Zero values leave the server defaults.
type ListParams struct {
	Status   string
	Page     int
	PageSize int
	Query    string
}

func (p ListParams) encode() string {
	values := url.Values{}
	if s := strings.TrimSpace(p.Status); s != "" {
		values.Set("status", s)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("limit", strconv.Itoa(p.PageSize))
	}
	if q := strings.TrimSpace(p.Query); q != "" {
		values.Set("q", q)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func newPage[T any](items []T, p *dto.Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	out := Page[T]{Items: items}
	if p != nil {
		out.Page = p.Page
		out.Limit = p.Limit
		out.Total = p.Total
		out.TotalPages = p.TotalPages
	}
	return out
}
