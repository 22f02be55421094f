package viewdata

import (
	"net/http"
	"strconv"
)

// Pager feeds the shared "pagination" template.
type Pager struct {
	Page       int64
	TotalPages int64
	PrevURL    string
	NextURL    string
	PrevLabel  string
	NextLabel  string
}

// NewPager builds prev/next links for r by rewriting its page query
// parameter. Other query parameters (search, category) are kept.
func NewPager(r *http.Request, page, totalPages int64, prevLabel, nextLabel string) Pager {
	p := Pager{Page: page, TotalPages: totalPages, PrevLabel: prevLabel, NextLabel: nextLabel}
	if page > 1 {
		p.PrevURL = pageURL(r, page-1)
	}
	if page < totalPages {
		p.NextURL = pageURL(r, page+1)
	}
	return p
}

func pageURL(r *http.Request, page int64) string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.FormatInt(page, 10))
	}
	if enc := q.Encode(); enc != "" {
		return r.URL.Path + "?" + enc
	}
	return r.URL.Path
}

// PageParam reads the 1-based page query parameter; anything invalid is 1.
func PageParam(r *http.Request) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
