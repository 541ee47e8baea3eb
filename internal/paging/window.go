// Package paging turns raw pagination inputs into a clamped page and a
// compact list of page links.
package paging

import (
	"net/url"
	"sort"
	"strconv"
)

const DefaultPageSize = 10

// Marker is one entry of a page list: either a navigable page or a gap
// standing for omitted pages.
type Marker struct {
	Page    int  `json:"page,omitempty"`
	Gap     bool `json:"gap,omitempty"`
	Current bool `json:"current,omitempty"`
}

// Target is the destination of a previous/next control. Enabled is
// advisory; Page is always a valid page.
type Target struct {
	Page    int  `json:"page"`
	Enabled bool `json:"enabled"`
}

// Window is the pagination state for one rendered page.
type Window struct {
	TotalItems  int      `json:"totalItems"`
	PageSize    int      `json:"pageSize"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	Offset      int      `json:"offset"`
	Limit       int      `json:"limit"`
	Pages       []Marker `json:"pages"`
	Prev        Target   `json:"prev"`
	Next        Target   `json:"next"`
}

// New builds the window for the requested page.
func New(totalItems, pageSize, requested int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	total := TotalPages(totalItems, pageSize)
	cur := ClampPage(requested, total)
	offset, limit := OffsetLimit(cur, pageSize)
	return Window{
		TotalItems:  totalItems,
		PageSize:    pageSize,
		CurrentPage: cur,
		TotalPages:  total,
		Offset:      offset,
		Limit:       limit,
		Pages:       PageList(cur, total),
		Prev:        Target{Page: ClampPage(cur-1, total), Enabled: cur > 1},
		Next:        Target{Page: ClampPage(cur+1, total), Enabled: cur < total},
	}
}

// TotalPages is ceil(totalItems/pageSize), never less than 1.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := (totalItems + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage forces requested into [1, totalPages].
func ClampPage(requested, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return min(max(1, requested), totalPages)
}

// ParsePage reads a 1-based page number from a query value.
// Missing or non-numeric input is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// OffsetLimit converts a page into a query window.
func OffsetLimit(page, pageSize int) (offset, limit int) {
	limit = pageSize
	offset = (max(1, page) - 1) * limit
	return offset, limit
}

// PageList returns the first two pages, the two last pages and two pages
// either side of current, in order, with a gap marker wherever pages are
// skipped.
func PageList(current, totalPages int) []Marker {
	if totalPages < 1 {
		totalPages = 1
	}
	current = ClampPage(current, totalPages)

	seen := map[int]bool{}
	var pages []int
	add := func(p int) {
		if p >= 1 && p <= totalPages && !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	add(1)
	add(2)
	for p := current - 2; p <= current+2; p++ {
		add(p)
	}
	add(totalPages - 1)
	add(totalPages)
	sort.Ints(pages)

	out := make([]Marker, 0, len(pages)+2)
	for i, p := range pages {
		if i > 0 && p-pages[i-1] > 1 {
			out = append(out, Marker{Gap: true})
		}
		out = append(out, Marker{Page: p, Current: p == current})
	}
	return out
}

// Href links to page on path, keeping the other query parameters.
// Page 1 drops the page parameter.
func Href(path string, query url.Values, page int) string {
	params := url.Values{}
	for k, vs := range query {
		params[k] = append([]string(nil), vs...)
	}
	if page <= 1 {
		params.Del("page")
	} else {
		params.Set("page", strconv.Itoa(page))
	}
	if qs := params.Encode(); qs != "" {
		return path + "?" + qs
	}
	return path
}
