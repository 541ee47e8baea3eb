package paging

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		requested, total, want int
	}{
		{0, 5, 1},
		{-3, 5, 1},
		{99, 5, 5},
		{3, 1, 1},
		{3, 5, 3},
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.requested, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.requested, tt.total, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-2", 1},
		{"7", 7},
		{"2.5", 1},
	}
	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 10, TotalPages(95, 10))
	assert.Equal(t, 10, TotalPages(100, 10))
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(3, 10))
	assert.Equal(t, 2, TotalPages(11, 0), "zero page size falls back to the default")
}

func TestOffsetLimit(t *testing.T) {
	offset, limit := OffsetLimit(3, 10)
	assert.Equal(t, 20, offset)
	assert.Equal(t, 10, limit)

	offset, _ = OffsetLimit(1, 25)
	assert.Equal(t, 0, offset)
}

func pagesOf(ms []Marker) []int {
	out := make([]int, 0, len(ms))
	for _, m := range ms {
		if m.Gap {
			out = append(out, 0)
			continue
		}
		out = append(out, m.Page)
	}
	return out
}

func TestPageList(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []int // 0 marks a gap
	}{
		{"middle", 5, 10, []int{1, 2, 3, 4, 5, 6, 7, 0, 9, 10}},
		{"first", 1, 10, []int{1, 2, 3, 0, 9, 10}},
		{"last", 10, 10, []int{1, 2, 0, 8, 9, 10}},
		{"gaps both sides", 10, 20, []int{1, 2, 0, 8, 9, 10, 11, 12, 0, 19, 20}},
		{"single page", 1, 1, []int{1}},
		{"small", 2, 3, []int{1, 2, 3}},
		{"clamped current", 42, 4, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagesOf(PageList(tt.current, tt.total)))
		})
	}
}

func TestPageListMarksCurrent(t *testing.T) {
	for _, m := range PageList(5, 10) {
		assert.Equal(t, m.Page == 5, m.Current, "page %d", m.Page)
	}
}

func TestNew(t *testing.T) {
	w := New(95, 10, 5)

	assert.Equal(t, 10, w.TotalPages)
	assert.Equal(t, 5, w.CurrentPage)
	assert.Equal(t, 40, w.Offset)
	assert.Equal(t, 10, w.Limit)
	assert.Equal(t, Target{Page: 4, Enabled: true}, w.Prev)
	assert.Equal(t, Target{Page: 6, Enabled: true}, w.Next)
}

func TestNewEdges(t *testing.T) {
	w := New(0, 10, 3)
	assert.Equal(t, 1, w.TotalPages)
	assert.Equal(t, 1, w.CurrentPage)
	assert.Equal(t, []Marker{{Page: 1, Current: true}}, w.Pages)
	assert.Equal(t, Target{Page: 1}, w.Prev)
	assert.Equal(t, Target{Page: 1}, w.Next)

	w = New(30, 10, 99)
	assert.Equal(t, 3, w.CurrentPage)
	assert.Equal(t, Target{Page: 2, Enabled: true}, w.Prev)
	assert.Equal(t, Target{Page: 3, Enabled: false}, w.Next)
}

func TestHref(t *testing.T) {
	q := url.Values{"q": {"raid"}, "page": {"4"}}

	assert.Equal(t, "/itf?page=2&q=raid", Href("/itf", q, 2))
	assert.Equal(t, "/itf?q=raid", Href("/itf", q, 1))
	assert.Equal(t, "/itf", Href("/itf", nil, 1))
	assert.Equal(t, []string{"4"}, q["page"], "input query is not modified")
}
