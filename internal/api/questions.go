package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/paging"
	"vmxio.com/cert-quiz/internal/quiz"
)

/*** DTOs shared across handlers ***/

// QuestionDTO never carries the correct answers.
type QuestionDTO struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Chapter     string      `json:"chapter,omitempty"`
	MultiSelect bool        `json:"multiSelect"`
	Choices     []OptionDTO `json:"choices"`
}

type OptionDTO struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func toDTO(q quiz.Question) QuestionDTO {
	opts := make([]OptionDTO, 0, len(q.Choices))
	for _, c := range q.Choices {
		opts = append(opts, OptionDTO{ID: c.ID, Text: c.Text})
	}
	return QuestionDTO{
		ID:          q.ID,
		Text:        q.Text,
		Chapter:     q.Chapter,
		MultiSelect: q.IsMulti(),
		Choices:     opts,
	}
}

type PageLinkDTO struct {
	Page    int    `json:"page,omitempty"`
	Gap     bool   `json:"gap,omitempty"`
	Current bool   `json:"current,omitempty"`
	Href    string `json:"href,omitempty"`
}

type NavLinkDTO struct {
	Page    int    `json:"page"`
	Enabled bool   `json:"enabled"`
	Href    string `json:"href"`
}

type PaginationDTO struct {
	TotalItems  int           `json:"totalItems"`
	PageSize    int           `json:"pageSize"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	Pages       []PageLinkDTO `json:"pages"`
	Prev        NavLinkDTO    `json:"prev"`
	Next        NavLinkDTO    `json:"next"`
}

// paginationFor adds links relative to the request URL to a window.
func paginationFor(c *gin.Context, w paging.Window) PaginationDTO {
	path := c.Request.URL.Path
	query := c.Request.URL.Query()

	pages := make([]PageLinkDTO, 0, len(w.Pages))
	for _, m := range w.Pages {
		if m.Gap {
			pages = append(pages, PageLinkDTO{Gap: true})
			continue
		}
		pages = append(pages, PageLinkDTO{Page: m.Page, Current: m.Current, Href: paging.Href(path, query, m.Page)})
	}
	nav := func(t paging.Target) NavLinkDTO {
		return NavLinkDTO{Page: t.Page, Enabled: t.Enabled, Href: paging.Href(path, query, t.Page)}
	}
	return PaginationDTO{
		TotalItems:  w.TotalItems,
		PageSize:    w.PageSize,
		CurrentPage: w.CurrentPage,
		TotalPages:  w.TotalPages,
		Pages:       pages,
		Prev:        nav(w.Prev),
		Next:        nav(w.Next),
	}
}

// perPage reads ?perPage=, falling back to def and capping at the
// content source maximum.
func perPage(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("perPage"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, content.MaxLimit)
}

/*** Tracks & questions ***/

func ListTracks() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tracks": content.Tracks()})
	}
}

// ListQuestions serves one page of a track, optionally narrowed to the
// :chapter path parameter and a ?q= search term.
func ListQuestions(src content.Source, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		track, err := content.LookupTrack(c.Param("track"))
		if err != nil {
			writeError(c, err)
			return
		}
		size := perPage(c, pageSize)
		requested := paging.ParsePage(c.Query("page"))
		q := content.ListQuery{Q: c.Query("q"), Chapter: c.Param("chapter")}

		page, w, err := fetchPage(c.Request.Context(), src, track, q, size, requested)
		if err != nil {
			writeError(c, err)
			return
		}

		out := make([]QuestionDTO, 0, len(page.Questions))
		for _, qq := range page.Questions {
			out = append(out, toDTO(qq))
		}
		c.JSON(http.StatusOK, gin.H{
			"track":      track,
			"chapter":    q.Chapter,
			"questions":  out,
			"pagination": paginationFor(c, w),
		})
	}
}

// fetchPage loads the requested page. A request past the last page is
// clamped and the last page is loaded instead.
func fetchPage(ctx context.Context, src content.Source, track content.Track, q content.ListQuery, size, requested int) (content.Page, paging.Window, error) {
	q.Offset, q.Limit = paging.OffsetLimit(requested, size)
	page, err := src.List(ctx, track, q)
	if err != nil {
		return content.Page{}, paging.Window{}, err
	}
	w := paging.New(page.TotalCount, size, requested)
	if w.Offset != q.Offset {
		q.Offset = w.Offset
		if page, err = src.List(ctx, track, q); err != nil {
			return content.Page{}, paging.Window{}, err
		}
		w = paging.New(page.TotalCount, size, w.CurrentPage)
	}
	return page, w, nil
}

func GetQuestion(src content.Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		track, err := content.LookupTrack(c.Param("track"))
		if err != nil {
			writeError(c, err)
			return
		}
		q, err := src.Get(c.Request.Context(), track, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toDTO(q))
	}
}
