package cms

import (
	"errors"
	"fmt"
	"net/http"
)

// RawChoice is one entry of the "choices" repeater field.
type RawChoice struct {
	FieldID  string `json:"fieldId,omitempty"`
	SelectID string `json:"selectId"`
	Text     string `json:"text"`
}

// RawAnswer is one entry of the "answerId" repeater field.
type RawAnswer struct {
	FieldID  string `json:"fieldId,omitempty"`
	AnswerID string `json:"answerId"`
}

// RawQuestion is a question content as the CMS stores it.
type RawQuestion struct {
	ID          string      `json:"id"`
	Chapter     string      `json:"chapter,omitempty"`
	Text        string      `json:"text"`
	Choices     []RawChoice `json:"choices"`
	AnswerID    []RawAnswer `json:"answerId"`
	Explanation string      `json:"explanation,omitempty"`

	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	RevisedAt   string `json:"revisedAt,omitempty"`
}

// ListResponse is the body of a list query.
type ListResponse struct {
	Contents   []RawQuestion `json:"contents"`
	TotalCount int           `json:"totalCount"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
}

// Content is the writable part of a question.
type Content struct {
	Chapter     string      `json:"chapter,omitempty"`
	Text        string      `json:"text"`
	Choices     []RawChoice `json:"choices"`
	AnswerID    []RawAnswer `json:"answerId"`
	Explanation string      `json:"explanation"`
}

// ListQuery holds list parameters. Zero values are left out of the request.
type ListQuery struct {
	Limit   int
	Offset  int
	Q       string
	Filters string
}

var ErrMissingCredentials = errors.New("cms: service domain and api key are required")

// APIError is a non-2xx answer from the CMS.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cms: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the CMS.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
