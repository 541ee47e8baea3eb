package content

import (
	"context"
	"fmt"
	"log"
	"os"

	"vmxio.com/cert-quiz/internal/cms"
	"vmxio.com/cert-quiz/internal/quiz"
)

// CMSSource reads questions from the headless CMS.
type CMSSource struct {
	client *cms.Client
	logger *log.Logger
}

type SourceOption func(*CMSSource)

// WithLogger replaces the operator log that receives normalization warnings.
func WithLogger(l *log.Logger) SourceOption {
	return func(s *CMSSource) { s.logger = l }
}

func NewCMSSource(client *cms.Client, opts ...SourceOption) *CMSSource {
	s := &CMSSource{
		client: client,
		logger: log.New(os.Stderr, "[cms] ", log.LstdFlags),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *CMSSource) List(ctx context.Context, track Track, q ListQuery) (Page, error) {
	lq := cms.ListQuery{Limit: q.Limit, Offset: q.Offset, Q: q.Q}
	if q.Chapter != "" {
		lq.Filters = "chapter[equals]" + q.Chapter
	}
	res, err := s.client.List(ctx, track.Endpoint, lq)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", track.Key, err)
	}
	out := Page{
		Questions:  make([]quiz.Question, 0, len(res.Contents)),
		TotalCount: res.TotalCount,
		Offset:     res.Offset,
		Limit:      res.Limit,
	}
	for _, raw := range res.Contents {
		out.Questions = append(out.Questions, s.normalize(track, raw))
	}
	return out, nil
}

func (s *CMSSource) Get(ctx context.Context, track Track, id string) (quiz.Question, error) {
	raw, err := s.client.Get(ctx, track.Endpoint, id)
	if err != nil {
		if cms.IsNotFound(err) {
			return quiz.Question{}, ErrNotFound
		}
		return quiz.Question{}, fmt.Errorf("get %s/%s: %w", track.Key, id, err)
	}
	return s.normalize(track, *raw), nil
}

func (s *CMSSource) normalize(track Track, raw cms.RawQuestion) quiz.Question {
	q, dropped := quiz.Normalize(FromRaw(raw))
	if len(dropped) > 0 {
		s.logger.Printf("WARN %s/%s: answer ids %v match no choice; dropped", track.Endpoint, raw.ID, dropped)
	}
	return q
}

// FromRaw maps the CMS shape to a question without normalizing it.
func FromRaw(raw cms.RawQuestion) quiz.Question {
	q := quiz.Question{
		ID:             raw.ID,
		Text:           raw.Text,
		Explanation:    raw.Explanation,
		Chapter:        raw.Chapter,
		Choices:        make([]quiz.Choice, 0, len(raw.Choices)),
		CorrectAnswers: make([]string, 0, len(raw.AnswerID)),
	}
	for _, c := range raw.Choices {
		q.Choices = append(q.Choices, quiz.Choice{ID: c.SelectID, Text: c.Text})
	}
	for _, a := range raw.AnswerID {
		q.CorrectAnswers = append(q.CorrectAnswers, a.AnswerID)
	}
	return q
}

// ToContent maps a question to the writable CMS shape.
func ToContent(q quiz.Question) cms.Content {
	c := cms.Content{
		Chapter:     q.Chapter,
		Text:        q.Text,
		Explanation: q.Explanation,
		Choices:     make([]cms.RawChoice, 0, len(q.Choices)),
		AnswerID:    make([]cms.RawAnswer, 0, len(q.CorrectAnswers)),
	}
	for _, ch := range q.Choices {
		c.Choices = append(c.Choices, cms.RawChoice{FieldID: "choice", SelectID: ch.ID, Text: ch.Text})
	}
	for _, a := range q.CorrectAnswers {
		c.AnswerID = append(c.AnswerID, cms.RawAnswer{FieldID: "answerId", AnswerID: a})
	}
	return c
}
