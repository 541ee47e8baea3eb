// Package content defines the exam tracks and where their questions come from.
package content

import (
	"context"
	"errors"
	"strings"

	"vmxio.com/cert-quiz/internal/quiz"
)

// MaxLimit is the largest page a Source returns.
const MaxLimit = 100

var (
	ErrNotFound     = errors.New("question not found")
	ErrUnknownTrack = errors.New("unknown track")
)

// Track is one exam the app offers practice questions for.
type Track struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Endpoint    string `json:"-"` // CMS API endpoint
}

var tracks = []Track{
	{
		Key:         "itf",
		Title:       "ITF+ (CompTIA IT Fundamentals)",
		Description: "基本的なコンピューティングとITインフラストラクチャのスキルと知識",
		Endpoint:    "itf-questions",
	},
	{
		Key:         "seaj",
		Title:       "SEA/J（セキュリティ 基礎コース）",
		Description: "情報セキュリティについて全ての基礎レベルの知識",
		Endpoint:    "seaj-questions",
	},
}

// Tracks lists all tracks in display order.
func Tracks() []Track {
	return append([]Track(nil), tracks...)
}

func LookupTrack(key string) (Track, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range tracks {
		if t.Key == key {
			return t, nil
		}
	}
	return Track{}, ErrUnknownTrack
}

// ListQuery selects a page of questions. Empty Q and Chapter match all.
type ListQuery struct {
	Offset  int
	Limit   int
	Q       string
	Chapter string
}

// Page is one slice of a track's questions plus the total count.
type Page struct {
	Questions  []quiz.Question
	TotalCount int
	Offset     int
	Limit      int
}

// Source serves normalized questions.
type Source interface {
	List(ctx context.Context, track Track, q ListQuery) (Page, error)
	Get(ctx context.Context, track Track, id string) (quiz.Question, error)
}
