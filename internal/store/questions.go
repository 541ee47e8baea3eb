package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/quiz"
)

// Questions serves the local question bank as a content.Source.
type Questions struct {
	db *gorm.DB
}

func NewQuestions(db *gorm.DB) *Questions {
	return &Questions{db: db}
}

var _ content.Source = (*Questions)(nil)

func (s *Questions) List(ctx context.Context, track content.Track, q content.ListQuery) (content.Page, error) {
	limit := q.Limit
	if limit <= 0 || limit > content.MaxLimit {
		limit = content.MaxLimit
	}
	offset := max(0, q.Offset)

	base := s.db.WithContext(ctx).Model(&Question{}).Where("track = ?", track.Key)
	if q.Chapter != "" {
		base = base.Where("chapter = ?", q.Chapter)
	}
	if term := strings.TrimSpace(q.Q); term != "" {
		base = base.Where("text LIKE ?", "%"+term+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return content.Page{}, err
	}

	var rows []Question
	if err := base.Session(&gorm.Session{}).
		Order("id").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return content.Page{}, err
	}
	if err := loadChoices(s.db.WithContext(ctx), track.Key, rows); err != nil {
		return content.Page{}, err
	}

	out := content.Page{
		Questions:  make([]quiz.Question, 0, len(rows)),
		TotalCount: int(total),
		Offset:     offset,
		Limit:      limit,
	}
	for _, r := range rows {
		out.Questions = append(out.Questions, toQuiz(r))
	}
	return out, nil
}

func (s *Questions) Get(ctx context.Context, track content.Track, id string) (quiz.Question, error) {
	var q Question
	db := s.db.WithContext(ctx)
	err := db.First(&q, "track = ? AND id = ?", track.Key, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quiz.Question{}, content.ErrNotFound
	}
	if err != nil {
		return quiz.Question{}, err
	}
	rows := []Question{q}
	if err := loadChoices(db, track.Key, rows); err != nil {
		return quiz.Question{}, err
	}
	return toQuiz(rows[0]), nil
}

// loadChoices fills in the choices of questions that all belong to track.
func loadChoices(db *gorm.DB, track string, rows []Question) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	var choices []Choice
	if err := db.
		Where("question_track = ? AND question_id IN ?", track, ids).
		Order("id").
		Find(&choices).Error; err != nil {
		return err
	}
	byQuestion := make(map[string][]Choice, len(rows))
	for _, c := range choices {
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}
	for i := range rows {
		rows[i].Choices = byQuestion[rows[i].ID]
	}
	return nil
}

func toQuiz(m Question) quiz.Question {
	q := quiz.Question{
		ID:          m.ID,
		Text:        m.Text,
		Explanation: m.Explanation,
		Chapter:     m.Chapter,
		Choices:     make([]quiz.Choice, 0, len(m.Choices)),
	}
	for _, c := range m.Choices {
		q.Choices = append(q.Choices, quiz.Choice{ID: c.ChoiceKey, Text: c.Text})
		if c.IsCorrect {
			q.CorrectAnswers = append(q.CorrectAnswers, c.ChoiceKey)
		}
	}
	q, _ = quiz.Normalize(q)
	return q
}
