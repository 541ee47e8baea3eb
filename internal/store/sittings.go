package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vmxio.com/cert-quiz/internal/quiz"
)

var ErrSittingNotFound = errors.New("sitting not found")

// Sittings persists score tallies and per-question attempts.
// Writes are serialized so each submit increments a tally exactly once.
type Sittings struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewSittings(db *gorm.DB) *Sittings {
	return &Sittings{db: db}
}

// SubmitResult is the outcome of a submit. Recorded is false when the
// attempt had already been submitted and the tally was left alone.
type SubmitResult struct {
	Attempt  quiz.Attempt
	Tally    quiz.Tally
	Recorded bool
}

// Start opens a sitting over a track, or over one chapter of it when
// chapter is not empty.
func (s *Sittings) Start(ctx context.Context, learnerID *uint, track, chapter string) (Sitting, error) {
	st := Sitting{
		ID:        uuid.New().String(),
		LearnerID: learnerID,
		Track:     track,
		Chapter:   chapter,
		StartedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&st).Error; err != nil {
		return Sitting{}, err
	}
	return st, nil
}

func (s *Sittings) Get(ctx context.Context, id string) (Sitting, error) {
	return getSitting(s.db.WithContext(ctx), id)
}

// Attempt returns the current attempt at a question, a fresh one if the
// question has not been touched in this sitting.
func (s *Sittings) Attempt(ctx context.Context, sittingID, questionID string) (quiz.Attempt, error) {
	db := s.db.WithContext(ctx)
	if _, err := getSitting(db, sittingID); err != nil {
		return quiz.Attempt{}, err
	}
	_, a, err := loadAttempt(db, sittingID, questionID)
	return a, err
}

// Attempts returns every touched question's attempt keyed by question id.
func (s *Sittings) Attempts(ctx context.Context, sittingID string) (map[string]quiz.Attempt, error) {
	var recs []AttemptRecord
	if err := s.db.WithContext(ctx).
		Where("sitting_id = ?", sittingID).
		Order("question_id").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]quiz.Attempt, len(recs))
	for _, r := range recs {
		a, err := r.attempt()
		if err != nil {
			return nil, err
		}
		out[r.QuestionID] = a
	}
	return out, nil
}

func (s *Sittings) Toggle(ctx context.Context, sittingID string, q quiz.Question, choiceID string) (quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out quiz.Attempt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getSitting(tx, sittingID); err != nil {
			return err
		}
		rec, a, err := loadAttempt(tx, sittingID, q.ID)
		if err != nil {
			return err
		}
		next, err := a.Toggle(q, choiceID)
		if err != nil {
			out = a
			return err
		}
		rec.setAttempt(next)
		out = next
		return tx.Save(&rec).Error
	})
	return out, err
}

func (s *Sittings) Submit(ctx context.Context, sittingID string, q quiz.Question) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SubmitResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := getSitting(tx, sittingID)
		if err != nil {
			return err
		}
		rec, a, err := loadAttempt(tx, sittingID, q.ID)
		if err != nil {
			return err
		}
		tally := quiz.Tally{Answered: st.Answered, Correct: st.Correct}
		next, _ := a.Submit(q, &tally)
		res = SubmitResult{Attempt: next, Tally: tally, Recorded: !a.Submitted}
		if a.Submitted {
			return nil
		}

		now := time.Now()
		rec.setAttempt(next)
		rec.SubmittedAt = &now
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		return tx.Model(&Sitting{}).Where("id = ?", sittingID).Updates(map[string]any{
			"answered": tally.Answered,
			"correct":  tally.Correct,
		}).Error
	})
	return res, err
}

// ResetAttempt starts a new attempt at one question. The tally keeps
// whatever the previous attempt recorded.
func (s *Sittings) ResetAttempt(ctx context.Context, sittingID, questionID string) (quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out quiz.Attempt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getSitting(tx, sittingID); err != nil {
			return err
		}
		rec, a, err := loadAttempt(tx, sittingID, questionID)
		if err != nil {
			return err
		}
		out = a.Reset()
		rec.setAttempt(out)
		rec.SubmittedAt = nil
		return tx.Save(&rec).Error
	})
	return out, err
}

// ResetSitting zeroes the tally and starts a new attempt at every question.
func (s *Sittings) ResetSitting(ctx context.Context, sittingID string) (Sitting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Sitting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := getSitting(tx, sittingID)
		if err != nil {
			return err
		}
		if err := tx.Model(&AttemptRecord{}).Where("sitting_id = ?", sittingID).Updates(map[string]any{
			"generation":   gorm.Expr("generation + 1"),
			"selected_raw": "[]",
			"submitted":    false,
			"is_correct":   false,
			"submitted_at": nil,
		}).Error; err != nil {
			return err
		}
		st.Answered = 0
		st.Correct = 0
		st.Generation++
		if err := tx.Model(&Sitting{}).Where("id = ?", sittingID).Updates(map[string]any{
			"answered":   0,
			"correct":    0,
			"generation": st.Generation,
		}).Error; err != nil {
			return err
		}
		out = st
		return nil
	})
	return out, err
}

// ListByLearner returns a learner's sittings, newest first.
func (s *Sittings) ListByLearner(ctx context.Context, learnerID uint, offset, limit int) ([]Sitting, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&Sitting{}).Where("learner_id = ?", learnerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Sitting
	if err := db.Where("learner_id = ?", learnerID).
		Order("started_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func getSitting(db *gorm.DB, id string) (Sitting, error) {
	var st Sitting
	err := db.First(&st, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Sitting{}, ErrSittingNotFound
	}
	return st, err
}

func loadAttempt(db *gorm.DB, sittingID, questionID string) (AttemptRecord, quiz.Attempt, error) {
	var rec AttemptRecord
	err := db.Where("sitting_id = ? AND question_id = ?", sittingID, questionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = AttemptRecord{SittingID: sittingID, QuestionID: questionID}
		a := quiz.NewAttempt(0)
		rec.setAttempt(a)
		return rec, a, nil
	}
	if err != nil {
		return AttemptRecord{}, quiz.Attempt{}, err
	}
	a, err := rec.attempt()
	if err != nil {
		return AttemptRecord{}, quiz.Attempt{}, err
	}
	return rec, a, nil
}

func (r AttemptRecord) attempt() (quiz.Attempt, error) {
	a := quiz.NewAttempt(r.Generation)
	if err := json.Unmarshal([]byte(r.SelectedRaw), &a.Selected); err != nil {
		return quiz.Attempt{}, fmt.Errorf("attempt %s/%s: bad selection %q: %w", r.SittingID, r.QuestionID, r.SelectedRaw, err)
	}
	if a.Selected == nil {
		a.Selected = []string{}
	}
	a.Submitted = r.Submitted
	a.Correct = r.IsCorrect
	return a, nil
}

func (r *AttemptRecord) setAttempt(a quiz.Attempt) {
	r.Generation = a.Generation
	r.SelectedRaw = jsonArray(a.Selected)
	r.Submitted = a.Submitted
	r.IsCorrect = a.Correct
}

func jsonArray(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}
