package store

import (
	"time"
)

// --- Learner ---

type Learner struct {
	ID          uint   `gorm:"primaryKey"`
	PublicID    string `gorm:"uniqueIndex;size:36;not null"` // UUID kept in the cookie
	DisplayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// --- Question bank ---

// Question ids are unique per track only, so the key is (track, id).
// Single/multi-select is derived from the choices' IsCorrect flags.
type Question struct {
	Track       string   `gorm:"primaryKey;size:16"`
	ID          string   `gorm:"primaryKey;size:64"`
	Chapter     string   `gorm:"index;size:64"`
	Text        string   `gorm:"not null"`
	Explanation string
	Choices     []Choice `gorm:"-"` // loaded by loadChoices
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Choice struct {
	ID            uint   `gorm:"primaryKey"`
	QuestionTrack string `gorm:"index:idx_choice_question;size:16;not null"`
	QuestionID    string `gorm:"index:idx_choice_question;size:64;not null"`
	ChoiceKey     string `gorm:"size:16;not null"` // "a","b","c","d"
	Text          string `gorm:"not null"`
	IsCorrect     bool   `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// --- Sitting ---

type Sitting struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	LearnerID  *uint     `gorm:"index" json:"-"`
	Track      string    `gorm:"not null;size:16" json:"track"`
	Chapter    string    `gorm:"size:64" json:"chapter,omitempty"` // empty covers the whole track
	Answered   int       `gorm:"not null" json:"answered"`
	Correct    int       `gorm:"not null" json:"correct"`
	Generation int       `gorm:"not null" json:"generation"` // bumped by every full reset
	StartedAt  time.Time `gorm:"not null" json:"startedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AttemptRecord is the current attempt of one question within a sitting.
type AttemptRecord struct {
	ID          uint   `gorm:"primaryKey"`
	SittingID   string `gorm:"uniqueIndex:idx_sitting_question;size:36;not null"`
	QuestionID  string `gorm:"uniqueIndex:idx_sitting_question;size:64;not null"`
	Generation  int    `gorm:"not null"`
	SelectedRaw string `gorm:"not null"` // JSON: ["a","c"]
	Submitted   bool   `gorm:"not null"`
	IsCorrect   bool   `gorm:"not null"`
	SubmittedAt *time.Time
	UpdatedAt   time.Time
}
