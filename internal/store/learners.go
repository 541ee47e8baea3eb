package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrLearnerNotFound = errors.New("learner not found")

// Learners keeps anonymous learner identities.
type Learners struct {
	db *gorm.DB
}

func NewLearners(db *gorm.DB) *Learners {
	return &Learners{db: db}
}

// Ensure returns the learner with publicID, creating it when missing.
// An empty publicID creates a learner with a fresh UUID.
func (l *Learners) Ensure(ctx context.Context, publicID string) (Learner, error) {
	db := l.db.WithContext(ctx)
	if publicID == "" {
		u := Learner{PublicID: uuid.New().String()}
		if err := db.Create(&u).Error; err != nil {
			return Learner{}, err
		}
		return u, nil
	}

	var u Learner
	err := db.First(&u, "public_id = ?", publicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = Learner{PublicID: publicID}
		if err := db.Create(&u).Error; err != nil {
			return Learner{}, err
		}
		return u, nil
	}
	return u, err
}

func (l *Learners) ByPublicID(ctx context.Context, publicID string) (Learner, error) {
	var u Learner
	err := l.db.WithContext(ctx).First(&u, "public_id = ?", publicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Learner{}, ErrLearnerNotFound
	}
	return u, err
}

// Rename sets the display name.
func (l *Learners) Rename(ctx context.Context, id uint, name string) (Learner, error) {
	var u Learner
	db := l.db.WithContext(ctx)
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Learner{}, ErrLearnerNotFound
		}
		return Learner{}, err
	}
	u.DisplayName = &name
	if err := db.Save(&u).Error; err != nil {
		return Learner{}, err
	}
	return u, nil
}
