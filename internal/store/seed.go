package store

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/seeddata"
)

var seedLog = log.New(os.Stderr, "[seed] ", log.LstdFlags)

// SeedQuestions inserts questions into the bank under track in one
// transaction. Inputs naming their own track override it.
func SeedQuestions(db *gorm.DB, track string, in []seeddata.Input) (int, error) {
	n := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range in {
			if item.ID == "" {
				return fmt.Errorf("question without id: %q", item.Text)
			}
			norm, dropped := quiz.Normalize(item.Question())
			if len(dropped) > 0 {
				seedLog.Printf("WARN %s: answer ids %v match no choice; dropped", item.ID, dropped)
			}
			if len(norm.CorrectAnswers) == 0 {
				seedLog.Printf("WARN %s: no correct answers; it can never be answered correctly", item.ID)
			}

			t := track
			if item.Track != "" {
				t = item.Track
			}
			if t == "" {
				return fmt.Errorf("question %s has no track", item.ID)
			}
			q := Question{
				ID:          norm.ID,
				Track:       t,
				Chapter:     norm.Chapter,
				Text:        norm.Text,
				Explanation: norm.Explanation,
			}
			if err := tx.Create(&q).Error; err != nil {
				return fmt.Errorf("insert %s/%s: %w", t, q.ID, err)
			}

			correctSet := map[string]bool{}
			for _, k := range norm.CorrectAnswers {
				correctSet[k] = true
			}
			for _, c := range norm.Choices {
				choice := Choice{
					QuestionTrack: t,
					QuestionID:    q.ID,
					ChoiceKey:     c.ID,
					Text:          c.Text,
					IsCorrect:     correctSet[c.ID],
				}
				if err := tx.Create(&choice).Error; err != nil {
					return fmt.Errorf("insert %s/%s/%s: %w", t, q.ID, c.ID, err)
				}
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// SeedBuiltin loads the embedded question sets of all tracks.
func SeedBuiltin(db *gorm.DB, tracks []string) (int, error) {
	total := 0
	for _, track := range tracks {
		in, err := seeddata.Builtin(track)
		if err != nil {
			return total, err
		}
		n, err := SeedQuestions(db, track, in)
		if err != nil {
			return total, fmt.Errorf("seed %s: %w", track, err)
		}
		total += n
	}
	return total, nil
}
