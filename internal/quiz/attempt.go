package quiz

import (
	"errors"
	"sort"
)

var (
	ErrSubmitted     = errors.New("attempt already submitted")
	ErrUnknownChoice = errors.New("choice not on question")
)

// Attempt is one selection/submission cycle for a single question.
// It is a value: every transition returns a new Attempt and leaves the
// receiver untouched. Generation counts resets of the same question.
type Attempt struct {
	Generation int      `json:"generation"`
	Selected   []string `json:"selected"`
	Submitted  bool     `json:"submitted"`
	Correct    bool     `json:"correct"`
}

// NewAttempt returns an empty, unsubmitted attempt.
func NewAttempt(generation int) Attempt {
	return Attempt{Generation: generation, Selected: []string{}}
}

// IsSelected reports whether choiceID is part of the selection.
func (a Attempt) IsSelected(choiceID string) bool {
	choiceID = NormalizeID(choiceID)
	for _, id := range a.Selected {
		if id == choiceID {
			return true
		}
	}
	return false
}

// Toggle applies a selection change for choiceID. Multi-select questions
// flip membership; single-select questions replace the selection.
func (a Attempt) Toggle(q Question, choiceID string) (Attempt, error) {
	if a.Submitted {
		return a, ErrSubmitted
	}
	choiceID = NormalizeID(choiceID)
	if !q.HasChoice(choiceID) {
		return a, ErrUnknownChoice
	}

	next := a
	if !q.IsMulti() {
		next.Selected = []string{choiceID}
		return next, nil
	}

	sel := make([]string, 0, len(a.Selected)+1)
	found := false
	for _, id := range a.Selected {
		if id == choiceID {
			found = true
			continue
		}
		sel = append(sel, id)
	}
	if !found {
		sel = append(sel, choiceID)
		sort.Strings(sel)
	}
	next.Selected = sel
	return next, nil
}

// Submit grades the attempt and records the result in t. Submitting an
// already submitted attempt returns the stored result and leaves t alone.
func (a Attempt) Submit(q Question, t *Tally) (Attempt, bool) {
	if a.Submitted {
		return a, a.Correct
	}
	next := a
	next.Selected = append([]string{}, a.Selected...)
	next.Submitted = true
	next.Correct = Grade(a.Selected, q.CorrectAnswers)
	if t != nil {
		t.Record(next.Correct)
	}
	return next, next.Correct
}

// Reset starts the next attempt at the same question.
func (a Attempt) Reset() Attempt {
	return NewAttempt(a.Generation + 1)
}
