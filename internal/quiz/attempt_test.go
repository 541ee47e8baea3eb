package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleQuestion() Question {
	return Question{
		ID:             "s",
		Choices:        []Choice{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		CorrectAnswers: []string{"b"},
	}
}

func multiQuestion() Question {
	return Question{
		ID:             "m",
		Choices:        []Choice{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		CorrectAnswers: []string{"a", "c"},
	}
}

func TestToggleSingleSelectIsExclusive(t *testing.T) {
	q := singleQuestion()
	a := NewAttempt(0)

	a, err := a.Toggle(q, "a")
	require.NoError(t, err)
	a, err = a.Toggle(q, "B")
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, a.Selected)
}

func TestToggleMultiSelectFlips(t *testing.T) {
	q := multiQuestion()
	a := NewAttempt(0)

	a, err := a.Toggle(q, "c")
	require.NoError(t, err)
	a, err = a.Toggle(q, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, a.Selected)

	before := a
	a, err = a.Toggle(q, "b")
	require.NoError(t, err)
	a, err = a.Toggle(q, "b")
	require.NoError(t, err)
	assert.Equal(t, before.Selected, a.Selected)
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	q := multiQuestion()
	a, _ := NewAttempt(0).Toggle(q, "a")
	b, _ := a.Toggle(q, "c")

	assert.Equal(t, []string{"a"}, a.Selected)
	assert.Equal(t, []string{"a", "c"}, b.Selected)
}

func TestToggleRejected(t *testing.T) {
	q := singleQuestion()

	_, err := NewAttempt(0).Toggle(q, "z")
	assert.ErrorIs(t, err, ErrUnknownChoice)

	a, _ := NewAttempt(0).Toggle(q, "a")
	a, _ = a.Submit(q, nil)
	after, err := a.Toggle(q, "b")
	assert.ErrorIs(t, err, ErrSubmitted)
	assert.Equal(t, []string{"a"}, after.Selected)
}

func TestSubmitIsIdempotent(t *testing.T) {
	q := singleQuestion()
	var tally Tally

	a, _ := NewAttempt(0).Toggle(q, "b")
	a, first := a.Submit(q, &tally)
	a, second := a.Submit(q, &tally)

	assert.True(t, first)
	assert.Equal(t, first, second)
	assert.True(t, a.Submitted)
	assert.Equal(t, Tally{Answered: 1, Correct: 1}, tally)
}

func TestSubmitEmptySelection(t *testing.T) {
	var tally Tally
	a, ok := NewAttempt(0).Submit(singleQuestion(), &tally)

	assert.False(t, ok)
	assert.True(t, a.Submitted)
	assert.Equal(t, Tally{Answered: 1}, tally)
}

func TestResetStartsNewGeneration(t *testing.T) {
	q := singleQuestion()
	a, _ := NewAttempt(2).Toggle(q, "b")
	a, _ = a.Submit(q, nil)

	next := a.Reset()

	assert.Equal(t, 3, next.Generation)
	assert.False(t, next.Submitted)
	assert.Empty(t, next.Selected)
	assert.True(t, a.Submitted, "old attempt keeps its state")
}

func TestSittingScenario(t *testing.T) {
	q := multiQuestion()
	var tally Tally

	a := NewAttempt(0)
	a, err := a.Toggle(q, "a")
	require.NoError(t, err)
	a, err = a.Toggle(q, "c")
	require.NoError(t, err)
	a, ok := a.Submit(q, &tally)
	assert.True(t, ok)
	assert.Equal(t, Tally{Answered: 1, Correct: 1}, tally)

	a = a.Reset()
	_, ok = a.Submit(q, &tally)
	assert.False(t, ok)
	assert.Equal(t, Tally{Answered: 2, Correct: 1}, tally)
}

func TestTallyScore(t *testing.T) {
	tally := Tally{Answered: 3, Correct: 2}
	assert.Equal(t, 67, tally.Score(3))
	assert.Equal(t, 40, tally.Score(5))
	assert.Equal(t, 0, tally.Score(0))

	tally.Reset()
	assert.Equal(t, Tally{}, tally)
}
