package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/seeddata"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	_, err := SeedBuiltin(db, []string{"itf", "seaj"})
	require.NoError(t, err)
	return db
}

func track(t *testing.T, key string) content.Track {
	t.Helper()
	tr, err := content.LookupTrack(key)
	require.NoError(t, err)
	return tr
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported")
}

func TestSeedBuiltin(t *testing.T) {
	db := openTestDB(t)

	empty, err := IsQuestionTableEmpty(db)
	require.NoError(t, err)
	assert.True(t, empty)

	n, err := SeedBuiltin(db, []string{"itf", "seaj"})
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	empty, err = IsQuestionTableEmpty(db)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestSeedNormalizesAndDropsUnmatched(t *testing.T) {
	db := openTestDB(t)
	_, err := SeedQuestions(db, "itf", []seeddata.Input{{
		ID:        "x-1",
		Text:      "pick",
		Choices:   []seeddata.InputChoice{{ID: "B", Text: "two"}, {ID: "A", Text: "one"}},
		AnswerIDs: []string{"B", "b", "Z"},
	}})
	require.NoError(t, err)

	q, err := NewQuestions(db).Get(context.Background(), track(t, "itf"), "x-1")
	require.NoError(t, err)
	assert.Equal(t, []quiz.Choice{{ID: "a", Text: "one"}, {ID: "b", Text: "two"}}, q.Choices)
	assert.Equal(t, []string{"b"}, q.CorrectAnswers)
}

func TestSeedRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	_, err := SeedQuestions(db, "itf", []seeddata.Input{
		{ID: "ok", Text: "a", Choices: []seeddata.InputChoice{{ID: "a"}}, AnswerIDs: []string{"a"}},
		{ID: "", Text: "no id"},
	})
	require.Error(t, err)

	empty, err := IsQuestionTableEmpty(db)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestSeedSameIDInTwoTracks(t *testing.T) {
	db := openTestDB(t)
	qs := NewQuestions(db)
	ctx := context.Background()

	n, err := SeedQuestions(db, "", []seeddata.Input{
		{ID: "q1", Track: "itf", Text: "itf one", Choices: []seeddata.InputChoice{{ID: "a"}, {ID: "b"}}, AnswerIDs: []string{"a"}},
		{ID: "q1", Track: "seaj", Text: "seaj one", Choices: []seeddata.InputChoice{{ID: "a"}, {ID: "b"}, {ID: "c"}}, AnswerIDs: []string{"b", "c"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	itfQ, err := qs.Get(ctx, track(t, "itf"), "q1")
	require.NoError(t, err)
	assert.Equal(t, "itf one", itfQ.Text)
	assert.Len(t, itfQ.Choices, 2)
	assert.Equal(t, []string{"a"}, itfQ.CorrectAnswers)

	seajQ, err := qs.Get(ctx, track(t, "seaj"), "q1")
	require.NoError(t, err)
	assert.Equal(t, "seaj one", seajQ.Text)
	assert.Len(t, seajQ.Choices, 3)
	assert.True(t, seajQ.IsMulti())

	page, err := qs.List(ctx, track(t, "itf"), content.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	assert.Len(t, page.Questions[0].Choices, 2)

	_, err = SeedQuestions(db, "itf", []seeddata.Input{
		{ID: "q1", Text: "again", Choices: []seeddata.InputChoice{{ID: "a"}}, AnswerIDs: []string{"a"}},
	})
	assert.Error(t, err, "ids stay unique within a track")
}

func TestQuestionsList(t *testing.T) {
	qs := NewQuestions(seededDB(t))
	ctx := context.Background()
	itf := track(t, "itf")

	page, err := qs.List(ctx, itf, content.ListQuery{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, page.TotalCount)
	require.Len(t, page.Questions, 2)
	assert.Equal(t, "itf-003", page.Questions[0].ID)
	assert.Equal(t, "itf-004", page.Questions[1].ID)

	page, err = qs.List(ctx, itf, content.ListQuery{Chapter: "hardware"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)

	page, err = qs.List(ctx, itf, content.ListQuery{Q: "RAID"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "itf-004", page.Questions[0].ID)

	page, err = qs.List(ctx, itf, content.ListQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, content.MaxLimit, page.Limit)
}

func TestQuestionsGet(t *testing.T) {
	qs := NewQuestions(seededDB(t))
	ctx := context.Background()

	q, err := qs.Get(ctx, track(t, "itf"), "itf-006")
	require.NoError(t, err)
	assert.True(t, q.IsMulti())
	assert.Equal(t, []string{"a", "c"}, q.CorrectAnswers)
	assert.Len(t, q.Choices, 4)

	_, err = qs.Get(ctx, track(t, "seaj"), "itf-006")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestSittingFlow(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	sittings := NewSittings(db)
	q, err := NewQuestions(db).Get(ctx, track(t, "itf"), "itf-006")
	require.NoError(t, err)

	st, err := sittings.Start(ctx, nil, "itf", "")
	require.NoError(t, err)

	_, err = sittings.Toggle(ctx, st.ID, q, "a")
	require.NoError(t, err)
	a, err := sittings.Toggle(ctx, st.ID, q, "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, a.Selected)

	res, err := sittings.Submit(ctx, st.ID, q)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.True(t, res.Attempt.Correct)
	assert.Equal(t, quiz.Tally{Answered: 1, Correct: 1}, res.Tally)

	again, err := sittings.Submit(ctx, st.ID, q)
	require.NoError(t, err)
	assert.False(t, again.Recorded)
	assert.True(t, again.Attempt.Correct)
	assert.Equal(t, quiz.Tally{Answered: 1, Correct: 1}, again.Tally)

	_, err = sittings.Toggle(ctx, st.ID, q, "b")
	assert.ErrorIs(t, err, quiz.ErrSubmitted)

	fresh, err := sittings.ResetAttempt(ctx, st.ID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Generation)
	assert.False(t, fresh.Submitted)

	res, err = sittings.Submit(ctx, st.ID, q)
	require.NoError(t, err)
	assert.False(t, res.Attempt.Correct)
	assert.Equal(t, quiz.Tally{Answered: 2, Correct: 1}, res.Tally)

	got, err := sittings.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Answered)
	assert.Equal(t, 1, got.Correct)
}

func TestResetSitting(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	sittings := NewSittings(db)
	q, err := NewQuestions(db).Get(ctx, track(t, "seaj"), "seaj-001")
	require.NoError(t, err)

	st, err := sittings.Start(ctx, nil, "seaj", "")
	require.NoError(t, err)
	_, err = sittings.Toggle(ctx, st.ID, q, "b")
	require.NoError(t, err)
	_, err = sittings.Submit(ctx, st.ID, q)
	require.NoError(t, err)

	st, err = sittings.ResetSitting(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Answered)
	assert.Equal(t, 1, st.Generation)

	a, err := sittings.Attempt(ctx, st.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, a.Submitted)
	assert.Empty(t, a.Selected)
	assert.Equal(t, 1, a.Generation)

	all, err := sittings.Attempts(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUnknownSitting(t *testing.T) {
	sittings := NewSittings(openTestDB(t))
	ctx := context.Background()

	_, err := sittings.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSittingNotFound)
	_, err = sittings.Submit(ctx, "missing", quiz.Question{ID: "q"})
	assert.ErrorIs(t, err, ErrSittingNotFound)
	_, err = sittings.ResetSitting(ctx, "missing")
	assert.ErrorIs(t, err, ErrSittingNotFound)
}

func TestCorruptSelectionIsAnError(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	sittings := NewSittings(db)
	q, err := NewQuestions(db).Get(ctx, track(t, "itf"), "itf-002")
	require.NoError(t, err)
	st, err := sittings.Start(ctx, nil, "itf", "")
	require.NoError(t, err)
	_, err = sittings.Toggle(ctx, st.ID, q, "c")
	require.NoError(t, err)

	require.NoError(t, db.Model(&AttemptRecord{}).
		Where("sitting_id = ? AND question_id = ?", st.ID, q.ID).
		Update("selected_raw", "not json").Error)

	_, err = sittings.Attempt(ctx, st.ID, q.ID)
	assert.ErrorContains(t, err, "bad selection")
	_, err = sittings.Attempts(ctx, st.ID)
	assert.ErrorContains(t, err, "bad selection")
	_, err = sittings.Submit(ctx, st.ID, q)
	assert.Error(t, err)

	got, err := sittings.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Answered)
}

func TestConcurrentSubmitsCountOnce(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	sittings := NewSittings(db)
	q, err := NewQuestions(db).Get(ctx, track(t, "itf"), "itf-002")
	require.NoError(t, err)
	st, err := sittings.Start(ctx, nil, "itf", "")
	require.NoError(t, err)
	_, err = sittings.Toggle(ctx, st.ID, q, "c")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sittings.Submit(ctx, st.ID, q)
		}()
	}
	wg.Wait()

	got, err := sittings.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Answered)
	assert.Equal(t, 1, got.Correct)
}

func TestLearnersAndStats(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	learners := NewLearners(db)
	sittings := NewSittings(db)

	u, err := learners.Ensure(ctx, "")
	require.NoError(t, err)
	assert.Len(t, u.PublicID, 36)

	same, err := learners.Ensure(ctx, u.PublicID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, same.ID)

	_, err = learners.ByPublicID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrLearnerNotFound)

	renamed, err := learners.Rename(ctx, u.ID, "Aiko")
	require.NoError(t, err)
	assert.Equal(t, "Aiko", *renamed.DisplayName)

	q, err := NewQuestions(db).Get(ctx, track(t, "itf"), "itf-001")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		st, err := sittings.Start(ctx, &u.ID, "itf", "")
		require.NoError(t, err)
		if i == 0 {
			_, err = sittings.Toggle(ctx, st.ID, q, "d")
			require.NoError(t, err)
		}
		_, err = sittings.Submit(ctx, st.ID, q)
		require.NoError(t, err)
	}

	list, total, err := sittings.ListByLearner(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	stats, err := sittings.Stats(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "itf", stats[0].Track)
	assert.EqualValues(t, 2, stats[0].Sittings)
	assert.EqualValues(t, 2, stats[0].Answered)
	assert.EqualValues(t, 1, stats[0].Correct)
	require.NotNil(t, stats[0].Accuracy)
	assert.InDelta(t, 50.0, *stats[0].Accuracy, 0.001)
}
