package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/metrics"
	"vmxio.com/cert-quiz/internal/paging"
	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/store"
)

// StartSittingReq opens a sitting over a whole track, or over one of its
// chapters when Chapter is set.
type StartSittingReq struct {
	Track   string `json:"track"`
	Chapter string `json:"chapter,omitempty"`
}

type ToggleReq struct {
	ChoiceID string `json:"choiceId"`
}

// AttemptDTO reveals the answer key only once the attempt is submitted.
type AttemptDTO struct {
	QuestionID     string   `json:"questionId"`
	Generation     int      `json:"generation"`
	Selected       []string `json:"selected"`
	Submitted      bool     `json:"submitted"`
	IsCorrect      *bool    `json:"isCorrect,omitempty"`
	CorrectAnswers []string `json:"correctAnswers,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

func attemptDTO(q quiz.Question, a quiz.Attempt) AttemptDTO {
	out := AttemptDTO{
		QuestionID: q.ID,
		Generation: a.Generation,
		Selected:   a.Selected,
		Submitted:  a.Submitted,
	}
	if a.Submitted {
		correct := a.Correct
		out.IsCorrect = &correct
		out.CorrectAnswers = q.CorrectAnswers
		out.Explanation = q.Explanation
	}
	return out
}

type SittingDTO struct {
	store.Sitting
	TotalQuestions int                     `json:"totalQuestions"`
	Score          int                     `json:"score"`
	Attempts       map[string]quiz.Attempt `json:"attempts,omitempty"`
}

// loadSitting fetches :id and checks it belongs to the calling learner.
// It writes the error response itself and reports false on failure.
func loadSitting(c *gin.Context, sittings *store.Sittings) (store.Sitting, bool) {
	st, err := sittings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return store.Sitting{}, false
	}
	if uid, ok := learnerID(c); st.LearnerID != nil && (!ok || *st.LearnerID != uid) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your sitting"})
		return store.Sitting{}, false
	}
	return st, true
}

// loadSittingQuestion resolves :id and :qid against the sitting's track.
func loadSittingQuestion(c *gin.Context, src content.Source, sittings *store.Sittings) (store.Sitting, quiz.Question, bool) {
	st, ok := loadSitting(c, sittings)
	if !ok {
		return store.Sitting{}, quiz.Question{}, false
	}
	track, err := content.LookupTrack(st.Track)
	if err != nil {
		writeError(c, err)
		return store.Sitting{}, quiz.Question{}, false
	}
	q, err := src.Get(c.Request.Context(), track, c.Param("qid"))
	if err != nil {
		writeError(c, err)
		return store.Sitting{}, quiz.Question{}, false
	}
	if st.Chapter != "" && q.Chapter != st.Chapter {
		writeError(c, errNotInSitting)
		return store.Sitting{}, quiz.Question{}, false
	}
	return st, q, true
}

// questionCount asks the source how many questions a sitting covers:
// the whole track, or one chapter of it.
func questionCount(c *gin.Context, src content.Source, trackKey, chapter string) (int, error) {
	track, err := content.LookupTrack(trackKey)
	if err != nil {
		return 0, err
	}
	page, err := src.List(c.Request.Context(), track, content.ListQuery{Limit: 1, Chapter: chapter})
	if err != nil {
		return 0, err
	}
	return page.TotalCount, nil
}

func sittingDTO(c *gin.Context, src content.Source, st store.Sitting, attempts map[string]quiz.Attempt) (SittingDTO, error) {
	total, err := questionCount(c, src, st.Track, st.Chapter)
	if err != nil {
		return SittingDTO{}, err
	}
	tally := quiz.Tally{Answered: st.Answered, Correct: st.Correct}
	return SittingDTO{
		Sitting:        st,
		TotalQuestions: total,
		Score:          tally.Score(total),
		Attempts:       attempts,
	}, nil
}

// POST /api/v1/sittings
func StartSitting(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartSittingReq
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Track) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "track required"})
			return
		}
		track, err := content.LookupTrack(req.Track)
		if err != nil {
			writeError(c, err)
			return
		}
		chapter := strings.TrimSpace(req.Chapter)
		if chapter != "" {
			n, err := questionCount(c, src, track.Key, chapter)
			if err != nil {
				writeError(c, err)
				return
			}
			if n == 0 {
				writeError(c, errUnknownChapter)
				return
			}
		}
		var owner *uint
		if uid, ok := learnerID(c); ok {
			owner = &uid
		}
		st, err := sittings.Start(c.Request.Context(), owner, track.Key, chapter)
		if err != nil {
			writeError(c, err)
			return
		}
		dto, err := sittingDTO(c, src, st, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto)
	}
}

// GET /api/v1/sittings?page=&perPage=
func ListSittings(sittings *store.Sittings, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := learnerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no learner"})
			return
		}
		size := perPage(c, pageSize)
		requested := paging.ParsePage(c.Query("page"))
		offset, limit := paging.OffsetLimit(requested, size)

		items, total, err := sittings.ListByLearner(c.Request.Context(), uid, offset, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		w := paging.New(int(total), size, requested)
		if w.Offset != offset {
			if items, _, err = sittings.ListByLearner(c.Request.Context(), uid, w.Offset, w.Limit); err != nil {
				writeError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"sittings":   items,
			"pagination": paginationFor(c, w),
		})
	}
}

// GET /api/v1/sittings/:id
func GetSitting(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := loadSitting(c, sittings)
		if !ok {
			return
		}
		attempts, err := sittings.Attempts(c.Request.Context(), st.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		dto, err := sittingDTO(c, src, st, attempts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	}
}

// POST /api/v1/sittings/:id/reset
func ResetSitting(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := loadSitting(c, sittings); !ok {
			return
		}
		st, err := sittings.ResetSitting(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		dto, err := sittingDTO(c, src, st, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	}
}

// GET /api/v1/sittings/:id/questions/:qid
func GetAttempt(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, q, ok := loadSittingQuestion(c, src, sittings)
		if !ok {
			return
		}
		a, err := sittings.Attempt(c.Request.Context(), st.ID, q.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"question": toDTO(q), "attempt": attemptDTO(q, a)})
	}
}

// POST /api/v1/sittings/:id/questions/:qid/toggle
func ToggleChoice(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleReq
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ChoiceID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "choiceId required"})
			return
		}
		st, q, ok := loadSittingQuestion(c, src, sittings)
		if !ok {
			return
		}
		a, err := sittings.Toggle(c.Request.Context(), st.ID, q, req.ChoiceID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, attemptDTO(q, a))
	}
}

// POST /api/v1/sittings/:id/questions/:qid/submit
func SubmitAttempt(src content.Source, sittings *store.Sittings, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, q, ok := loadSittingQuestion(c, src, sittings)
		if !ok {
			return
		}
		res, err := sittings.Submit(c.Request.Context(), st.ID, q)
		if err != nil {
			writeError(c, err)
			return
		}
		if res.Recorded && m != nil {
			m.Submitted(st.Track, res.Attempt.Correct)
		}
		c.JSON(http.StatusOK, gin.H{
			"isCorrect":      res.Attempt.Correct,
			"correctAnswers": q.CorrectAnswers,
			"explanation":    q.Explanation,
			"attempt":        attemptDTO(q, res.Attempt),
			"tally":          res.Tally,
		})
	}
}

// POST /api/v1/sittings/:id/questions/:qid/reset
func ResetAttempt(src content.Source, sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, q, ok := loadSittingQuestion(c, src, sittings)
		if !ok {
			return
		}
		a, err := sittings.ResetAttempt(c.Request.Context(), st.ID, q.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, attemptDTO(q, a))
	}
}
