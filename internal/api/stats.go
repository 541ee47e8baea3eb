package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vmxio.com/cert-quiz/internal/store"
)

type StatsResponse struct {
	TotalSittings   int64              `json:"totalSittings"`
	TotalAnswers    int64              `json:"totalAnswers"`
	CorrectAnswers  int64              `json:"correctAnswers"`
	AccuracyOverall *float64           `json:"accuracyOverall,omitempty"`
	ByTrack         []store.TrackStats `json:"byTrack"`
}

// GET /api/v1/stats
func Stats(sittings *store.Sittings) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := learnerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no learner"})
			return
		}
		byTrack, err := sittings.Stats(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}

		resp := StatsResponse{ByTrack: byTrack}
		for _, ts := range byTrack {
			resp.TotalSittings += ts.Sittings
			resp.TotalAnswers += ts.Answered
			resp.CorrectAnswers += ts.Correct
		}
		if resp.TotalAnswers > 0 {
			acc := float64(resp.CorrectAnswers) * 100.0 / float64(resp.TotalAnswers)
			resp.AccuracyOverall = &acc
		}
		c.JSON(http.StatusOK, resp)
	}
}
