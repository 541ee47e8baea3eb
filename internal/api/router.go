// Package api is the HTTP surface of the quiz server.
package api

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/metrics"
	"vmxio.com/cert-quiz/internal/paging"
	"vmxio.com/cert-quiz/internal/store"
)

// Deps is everything the handlers close over.
type Deps struct {
	Source        content.Source
	Sittings      *store.Sittings
	Learners      *store.Learners
	Metrics       *metrics.Metrics // optional
	PageSize      int
	SecureCookies bool
	CORSOrigins   []string
}

func NewRouter(d Deps) *gin.Engine {
	if d.PageSize <= 0 {
		d.PageSize = paging.DefaultPageSize
	}

	r := gin.Default()

	// configured origins plus any http://localhost:PORT
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if slices.Contains(d.CORSOrigins, origin) {
				return true
			}
			return strings.HasPrefix(origin, "http://localhost:")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", publicIDHdr},
		ExposeHeaders:    []string{publicIDHdr},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(EnsureLearner(d.Learners, d.SecureCookies))
	{
		// Catalogue
		api.GET("/tracks", ListTracks())
		api.GET("/tracks/:track/questions", ListQuestions(d.Source, d.PageSize))
		api.GET("/tracks/:track/questions/:id", GetQuestion(d.Source))
		api.GET("/tracks/:track/chapters/:chapter/questions", ListQuestions(d.Source, d.PageSize))

		// Sittings
		api.POST("/sittings", StartSitting(d.Source, d.Sittings))
		api.GET("/sittings", ListSittings(d.Sittings, d.PageSize))
		api.GET("/sittings/:id", GetSitting(d.Source, d.Sittings))
		api.POST("/sittings/:id/reset", ResetSitting(d.Source, d.Sittings))
		api.GET("/sittings/:id/questions/:qid", GetAttempt(d.Source, d.Sittings))
		api.POST("/sittings/:id/questions/:qid/toggle", ToggleChoice(d.Source, d.Sittings))
		api.POST("/sittings/:id/questions/:qid/submit", SubmitAttempt(d.Source, d.Sittings, d.Metrics))
		api.POST("/sittings/:id/questions/:qid/reset", ResetAttempt(d.Source, d.Sittings))

		// Learner profile
		api.GET("/me", GetMe(d.Learners))
		api.PUT("/me", UpdateMe(d.Learners))
		api.GET("/me/export-key", ExportKey())
		api.POST("/me/restore", RestoreLearner(d.Learners, d.SecureCookies))
		api.GET("/stats", Stats(d.Sittings))
	}
	return r
}
