package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/store"
)

var (
	errNotInSitting   = errors.New("question not in this sitting")
	errUnknownChapter = errors.New("unknown chapter")
)

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrUnknownTrack):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown track"})
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
	case errors.Is(err, errUnknownChapter):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chapter"})
	case errors.Is(err, errNotInSitting):
		c.JSON(http.StatusNotFound, gin.H{"error": "question not in this sitting"})
	case errors.Is(err, store.ErrSittingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "sitting not found"})
	case errors.Is(err, quiz.ErrSubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "already submitted; reset to try again"})
	case errors.Is(err, quiz.ErrUnknownChoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown choice"})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
