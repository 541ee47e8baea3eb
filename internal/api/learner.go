package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmxio.com/cert-quiz/internal/store"
)

const (
	cookieName   = "cq_uid"
	publicIDHdr  = "X-Public-Id"
	cookieMaxAge = 365 * 24 * 3600 // 1 year

	ctxLearnerID       = "learnerID"
	ctxLearnerPublicID = "learnerPublicID"
)

// EnsureLearner reads or creates the anonymous learner bound to the
// cookie (or the X-Public-Id header for clients without cookies).
func EnsureLearner(learners *store.Learners, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubID, err := c.Cookie(cookieName)
		if err != nil || pubID == "" {
			pubID = c.GetHeader(publicIDHdr)
		}
		if _, err := uuid.Parse(pubID); err != nil {
			pubID = ""
		}

		u, err := learners.Ensure(c.Request.Context(), pubID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "learner create failed"})
			return
		}
		if pubID == "" {
			setLearnerCookie(c, u.PublicID, secureCookies)
		}
		c.Header(publicIDHdr, u.PublicID)
		c.Set(ctxLearnerPublicID, u.PublicID)
		c.Set(ctxLearnerID, u.ID)
		c.Next()
	}
}

func setLearnerCookie(c *gin.Context, pubID string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieName,
		Value:    pubID,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func learnerID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxLearnerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

type MeResponse struct {
	PublicID    string  `json:"publicId"`
	DisplayName *string `json:"displayName,omitempty"`
}

type MeUpdateReq struct {
	DisplayName string `json:"displayName"`
}

type RestoreReq struct {
	PublicID string `json:"publicId"`
}

// GET /api/v1/me
func GetMe(learners *store.Learners) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubID := c.GetString(ctxLearnerPublicID)
		u, err := learners.ByPublicID(c.Request.Context(), pubID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "learner not found"})
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: u.PublicID, DisplayName: u.DisplayName})
	}
}

// PUT /api/v1/me
func UpdateMe(learners *store.Learners) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := learnerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no learner"})
			return
		}
		var req MeUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
		name := strings.TrimSpace(req.DisplayName)
		if n := len([]rune(name)); n < 2 || n > 40 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "displayName must be 2..40 chars"})
			return
		}
		u, err := learners.Rename(c.Request.Context(), uid, name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: u.PublicID, DisplayName: u.DisplayName})
	}
}

// GET /api/v1/me/export-key returns the id to paste into restore on
// another device.
func ExportKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		pubID := c.GetString(ctxLearnerPublicID)
		if pubID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no learner"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"publicId": pubID})
	}
}

// POST /api/v1/me/restore binds this browser to an existing learner.
func RestoreLearner(learners *store.Learners, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RestoreReq
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PublicID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "publicId required"})
			return
		}
		u, err := learners.ByPublicID(c.Request.Context(), strings.TrimSpace(req.PublicID))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "learner not found"})
			return
		}
		setLearnerCookie(c, u.PublicID, secureCookies)
		c.JSON(http.StatusOK, gin.H{"status": "restored", "publicId": u.PublicID})
	}
}
