package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
	"github.com/youruser/storycards/internal/session"
	"github.com/youruser/storycards/internal/story"
)

// fail maps domain errors to a status and a JSON error body.
func (h *Handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, story.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
	case errors.Is(err, cards.ErrInvalidCount), errors.Is(err, imagepkg.ErrNoPoolEnabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrCardNotFound),
		errors.Is(err, story.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// sizeQuery reads optional w and h. It writes a 400 and returns false on
// malformed values.
func sizeQuery(c *gin.Context) (w, h int, ok bool) {
	for _, q := range []struct {
		key string
		dst *int
	}{{"w", &w}, {"h", &h}} {
		s := c.Query(q.key)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + q.key})
			return 0, 0, false
		}
		*q.dst = v
	}
	return w, h, true
}
