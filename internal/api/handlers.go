package api

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
	"github.com/youruser/storycards/internal/session"
	"github.com/youruser/storycards/internal/story"
)

// PhotoFetcher loads an upstream photo for the picsum proxy.
type PhotoFetcher interface {
	Fetch(ctx context.Context, id string) (imagepkg.Photo, error)
}

// Handlers carries the state behind the HTTP routes.
type Handlers struct {
	Sessions     *session.Registry
	Stories      *story.Store
	Photos       PhotoFetcher
	Logger       *zap.Logger
	BaseURL      string // used in story share QR codes
	CacheMaxAge  int    // seconds, for proxied photos
	AssetsDir    string
	AssetsPrefix string
	Now          func() time.Time
}

func (h *Handlers) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// health
func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Cards for Storytelling API is running"})
}

// picsum proxies one photo so browsers avoid cross-origin fetches. w and h
// optionally crop-resize the result.
func (h *Handlers) picsum(c *gin.Context) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}
	w, hh, ok := sizeQuery(c)
	if !ok {
		return
	}
	photo, err := h.Photos.Fetch(c.Request.Context(), id)
	if err != nil {
		h.log().Error("Error proxying image", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}
	body, contentType := photo.Body, photo.ContentType
	if w > 0 || hh > 0 {
		img, err := photo.Decode()
		if err != nil {
			h.log().Error("Error decoding proxied image", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
			return
		}
		if body, err = imagepkg.EncodeJPEG(imagepkg.Thumbnail(img, w, hh)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		contentType = "image/jpeg"
	}
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", h.CacheMaxAge))
	c.Data(http.StatusOK, contentType, body)
}

// placeholder is shown by clients when a card's image fails to load.
func (h *Handlers) placeholder(c *gin.Context) {
	w, hh, ok := sizeQuery(c)
	if !ok {
		return
	}
	h.png(c, imagepkg.RenderPlaceholder(w, hh))
}

// cardBack renders the gradient face-down side for ?color=#RRGGBB.
func (h *Handlers) cardBack(c *gin.Context) {
	hex := c.DefaultQuery("color", cards.PastelColors[0])
	from, to, err := cards.Gradient(hex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, hh, ok := sizeQuery(c)
	if !ok {
		return
	}
	h.png(c, imagepkg.RenderCardBack(from, to, w, hh))
}

type createSessionRequest struct {
	Count         json.Number `json:"count"`
	Photos        *bool       `json:"photos"`
	Illustrations *bool       `json:"illustrations"`
}

func (h *Handlers) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := cards.ParseCount(req.Count.String(), h.Sessions.Counts())
	if err != nil {
		h.fail(c, err)
		return
	}
	pools := imagepkg.PoolConfig{Photos: true, Illustrations: true}
	if req.Photos != nil {
		pools.Photos = *req.Photos
	}
	if req.Illustrations != nil {
		pools.Illustrations = *req.Illustrations
	}
	s, err := h.Sessions.Create(count, pools)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *Handlers) getSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handlers) deleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Param("sid")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) revealAll(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	all, err := s.RevealAll()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(all), "cards": all})
}

func (h *Handlers) flipCard(c *gin.Context)   { h.cardOp(c, (*session.Session).Flip) }
func (h *Handlers) hideCard(c *gin.Context)   { h.cardOp(c, (*session.Session).Hide) }
func (h *Handlers) cardFailed(c *gin.Context) { h.cardOp(c, (*session.Session).MarkImageFailed) }

func (h *Handlers) cardOp(c *gin.Context, op func(*session.Session, int) (cards.Card, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("card"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}
	card, err := op(s, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handlers) createStory(c *gin.Context) {
	var req story.NewStory
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Stories.Create(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) listStories(c *gin.Context) {
	opt := story.FilterOptions{
		FreeWords: c.Query("q"),
		HasImages: c.Query("images") == "1" || c.Query("images") == "true",
	}
	c.JSON(http.StatusOK, h.Stories.Search(opt))
}

func (h *Handlers) getStory(c *gin.Context) {
	st, ok := h.story(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) storyText(c *gin.Context) {
	st, ok := h.story(c)
	if !ok {
		return
	}
	name, body := story.ExportText(st, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// storyQR returns a QR code pointing at the story's text download.
func (h *Handlers) storyQR(c *gin.Context) {
	st, ok := h.story(c)
	if !ok {
		return
	}
	size := 256
	if s := c.Query("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			size = v
		}
	}
	b, err := imagepkg.GenerateQRPNG(fmt.Sprintf("%s/api/stories/%d/txt", h.BaseURL, st.ID), size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.Sessions.Get(c.Param("sid"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handlers) story(c *gin.Context) (story.Story, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
		return story.Story{}, false
	}
	st, err := h.Stories.Get(id)
	if err != nil {
		h.fail(c, err)
		return story.Story{}, false
	}
	return st, true
}

func (h *Handlers) png(c *gin.Context, img image.Image) {
	b, err := imagepkg.EncodePNG(img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", b)
}
