package api

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		api.GET("/images/picsum/:id", h.picsum)
		api.GET("/images/placeholder.png", h.placeholder)
		api.GET("/cards/back.png", h.cardBack)

		api.POST("/sessions", h.createSession)
		api.GET("/sessions/:sid", h.getSession)
		api.DELETE("/sessions/:sid", h.deleteSession)
		api.POST("/sessions/:sid/reveal-all", h.revealAll)
		api.POST("/sessions/:sid/cards/:card/flip", h.flipCard)
		api.POST("/sessions/:sid/cards/:card/hide", h.hideCard)
		api.POST("/sessions/:sid/cards/:card/failed", h.cardFailed)

		api.POST("/stories", h.createStory)
		api.GET("/stories", h.listStories)
		api.GET("/stories/:id", h.getStory)
		api.GET("/stories/:id/txt", h.storyText)
		api.GET("/stories/:id/qr", h.storyQR)
	}
	if h.AssetsDir != "" {
		prefix := h.AssetsPrefix
		if prefix == "" {
			prefix = "/assets"
		}
		r.Static(prefix, h.AssetsDir)
	}
}
