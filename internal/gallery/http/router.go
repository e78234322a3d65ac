package http

import (
	"github.com/gin-gonic/gin"

	"github.com/AmlrSF/portfolio-client/internal/api/http/middleware"
)

// Register wires the gallery routes onto the given group. Mutation
// endpoints sit behind a shared token-bucket limiter.
func Register(r *gin.RouterGroup, h *Handler) {
	projects := r.Group("/projects")

	projects.GET("", h.list)
	projects.GET("/trending", h.trending)
	projects.GET("/:id", h.get)
	projects.POST("", h.create)

	mutate := projects.Group("")
	mutate.Use(middleware.RateLimit(50, 100))
	{
		mutate.POST("/:id/view", h.recordView)
		mutate.POST("/:id/like", h.like)
	}
}
