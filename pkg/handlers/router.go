package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with the full route table. Both the server
// binary and the serverless entry point use it so the surfaces never drift.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Dotaciones Staffing API",
			"version": "1.0.0",
		})
	})

	// Public calculator surface, rate limited and body capped
	api := r.Group("/api")
	api.Use(h.RateLimitMiddleware(), h.BodyLimitMiddleware())
	{
		api.POST("/calculate", h.Calculate)
		api.POST("/validate", h.ValidateInput)
		api.POST("/leads", h.CreateLead)
		api.POST("/contact", h.Contact)
		api.GET("/report/:id", h.GetReport)
	}

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("/leads", h.ListLeads)
		admin.GET("/messages", h.ListMessages)
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Programmatic surface for API key holders
	v1 := r.Group("/v1")
	v1.Use(h.APIKeyMiddleware())
	{
		v1.POST("/calculate", h.Calculate)
		v1.GET("/usage", h.GetMyUsage)
	}

	return r
}
