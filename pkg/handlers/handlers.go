package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dotaciones/staffing-api-go/pkg/auth"
	"github.com/dotaciones/staffing-api-go/pkg/database"
	"github.com/dotaciones/staffing-api-go/pkg/engine"
	"github.com/dotaciones/staffing-api-go/pkg/mailer"
	"github.com/dotaciones/staffing-api-go/pkg/models"
	"github.com/dotaciones/staffing-api-go/pkg/ratelimit"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB              *gorm.DB
	Logger          *zap.Logger
	Mailer          mailer.Mailer
	Limiter         *ratelimit.PerIP
	SiteURL         string
	MaxPayloadBytes int64
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC-signed API key for programmatic routes
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		now := time.Now()
		apiKey.LastUsed = &now
		h.DB.Model(&apiKey).Update("last_used", now)

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// RateLimitMiddleware rejects clients that exceed the per-IP budget
func (h *Handler) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter != nil && !h.Limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// BodyLimitMiddleware caps the request body size before any handler reads it
func (h *Handler) BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.MaxPayloadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxPayloadBytes)
		}
		c.Next()
	}
}

// bindJSON decodes the request body into v, mapping an oversized body to 413
// and any other decode failure to 400. Returns false when a response was
// already written.
func (h *Handler) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Calculate handles the staffing calculation request
func (h *Handler) Calculate(c *gin.Context) {
	var input models.CalcInput
	if !h.bindJSON(c, &input) {
		return
	}

	if msg, ok := validateCalcInput(&input); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	result := engine.Calculate(input)

	h.RecordUsage(c, result.RequiredHours, len(result.Mixes))

	h.Logger.Info("calculation served",
		zap.Float64("required_hours", result.RequiredHours),
		zap.Int("mixes", len(result.Mixes)),
		zap.Int("warnings", len(result.Warnings)),
	)

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, requiredHours float64, mixCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":        gorm.Expr("request_count + ?", 1),
			"total_required_hours": gorm.Expr("total_required_hours + ?", requiredHours),
			"total_mixes":          gorm.Expr("total_mixes + ?", mixCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:              apiKey.ID,
		Date:               today,
		RequestCount:       1,
		TotalRequiredHours: requiredHours,
		TotalMixes:         mixCount,
	})
}

// GetReport returns the stored calculation for a captured lead
func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("id")

	var lead database.Lead
	if err := h.DB.First(&lead, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	input := lead.CalcInput
	if input == "" {
		input = "null"
	}
	result := lead.CalcResult
	if result == "" {
		result = "null"
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8",
		[]byte(`{"ok":true,"calc_input":`+input+`,"calc_result":`+result+`}`))
}
