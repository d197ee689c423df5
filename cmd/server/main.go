package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dotaciones/staffing-api-go/pkg/auth"
	"github.com/dotaciones/staffing-api-go/pkg/config"
	"github.com/dotaciones/staffing-api-go/pkg/database"
	"github.com/dotaciones/staffing-api-go/pkg/handlers"
	"github.com/dotaciones/staffing-api-go/pkg/mailer"
	"github.com/dotaciones/staffing-api-go/pkg/ratelimit"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if username, err := auth.EnsureAdminExists(db); err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
	} else if username != "" {
		logger.Info("default admin user created", zap.String("username", username))
	}

	var m mailer.Mailer = mailer.Nop{}
	if cfg.SMTP.Host != "" {
		m = &mailer.SMTP{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			From:      cfg.SMTP.From,
			ContactTo: cfg.SMTP.ContactTo,
		}
	}

	h := &handlers.Handler{
		DB:              db,
		Logger:          logger,
		Mailer:          m,
		Limiter:         ratelimit.NewPerIP(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		SiteURL:         cfg.SiteURL,
		MaxPayloadBytes: cfg.MaxPayloadBytes,
	}

	r := h.Router()

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
