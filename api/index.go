package handler

import (
	"log"
	"net/http"

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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if _, err := auth.EnsureAdminExists(db); err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
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

	gin.SetMode(gin.ReleaseMode)
	r = h.Router()
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
