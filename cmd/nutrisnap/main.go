package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/vbonduro/nutrisnap/internal/config"
	"github.com/vbonduro/nutrisnap/internal/db"
	"github.com/vbonduro/nutrisnap/internal/logging"
	"github.com/vbonduro/nutrisnap/internal/photocache"
	"github.com/vbonduro/nutrisnap/internal/service"
	"github.com/vbonduro/nutrisnap/internal/store"
	"github.com/vbonduro/nutrisnap/internal/vision"
	claudevision "github.com/vbonduro/nutrisnap/internal/vision/claude"
	geminivision "github.com/vbonduro/nutrisnap/internal/vision/gemini"
	ollamavision "github.com/vbonduro/nutrisnap/internal/vision/ollama"
	"github.com/vbonduro/nutrisnap/internal/web"
	"github.com/vbonduro/nutrisnap/internal/web/templates"
)

func main() {
	// A missing .env is fine; the environment may already carry the keys.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	sessionStore := store.NewSessionStore(database)
	goalStore := store.NewGoalStore(database)
	analysisStore := store.NewAnalysisStore(database)

	analyzer := newMealAnalyzer(cfg, logger)
	if analyzer == nil {
		return
	}

	mealService := service.NewMealService(
		sessionStore, goalStore, analysisStore,
		analyzer, photocache.New(), cfg.SessionTTL, logger,
	)
	server := web.NewServer(mealService, templates.FS, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newMealAnalyzer(cfg *config.Config, logger *slog.Logger) vision.MealAnalyzer {
	switch cfg.ModelBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when MODEL_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude model backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama model backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel)
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Error("GEMINI_API_KEY is required when MODEL_BACKEND=gemini")
			return nil
		}
		logger.Info("using Gemini model backend", "model", cfg.GeminiModel)
		return geminivision.NewGeminiAnalyzer(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
