package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/talentsift/backend/config"
	"github.com/talentsift/backend/internal/analyzer"
	"github.com/talentsift/backend/internal/api/handlers"
	"github.com/talentsift/backend/internal/api/middleware"
	"github.com/talentsift/backend/internal/api/routes"
	"github.com/talentsift/backend/internal/auth"
	"github.com/talentsift/backend/internal/cache"
	"github.com/talentsift/backend/internal/extract"
	"github.com/talentsift/backend/internal/logger"
	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/providers/llm"
	pgrepo "github.com/talentsift/backend/internal/repositories/postgres"
	"github.com/talentsift/backend/internal/services"
	"github.com/talentsift/backend/internal/storage"
	"github.com/talentsift/backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	db := config.PostgresDB
	if err := db.AutoMigrate(&models.User{}, &models.ResumeAnalysis{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	tokens, err := auth.NewIssuer(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("token issuer error: %v", err)
	}

	ctx := context.Background()

	provider, err := llm.NewVertexGemini(ctx, cfg.GoogleProject, cfg.GoogleLocation, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	defer provider.Close()

	var resultsCache cache.Cache
	if cfg.RedisAddr != "" {
		if err := config.InitRedis(); err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		resultsCache = cache.NewRedisCache(config.RedisClient)
		lg.Info("Redis connected")
	}

	var archive storage.Uploader
	if cfg.GCSBucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer up.Close()
		archive = up
		lg.WithField("bucket", cfg.GCSBucket).Info("resume archive enabled")
	}

	users := pgrepo.NewUserRepo(db)
	analyses := pgrepo.NewAnalysisRepo(db)

	runner := &workers.AnalysisRunner{
		Analyses:  analyses,
		Extractor: extract.PDF{},
		Analyzer:  analyzer.New(provider),
		Archive:   archive,
		Cache:     resultsCache,
		Logger:    lg,
	}

	userSvc := services.NewUserService(users, tokens)
	analysisSvc := services.NewAnalysisService(analyses, runner, resultsCache)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:     handlers.NewAuthHandler(userSvc),
		Analysis: handlers.NewAnalysisHandler(analysisSvc),
		Tokens:   tokens,
		Users:    users,
	})

	lg.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
