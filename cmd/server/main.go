package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
	"assistant-gateway/internal/auth"
	"assistant-gateway/internal/config"
	"assistant-gateway/internal/server"
	"assistant-gateway/internal/storage"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	gin.SetMode(cfg.GinMode)

	var store storage.Storage
	if cfg.DatabaseURL != "" {
		logger.Info("Using direct Postgres storage")
		store, err = storage.NewPostgresStorage(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	} else {
		logger.Info("Using PostgREST storage")
		store, err = storage.NewPostgRESTStorage(storage.PostgRESTConfig{
			SupabaseURL: cfg.SupabaseURL,
			ServiceKey:  cfg.SupabaseServiceKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	var users auth.UserSource
	if cfg.SupabaseJWTSecret != "" {
		logger.Info("Verifying access tokens locally")
		users = &auth.JWTVerifier{Secret: cfg.SupabaseJWTSecret}
	} else {
		users, err = auth.NewGoTrueClient(auth.GoTrueConfig{
			SupabaseURL: cfg.SupabaseURL,
			APIKey:      cfg.SupabaseServiceKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize auth client", zap.Error(err))
		}
	}
	validator := &auth.SupabaseValidator{Users: users, Subscriptions: store, Logger: logger}

	assistants := assistant.NewClient(assistant.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	}, logger)

	if cfg.AssistantID == "" {
		logger.Warn("OPENAI_ASSISTANT_ID is not set; /api/stream will reject requests")
	}

	router := server.NewRouter(server.Deps{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Validator:  validator,
		Assistants: assistants,
	})

	logger.Info("listening", zap.String("addr", fmt.Sprintf(":%d", cfg.Port)))
	if err := server.Run(cfg, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
