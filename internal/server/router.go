package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
	"assistant-gateway/internal/auth"
	"assistant-gateway/internal/config"
	"assistant-gateway/internal/handler"
	"assistant-gateway/internal/middleware"
	"assistant-gateway/internal/relay"
	"assistant-gateway/internal/storage"
)

type Deps struct {
	Config     config.Config
	Logger     *zap.Logger
	Store      storage.Storage
	Validator  auth.Validator
	Assistants *assistant.Client
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(corsMiddleware(deps.Config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	assistantHandler := &handler.AssistantHandler{Assistants: deps.Assistants, Logger: deps.Logger}
	threadHandler := &handler.ThreadHandler{Assistants: deps.Assistants, Store: deps.Store, Logger: deps.Logger}
	streamHandler := &handler.StreamHandler{
		Relay: &relay.Relay{
			Opener: relay.OpenerFunc(func(ctx context.Context, threadID, assistantID string) (relay.Stream, error) {
				return deps.Assistants.StreamRun(ctx, threadID, assistantID)
			}),
			Store:  deps.Store,
			Logger: deps.Logger,
		},
		AssistantID: deps.Config.AssistantID,
		Logger:      deps.Logger,
	}
	protectedHandler := &handler.ProtectedHandler{}

	api := r.Group("/api")
	api.GET("/listassistants", assistantHandler.List)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(deps.Validator))
	authed.GET("/protected", protectedHandler.Get)
	authed.POST("/createassistant", assistantHandler.Create)

	subscribed := authed.Group("")
	subscribed.Use(middleware.RequireSubscription())
	subscribed.POST("/createthread", threadHandler.Create)
	subscribed.POST("/sendmessage", threadHandler.SendMessage)
	subscribed.GET("/stream", streamHandler.Stream)
	subscribed.GET("/stream/ws", streamHandler.StreamWS)

	return r
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	if cfg.FrontendURL == "" {
		return cors.Default()
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.FrontendURL}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	return cors.New(corsCfg)
}
