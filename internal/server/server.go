// Package server runs the HTTP side of the bot: a health endpoint and,
// when webhook delivery is configured, the Telegram update receiver.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/caloriebot/backend/config"
	"github.com/caloriebot/backend/internal/bot"
)

// Server is the HTTP server wrapping the gin router.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New creates the server. The orchestrator receives webhook updates
// translated into events, same as the polling path.
func New(cfg *config.Config, orch *bot.Orchestrator, log *zap.Logger) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/v1/telegram/webhook", func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			log.Warn("rejected malformed webhook update", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed update"})
			return
		}

		if ev, ok := bot.EventFromUpdate(update); ok {
			orch.HandleEvent(c.Request.Context(), ev)
		}
		c.Status(http.StatusOK)
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
		log: log,
	}
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
