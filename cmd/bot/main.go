package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/caloriebot/backend/config"
	"github.com/caloriebot/backend/internal/bot"
	"github.com/caloriebot/backend/internal/catalog"
	"github.com/caloriebot/backend/internal/database"
	"github.com/caloriebot/backend/internal/server"
	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/internal/session"
	"github.com/caloriebot/backend/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zl := logger.L()

	db, err := database.New(cfg)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	productService := service.NewProductService(db)
	mealService := service.NewMealService(db)
	userService := service.NewUserService(db)

	if _, err := catalog.NewLoader(productService, cfg, zl).Load(context.Background()); err != nil {
		zl.Fatal("failed to load product catalog", zap.Error(err))
	}

	// Dialogue state lives in Redis when one is configured, otherwise in
	// process memory.
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			zl.Fatal("failed to connect to Redis", zap.Error(err))
		}
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
	}

	telegram, err := bot.NewTelegram(cfg.BotToken, zl)
	if err != nil {
		zl.Fatal("failed to create telegram transport", zap.Error(err))
	}

	orch := bot.NewOrchestrator(productService, mealService, userService, sessions, telegram, zl)
	srv := server.New(cfg, orch, zl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 2)

	go func() {
		errChan <- srv.Start()
	}()

	if cfg.WebhookURL != "" {
		if err := telegram.RegisterWebhook(cfg.WebhookURL); err != nil {
			zl.Fatal("failed to register webhook", zap.Error(err))
		}
		zl.Info("bot started", zap.String("mode", "webhook"))
	} else {
		go func() {
			zl.Info("bot started", zap.String("mode", "polling"))
			errChan <- telegram.Run(ctx, orch.HandleEvent)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			zl.Error("runtime error", zap.Error(err))
		}
	case sig := <-quit:
		zl.Info("received signal", zap.String("signal", sig.String()))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
	}
	zl.Info("bot stopped")
}
