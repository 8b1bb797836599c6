package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mirrelia/community-feed/backend/internal/config"
	"github.com/mirrelia/community-feed/backend/internal/database"
	"github.com/mirrelia/community-feed/backend/internal/logging"
	"github.com/mirrelia/community-feed/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Server.Mode != "release"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logging.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	demoUser, err := db.EnsureDemoUser(cfg.Feed.DemoUsername)
	if err != nil {
		logging.L().Fatal("Failed to seed demo user", zap.Error(err))
	}

	srv := server.New(cfg, db, demoUser.ID)
	httpServer := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.L().Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.L().Error("Forced shutdown", zap.Error(err))
	}
}
