package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskboardhq/taskboard/internal/app"
	"github.com/taskboardhq/taskboard/pkg/config"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lgr := logger.New().With(logger.Field{Key: "app", Value: "taskboard"})
	application, err := app.New(app.Options{
		Config: cfg,
		Logger: lgr,
	})
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	go func() {
		if err := application.Listen(); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
