package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vin-jex/design-platform-client/internal/api"
	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/observability"
)

// @title Mock Design Platform API
// @version 1.0
// @description Local stand-in for the platform's asynchronous enterprise API.

// @contact.name Okereke Vincent
// @contact.url https://github.com/vin-jex

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger("mock-platform")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	var opts []api.Option
	if cfg.AccessToken != "" {
		opts = append(opts, api.WithAccessToken(cfg.AccessToken))
	}

	server := api.NewServer(logger, opts...)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("mock platform listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)
}
