// Package main starts the Conference Central API server.
package main

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../internal/delivery/http/docs

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"conferencecentral/config"
	"conferencecentral/internal/app"
)

// @title Conference Central API
// @version 1.0
// @description Conferences, sessions, speakers, registrations and wishlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
