// Package main implements the entry point for the cardforge server,
// which turns study content into flashcards via an LLM and exports them
// as json, csv, txt, html, and Anki deck packages.
package main

import (
	"context"
	"fmt"
	"os"

	"cardforge/internal/config"
	"cardforge/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cardforge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"export_directory", cfg.Export.Directory)

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	return app.Run(ctx)
}
