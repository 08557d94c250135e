package main

import (
	"context"
	stdlog "log"
	"os"

	"pcb-vision/config"
	"pcb-vision/internal/container"
	"pcb-vision/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}

	// Собираем адаптеры и сервисы приложения
	appContainer, err := container.Build(cfg, log)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	_, runErr := appContainer.InspectionService.Run(context.Background(), cfg.ModelPath)
	if err := appContainer.Close(); err != nil {
		log.WithError(err).Warn("failed to release detector")
	}
	if runErr != nil {
		log.WithError(runErr).Error("Inspection failed")
		os.Exit(1)
	}
}
