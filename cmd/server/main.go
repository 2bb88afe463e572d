package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ghost-server/internal/engine"
	"ghost-server/internal/infrastructure/storage"
	"ghost-server/internal/server"
	"ghost-server/internal/version"
	"ghost-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфиг: окружение, поверх него флаги
	cfg := engine.NewConfig()

	var inspectPath string
	flag.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "Directory for ghost_record.bin")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP/WebSocket port")
	flag.Float64Var(&cfg.FixedStep, "fixed-step", cfg.FixedStep, "Fixed simulation step in seconds")
	flag.StringVar(&inspectPath, "inspect", "", "Print summary of a ghost file and exit")
	flag.Parse()

	logger.Log.Info("Starting Ghost Replay...")
	logger.Log.Info(version.String())

	// РЕЖИМ ПРОСМОТРА ФАЙЛА
	if inspectPath != "" {
		sum, err := storage.Inspect(inspectPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to inspect ghost file")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			logger.Log.WithError(err).Fatal("Failed to print summary")
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	// 2. Хост и его цикл
	host := engine.NewHost(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		host.Run(ctx)
		close(loopDone)
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(host, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	// Цикл сам сохранит незаконченную запись
	cancel()
	<-loopDone

	logger.Log.Info("Done.")
}
