package main

import (
	"context"
	"os/signal"
	"syscall"

	"cumbrecita/config"
	"cumbrecita/di"
	"cumbrecita/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()
	worker.Run(ctx)
}
