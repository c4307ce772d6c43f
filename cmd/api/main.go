package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskHelper/internal/app"
	"taskHelper/internal/config"
	"taskHelper/internal/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("App: effective config", zap.String("config", cfg.Redacted()))

	ctx := context.Background()
	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		logger.Error("App: failed to initialise", err)
		logger.Sync()
		os.Exit(1)
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Error("App: server stopped unexpectedly", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.Server.ShutdownTimeout, application.ShutdownOperations())

	exitCode := <-wait
	logger.Info("App: exited", zap.Int("code", exitCode))
	logger.Sync()
	os.Exit(exitCode)
}
