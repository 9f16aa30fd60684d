package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/cmd"
	"github.com/yumyai/domcomb/internal/config"
	"github.com/yumyai/domcomb/logger"
)

const VERSION = "0.1.0"

func main() {
	// Try load env
	found, dotenvErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Establish logger
	if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if dotenvErr != nil {
		logger.Warn("Could not read .env", zap.Error(dotenvErr))
	} else if !found {
		logger.Debug("No .env found, using local environment")
	}

	root := cmd.NewRootCommand(cfg)
	root.Version = VERSION
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("domcomb failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
