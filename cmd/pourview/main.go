// Package main is the interactive pourglass viewer.
//
// Usage:
//
//	pourview [flags] [recipe files or directories...]
//
// Keys: Space pause, 1-9 fill to tenths, 0 fill to the brim, N next recipe,
// R replay, B bounds, F reframe, F12 screenshot, Esc quit.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/audio"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== pourglass viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sim, playlist, err := pour.Setup(cfg, config.Args())
	if err != nil {
		logger.Error("setup failed", zap.Error(err))
		os.Exit(1)
	}

	if speaker := audio.Start(cfg.Audio, sim); speaker != nil {
		defer speaker.Close()
	}

	v, err := viewer.New(cfg, sim, playlist)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
