// Package main renders pour runs headless into WebP frames.
//
// Usage:
//
//	poursnap [--out dir] [--frames n] [--animate] [recipe files or directories...]
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/engine/lighting"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/snapshot"
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

	sim, playlist, err := pour.Setup(cfg, config.Args())
	if err != nil {
		logger.Error("setup failed", zap.Error(err))
		os.Exit(1)
	}

	runner, err := snapshot.New(cfg.Snapshot, sim, playlist)
	if err != nil {
		logger.Error("invalid snapshot settings", zap.Error(err))
		os.Exit(1)
	}
	runner.Renderer().Light = lighting.Key(cfg.Light)

	res, err := runner.Run()
	if err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		os.Exit(1)
	}

	for _, p := range res.Frames {
		fmt.Println(p)
	}
	if res.Animation != "" {
		fmt.Println(res.Animation)
	}
}
