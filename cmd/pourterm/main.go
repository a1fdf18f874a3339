// Package main previews pours in the terminal.
//
// Usage:
//
//	pourterm [flags] [recipe files or directories...]
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Faultbox/pourglass/internal/audio"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/term"
)

// defaultFPS is the tick rate when the viewer has no frame limit set.
const defaultFPS = 30

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the program; log to the file only.
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sim, playlist, err := pour.Setup(cfg, config.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if speaker := audio.Start(cfg.Audio, sim); speaker != nil {
		defer speaker.Close()
	}

	fps := cfg.Viewer.FPSLimit
	if fps <= 0 {
		fps = defaultFPS
	}
	model, err := term.New(sim, playlist, time.Second/time.Duration(fps))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(term.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err())
		os.Exit(1)
	}
}
