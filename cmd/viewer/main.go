// Package main is the entry point for the interactive PBR viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/config"
	"github.com/Faultbox/pbrview/internal/engine/renderer"
	"github.com/Faultbox/pbrview/internal/engine/window"
	"github.com/Faultbox/pbrview/internal/logger"
	"github.com/Faultbox/pbrview/internal/viewer"
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

	logger.Info("=== pbrview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	width, height := win.Size()
	dev, err := renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer dev.Close()

	v := viewer.New(cfg, dev, win)
	defer v.Close()
	v.SetModelPicker(pickModel)

	if cfg.Assets.Model != "" {
		if err := v.LoadModel(cfg.Assets.Model); err != nil {
			logger.Error("model load failed", zap.String("path", cfg.Assets.Model), zap.Error(err))
		}
	}

	return v.Run()
}

// pickModel shows a native open dialog for glTF files.
func pickModel() (string, error) {
	path, err := dialog.File().
		Filter("glTF Models", "glb", "gltf").
		Filter("All Files", "*").
		Title("Open Model").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}
