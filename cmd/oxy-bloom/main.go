package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-bloom/app"
	"github.com/Carmen-Shannon/oxy-bloom/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a .toml or .yaml config; edits hot-reload the bloom params")
		modelPath  = flag.String("model", "", "glTF/GLB file or http(s) URL, overrides the config; Draco-compressed assets are not decoded and fail to load")
		showPanel  = flag.Bool("panel", false, "open the terminal control panel")
		profile    = flag.Bool("profile", false, "log frame statistics")
		logPath    = flag.String("log", "", "write logs to this file instead of stderr")
		dumpState  = flag.String("dump-state", "", "print the final scene flags on exit: toml or yaml")
	)
	flag.Parse()

	if err := run(*configPath, *modelPath, *showPanel, *profile, *logPath, *dumpState); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-bloom: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, modelPath string, showPanel, profile bool, logPath, dumpState string) error {
	var dumpFormat config.Format
	if dumpState != "" {
		f, err := config.ParseFormat(dumpState)
		if err != nil {
			return fmt.Errorf("-dump-state: %w", err)
		}
		dumpFormat = f
	}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if showPanel {
		cfg.State.PanelVisible = true
	}

	options := []app.AppBuilderOption{app.WithPanel(showPanel), app.WithProfiling(profile)}
	if configPath != "" {
		options = append(options, app.WithConfigPath(configPath))
	}
	a, err := app.New(cfg, options...)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Load(ctx); err != nil {
		return err
	}
	if err := a.Run(ctx); err != nil {
		return err
	}

	if dumpState != "" {
		a.Close()
		return config.Encode(os.Stdout, dumpFormat, a.State())
	}
	return nil
}
