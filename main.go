package main

import (
	"flag"
	"log/slog"

	"github.com/soocke/selfie-booth-go/app"
	"github.com/soocke/selfie-booth-go/config"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	debug := flag.Bool("debug", false, "enable runtime diagnostics (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if *debug {
		cfg.Debug = true
	}

	level := parseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	application := app.NewApp("Selfie Booth", 760, 720, cfg, *cfgPath, logger)
	application.Start()
}
