package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/petnest/petnest/internal/app/ctlapp"
	"github.com/petnest/petnest/internal/config"
	"github.com/petnest/petnest/internal/infra/logger"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "petnestctl: load config: %v\n", err)
		os.Exit(1)
	}

	// The console writes to stdout; keep the logger quiet unless asked.
	level := os.Getenv("PETNESTCTL_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log, err := logger.New(level, "petnestctl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "petnestctl: init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := ctlapp.New(ctx, cfg, log, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "petnestctl: %v\n", err)
		os.Exit(1)
	}

	runErr := app.Run(ctx, os.Args[1:])
	_ = app.Close()
	if runErr != nil {
		if !errors.Is(runErr, ctlapp.ErrUsage) {
			fmt.Fprintf(os.Stderr, "petnestctl: %v\n", runErr)
		}
		os.Exit(1)
	}
}
