package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"rescheck/internal/policy"
	"rescheck/internal/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

const usage = `Usage: rescheck [command] [flags]

Commands:
  check       measure the foreground window and check monitor scaling (default)
  resolution  measure the foreground window only
  monitors    check monitor scaling only
  adapters    list video adapters and their current mode
  watch       re-measure whenever the foreground window changes

Flags:
`

func main() {
	configFlag := pflag.StringP("config", "c", "", "Path to the JSON config file")
	jsonFlag := pflag.Bool("json", false, "Print the report as JSON on stdout")
	levelFlag := pflag.StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	envFlag := pflag.String("env-file", ".env", "Environment file to load before reading RESCHECK_* variables")
	versionFlag := pflag.BoolP("version", "v", false, "Print version information and exit")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("rescheck %s (%s)\n", version, commit)
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "rescheck",
	})

	if *envFlag != "" {
		if err := godotenv.Load(*envFlag); err != nil {
			logger.Debug("env file not loaded", "path", *envFlag, "err", err)
		}
	}

	cfg := policy.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		logger.Fatal("invalid environment", "err", err)
	}
	if *configFlag != "" {
		cfg.ConfigPath = *configFlag
	}
	if *levelFlag != "" {
		cfg.LogLevel = *levelFlag
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", cfg.LogLevel)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, logger, os.Stdout, *jsonFlag)
	app.startup(services.Dependencies{})

	if err := app.Run(ctx, pflag.Arg(0)); err != nil {
		logger.Error("failed", "err", err)
		stop()
		os.Exit(1)
	}
}
