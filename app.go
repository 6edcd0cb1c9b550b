package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"rescheck/internal/policy"
	"rescheck/internal/services"
)

type App struct {
	cfg    *policy.Config
	logger *log.Logger
	out    io.Writer
	asJSON bool

	svc *services.Services
}

func NewApp(cfg *policy.Config, logger *log.Logger, out io.Writer, asJSON bool) *App {
	return &App{cfg: cfg, logger: logger, out: out, asJSON: asJSON}
}

func (a *App) startup(deps services.Dependencies) {
	deps.Config = a.cfg
	deps.Logger = a.logger
	a.svc = services.New(deps)
}

// Run executes one command. Reports are only printed with --json; otherwise the
// log output is the result.
func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "", "check":
		rep, err := a.svc.Check()
		if err != nil {
			return err
		}
		return a.print(rep)
	case "resolution":
		rep, err := a.svc.Resolution()
		if err != nil {
			return err
		}
		return a.print(rep)
	case "monitors":
		rep, err := a.svc.Monitors()
		if err != nil {
			return err
		}
		return a.print(rep)
	case "adapters":
		rep, err := a.svc.Adapters()
		if err != nil {
			return err
		}
		return a.print(rep)
	case "watch":
		a.logger.Info("watching foreground window", "config", a.cfg.ConfigPath)
		return a.svc.Watch(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) print(v any) error {
	if !a.asJSON {
		return nil
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
