package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"rescheck/internal/events"
	"rescheck/internal/ipcapi"
	"rescheck/internal/policy"
	"rescheck/internal/resolution"
	"rescheck/internal/settings"
	"rescheck/internal/state"
)

// Display is the OS backend consumed by the services.
type Display interface {
	resolution.WindowSource
	resolution.MonitorSource
	Adapters() ([]state.Adapter, error)
	DesktopMonitors() ([]state.DesktopMonitor, error)
}

// EventSource delivers foreground changes for watch mode.
type EventSource interface {
	StartSources() error
	Events() <-chan events.SystemEvent
	Stop()
}

type Dependencies struct {
	Config  *policy.Config
	Logger  *log.Logger
	Display Display
	Store   settings.Store
	Events  EventSource
}

type Services struct {
	deps Dependencies

	det *resolution.Detector
	chk *resolution.Checker
}

func New(deps Dependencies) *Services {
	if deps.Config == nil {
		deps.Config = policy.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Display == nil {
		deps.Display = state.NewDisplay()
	}
	if deps.Store == nil {
		deps.Store = settings.NewFileStore(deps.Config.ConfigPath, deps.Config.ExpectedWidth, deps.Config.ExpectedHeight)
	}
	if deps.Events == nil {
		deps.Events = events.NewBus(64)
	}

	expected := resolution.Resolution{Width: deps.Config.ExpectedWidth, Height: deps.Config.ExpectedHeight}
	return &Services{
		deps: deps,
		det:  resolution.NewDetector(deps.Display, deps.Store, deps.Logger, expected),
		chk:  resolution.NewChecker(deps.Display, deps.Logger, deps.Config.Tolerance),
	}
}

// Check runs the resolution detector followed by the monitor consistency check.
func (s *Services) Check() (ipcapi.CheckReport, error) {
	rep := s.newReport()
	rr, err := s.resolution()
	if err != nil {
		return rep, err
	}
	rep.Resolution = rr
	mr, err := s.monitors()
	if err != nil {
		return rep, err
	}
	rep.Monitors = mr
	return rep, nil
}

func (s *Services) Resolution() (ipcapi.CheckReport, error) {
	rep := s.newReport()
	rr, err := s.resolution()
	rep.Resolution = rr
	return rep, err
}

func (s *Services) Monitors() (ipcapi.CheckReport, error) {
	rep := s.newReport()
	mr, err := s.monitors()
	rep.Monitors = mr
	return rep, err
}

func (s *Services) Adapters() (ipcapi.AdapterReport, error) {
	rep := ipcapi.AdapterReport{RunID: uuid.NewString(), AtUTC: ipcapi.NowUTC()}
	list, err := s.deps.Display.Adapters()
	if err != nil {
		return rep, fmt.Errorf("list adapters: %w", err)
	}
	rep.Adapters = make([]ipcapi.AdapterEntry, 0, len(list))
	for _, a := range list {
		s.deps.Logger.Info("adapter", "name", a.Name, "mode", fmt.Sprintf("%dx%d@%d", a.Width, a.Height, a.RefreshRate))
		rep.Adapters = append(rep.Adapters, ipcapi.AdapterEntry{
			Name:        a.Name,
			Width:       a.Width,
			Height:      a.Height,
			RefreshRate: a.RefreshRate,
		})
	}

	// The monitor inventory is supplementary; a WMI failure only loses it.
	mons, err := s.deps.Display.DesktopMonitors()
	if err != nil {
		s.deps.Logger.Warn("list desktop monitors", "err", err)
		return rep, nil
	}
	for _, m := range mons {
		s.deps.Logger.Info("monitor", "name", m.Name, "screen", fmt.Sprintf("%dx%d", m.ScreenWidth, m.ScreenHeight))
		rep.Monitors = append(rep.Monitors, ipcapi.DesktopMonitorEntry{
			Name:         m.Name,
			PNPDeviceID:  m.PNPDeviceID,
			ScreenWidth:  m.ScreenWidth,
			ScreenHeight: m.ScreenHeight,
		})
	}
	return rep, nil
}

// Watch re-measures the foreground window whenever focus moves to a different
// window. It returns nil once ctx is cancelled.
func (s *Services) Watch(ctx context.Context) error {
	if err := s.deps.Events.StartSources(); err != nil {
		return fmt.Errorf("start foreground hook: %w", err)
	}
	defer s.deps.Events.Stop()

	var last uintptr
	if res, err := s.det.Detect(); err != nil {
		s.deps.Logger.Warn("detect failed", "err", err)
	} else {
		last = res.Window.HWND
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.deps.Events.Events():
			if ev.Type != events.EventForegroundChanged || ev.HWND == last {
				continue
			}
			last = ev.HWND
			if _, err := s.det.Detect(); err != nil {
				if errors.Is(err, state.ErrNoForegroundWindow) {
					s.deps.Logger.Debug("focus lost before measurement")
					continue
				}
				s.deps.Logger.Warn("detect failed", "err", err)
			}
		}
	}
}

func (s *Services) newReport() ipcapi.CheckReport {
	id := uuid.NewString()
	s.deps.Logger.Debug("run", "id", id)
	return ipcapi.CheckReport{RunID: id, AtUTC: ipcapi.NowUTC()}
}

func (s *Services) resolution() (*ipcapi.ResolutionReport, error) {
	res, err := s.det.Detect()
	if err != nil {
		return nil, err
	}
	return &ipcapi.ResolutionReport{
		HWND:          fmt.Sprintf("0x%x", res.Window.HWND),
		Title:         res.Window.Title,
		Width:         res.Window.Rect.Width(),
		Height:        res.Window.Rect.Height(),
		DPIX:          res.DPI.X,
		DPIY:          res.DPI.Y,
		ScaleX:        res.ScaleX,
		ScaleY:        res.ScaleY,
		RealWidth:     res.Real.Width,
		RealHeight:    res.Real.Height,
		Matches:       res.Matches,
		ConfigPath:    s.deps.Store.Path(),
		ConfigCreated: res.Created,
	}, nil
}

func (s *Services) monitors() (*ipcapi.MonitorReport, error) {
	res, err := s.chk.Check()
	if err != nil {
		return nil, err
	}
	rep := &ipcapi.MonitorReport{
		Count:          len(res.Monitors),
		Checked:        res.Checked,
		Consistent:     res.Consistent,
		DistinctScales: res.Distinct,
		Monitors:       make([]ipcapi.MonitorEntry, 0, len(res.Monitors)),
	}
	for i, m := range res.Monitors {
		e := ipcapi.MonitorEntry{
			Device:  m.Device,
			Left:    m.Rect.Left,
			Top:     m.Rect.Top,
			Right:   m.Rect.Right,
			Bottom:  m.Rect.Bottom,
			Primary: m.Primary,
		}
		if i < len(res.Scales) {
			e.Scale = res.Scales[i]
		}
		rep.Monitors = append(rep.Monitors, e)
	}
	return rep, nil
}
