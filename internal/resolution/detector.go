// Package resolution measures the effective resolution of the foreground window
// and checks that attached monitors share one scaling factor.
package resolution

import (
	"fmt"

	"github.com/charmbracelet/log"

	"rescheck/internal/settings"
	"rescheck/internal/state"
)

// WindowSource is the part of the display backend the detector needs.
type WindowSource interface {
	ForegroundWindow() (state.WindowInfo, error)
	WindowDPI(hwnd uintptr) (state.DPI, error)
}

type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Resolution) String() string { return fmt.Sprintf("%d x %d", r.Width, r.Height) }

type Result struct {
	Window   state.WindowInfo
	DPI      state.DPI
	ScaleX   float64
	ScaleY   float64
	Real     Resolution
	Matches  bool
	Created  bool
	Expected Resolution
}

type Detector struct {
	src      WindowSource
	store    settings.Store
	logger   *log.Logger
	expected Resolution
}

func NewDetector(src WindowSource, store settings.Store, logger *log.Logger, expected Resolution) *Detector {
	return &Detector{src: src, store: store, logger: logger, expected: expected}
}

// RealResolution converts a logical size to physical pixels for the given DPI,
// truncating toward zero.
func RealResolution(width, height int, dpi state.DPI) Resolution {
	return Resolution{
		Width:  width * dpi.X / state.BaselineDPI,
		Height: height * dpi.Y / state.BaselineDPI,
	}
}

// Detect measures the foreground window and persists real_width/real_height.
// The values are written even when they do not match the expected resolution.
func (d *Detector) Detect() (Result, error) {
	w, err := d.src.ForegroundWindow()
	if err != nil {
		return Result{}, fmt.Errorf("foreground window: %w", err)
	}
	d.logger.Info("foreground window", "hwnd", fmt.Sprintf("0x%x", w.HWND))
	d.logger.Info("window title", "title", w.Title)

	dpi, err := d.src.WindowDPI(w.HWND)
	if err != nil {
		return Result{}, fmt.Errorf("window dpi: %w", err)
	}

	actual := RealResolution(w.Rect.Width(), w.Rect.Height(), dpi)
	res := Result{
		Window:   w,
		DPI:      dpi,
		ScaleX:   float64(dpi.X) / state.BaselineDPI,
		ScaleY:   float64(dpi.Y) / state.BaselineDPI,
		Real:     actual,
		Matches:  actual == d.expected,
		Expected: d.expected,
	}
	d.logger.Debug("measured", "width", w.Rect.Width(), "height", w.Rect.Height(),
		"scaleX", res.ScaleX, "scaleY", res.ScaleY)

	if !d.store.Exists() {
		if err := d.store.Init(actual.Width, actual.Height); err != nil {
			return res, fmt.Errorf("init config: %w", err)
		}
		res.Created = true
	}

	if !res.Matches {
		d.logger.Warnf("please set the display resolution to %s", d.expected)
		d.logger.Warnf("wrong resolution: %s", actual)
	}
	// Matching resolution: nothing to report.

	if err := d.store.Set(settings.KeyRealWidth, actual.Width); err != nil {
		return res, fmt.Errorf("save %s: %w", settings.KeyRealWidth, err)
	}
	if err := d.store.Set(settings.KeyRealHeight, actual.Height); err != nil {
		return res, fmt.Errorf("save %s: %w", settings.KeyRealHeight, err)
	}
	return res, nil
}
