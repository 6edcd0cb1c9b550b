//go:build !windows

package state

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// Display on non-Windows platforms only knows about monitor bounds. Window and
// DPI queries are unavailable, and every monitor reports a 1:1 scale.
type Display struct{}

func NewDisplay() *Display { return &Display{} }

func (d *Display) ForegroundWindow() (WindowInfo, error) {
	return WindowInfo{}, ErrNotSupported
}

func (d *Display) WindowDPI(hwnd uintptr) (DPI, error) {
	return DPI{}, ErrNotSupported
}

func (d *Display) Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	out := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, Monitor{
			Handle:  uintptr(i),
			Device:  fmt.Sprintf("display-%d", i),
			Rect:    Rect{Left: int32(b.Min.X), Top: int32(b.Min.Y), Right: int32(b.Max.X), Bottom: int32(b.Max.Y)},
			Primary: i == 0,
		})
	}
	return out, nil
}

// Capability reports the bounds width, so every monitor scales 1:1.
func (d *Display) Capability(m Monitor) (int, error) {
	return m.Rect.Width(), nil
}

func (d *Display) Adapters() ([]Adapter, error) {
	return nil, ErrNotSupported
}

func (d *Display) DesktopMonitors() ([]DesktopMonitor, error) {
	return nil, ErrNotSupported
}
