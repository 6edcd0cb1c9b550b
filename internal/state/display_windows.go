//go:build windows

package state

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// Display reads window and monitor geometry through user32 and gdi32.
type Display struct{}

func NewDisplay() *Display { return &Display{} }

func (d *Display) ForegroundWindow() (WindowInfo, error) {
	hwnd := getForegroundWindow()
	if hwnd == 0 {
		return WindowInfo{}, ErrNoForegroundWindow
	}
	var r RECT
	r1, _, e1 := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return WindowInfo{}, fmt.Errorf("GetWindowRect(0x%x): %w", hwnd, e1)
	}
	return WindowInfo{
		HWND:  hwnd,
		Title: getWindowTitle(hwnd),
		Rect:  Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom},
	}, nil
}

// WindowDPI reads LOGPIXELSX/LOGPIXELSY from the window's device context.
func (d *Display) WindowDPI(hwnd uintptr) (DPI, error) {
	return withDC(
		func() (uintptr, error) {
			r1, _, e1 := procGetWindowDC.Call(hwnd)
			if r1 == 0 {
				return 0, fmt.Errorf("GetWindowDC(0x%x): %w", hwnd, e1)
			}
			return r1, nil
		},
		func(hdc uintptr) { win.ReleaseDC(win.HWND(hwnd), win.HDC(hdc)) },
		func(hdc uintptr) (DPI, error) {
			return readDPI(func(index int32) int { return int(win.GetDeviceCaps(win.HDC(hdc), index)) })
		},
	)
}

// Monitors enumerates attached displays with their device names. Capability
// is left empty; see Capability.
func (d *Display) Monitors() ([]Monitor, error) {
	enumMonitors.begin()
	r1, _, e1 := procEnumDisplayMonitors.Call(0, 0, enumMonitorsCallback, 0)
	found := enumMonitors.end()
	if r1 == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", e1)
	}

	for i := range found {
		var mi MONITORINFOEXW
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		r1, _, e1 := procGetMonitorInfoW.Call(found[i].Handle, uintptr(unsafe.Pointer(&mi)))
		if r1 == 0 {
			return nil, fmt.Errorf("GetMonitorInfoW(0x%x): %w", found[i].Handle, e1)
		}
		found[i].Device = windows.UTF16ToString(mi.SzDevice[:])
		found[i].Primary = mi.DwFlags&MONITORINFOF_PRIMARY != 0
	}
	return found, nil
}

// Capability creates a DC for the monitor's display device and reads
// DESKTOPHORZRES from it. The DC is deleted before returning.
func (d *Display) Capability(m Monitor) (int, error) {
	name, err := windows.UTF16PtrFromString(m.Device)
	if err != nil {
		return 0, fmt.Errorf("device name %q: %w", m.Device, err)
	}
	return withDC(
		func() (uintptr, error) {
			hdc := win.CreateDC(name, name, nil, nil)
			if hdc == 0 {
				return 0, fmt.Errorf("CreateDC(%s) failed", m.Device)
			}
			return uintptr(hdc), nil
		},
		func(hdc uintptr) { win.DeleteDC(win.HDC(hdc)) },
		func(hdc uintptr) (int, error) {
			return int(win.GetDeviceCaps(win.HDC(hdc), DESKTOPHORZRES)), nil
		},
	)
}

// Callbacks created by NewCallback are never freed, so one is shared by all
// enumerations and serialised through enumMonitors.
var (
	enumMonitors         monitorCollector
	enumMonitorsCallback = windows.NewCallback(func(hMonitor uintptr, hdc uintptr, rect *RECT, lParam uintptr) uintptr {
		enumMonitors.add(hMonitor, Rect{Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Bottom})
		return 1
	})
)

var (
	u32                      = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow  = u32.NewProc("GetForegroundWindow")
	procGetWindowRect        = u32.NewProc("GetWindowRect")
	procGetWindowTextW       = u32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = u32.NewProc("GetWindowTextLengthW")
	procGetWindowDC          = u32.NewProc("GetWindowDC")
	procEnumDisplayMonitors  = u32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW      = u32.NewProc("GetMonitorInfoW")
)

const MONITORINFOF_PRIMARY = 0x1

type RECT struct {
	Left, Top, Right, Bottom int32
}

type MONITORINFOEXW struct {
	CbSize    uint32
	RcMonitor RECT
	RcWork    RECT
	DwFlags   uint32
	SzDevice  [32]uint16
}

func getForegroundWindow() uintptr {
	r1, _, _ := procGetForegroundWindow.Call()
	return r1
}

func getWindowTitle(hwnd uintptr) string {
	r1, _, _ := procGetWindowTextLengthW.Call(hwnd)
	n := int(r1)
	if n <= 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	r2, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r2 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r2])
}
