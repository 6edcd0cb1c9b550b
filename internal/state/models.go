package state

import "errors"

// BaselineDPI is the logical pixel density of a 100% scaled display.
const BaselineDPI = 96

var (
	ErrNoForegroundWindow = errors.New("no foreground window")
	ErrNotSupported       = errors.New("not supported on this platform")
)

type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

func (r Rect) Width() int  { return int(r.Right - r.Left) }
func (r Rect) Height() int { return int(r.Bottom - r.Top) }

type WindowInfo struct {
	HWND  uintptr `json:"hwnd"`
	Title string  `json:"title,omitempty"`
	Rect  Rect    `json:"rect"`
}

// DPI is the logical pixels-per-inch pair reported for a device context.
type DPI struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Monitor is one attached display. Capability holds the raw DESKTOPHORZRES value
// of the device, i.e. its physical horizontal resolution.
type Monitor struct {
	Handle     uintptr `json:"handle"`
	Device     string  `json:"device"`
	Rect       Rect    `json:"rect"`
	Primary    bool    `json:"primary"`
	Capability int     `json:"capability"`
}

type Adapter struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RefreshRate int    `json:"refreshRate,omitempty"`
}

// DesktopMonitor is the WMI view of a physical monitor. ScreenWidth and
// ScreenHeight are zero when the driver does not report them.
type DesktopMonitor struct {
	Name         string `json:"name"`
	PNPDeviceID  string `json:"pnpDeviceID,omitempty"`
	ScreenWidth  int    `json:"screenWidth,omitempty"`
	ScreenHeight int    `json:"screenHeight,omitempty"`
}
