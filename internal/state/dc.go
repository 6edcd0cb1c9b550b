package state

import (
	"fmt"
	"sync"
)

// GetDeviceCaps indexes used by the display backends.
const (
	LOGPIXELSX     = 88
	LOGPIXELSY     = 90
	DESKTOPHORZRES = 118
)

// withDC acquires a device context, hands it to use and releases it on every
// exit path, including a panic inside use. release is not called when acquire fails.
func withDC[T any](acquire func() (uintptr, error), release func(hdc uintptr), use func(hdc uintptr) (T, error)) (T, error) {
	hdc, err := acquire()
	if err != nil {
		var zero T
		return zero, err
	}
	defer release(hdc)
	return use(hdc)
}

// readDPI builds a DPI pair from a GetDeviceCaps lookup.
func readDPI(caps func(index int32) int) (DPI, error) {
	x, y := caps(LOGPIXELSX), caps(LOGPIXELSY)
	if x <= 0 || y <= 0 {
		return DPI{}, fmt.Errorf("GetDeviceCaps(LOGPIXELS) returned %d x %d", x, y)
	}
	return DPI{X: x, Y: y}, nil
}

// monitorCollector gathers EnumDisplayMonitors results for the single
// process-wide callback. begin/end bracket one enumeration.
type monitorCollector struct {
	mu   sync.Mutex
	list []Monitor
}

func (c *monitorCollector) begin() {
	c.mu.Lock()
	c.list = nil
}

func (c *monitorCollector) add(handle uintptr, r Rect) {
	c.list = append(c.list, Monitor{Handle: handle, Rect: r})
}

func (c *monitorCollector) end() []Monitor {
	out := c.list
	c.list = nil
	c.mu.Unlock()
	return out
}
