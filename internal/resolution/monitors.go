package resolution

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"rescheck/internal/state"
)

// DefaultTolerance is the largest scale difference still treated as equal.
const DefaultTolerance = 0.001

// MonitorSource enumerates monitors cheaply. Capability is a separate call
// because it opens a device context per monitor.
type MonitorSource interface {
	Monitors() ([]state.Monitor, error)
	Capability(m state.Monitor) (int, error)
}

type MonitorResult struct {
	Monitors   []state.Monitor
	Scales     []float64
	Distinct   []string
	Checked    bool
	Consistent bool
}

type Checker struct {
	src       MonitorSource
	logger    *log.Logger
	tolerance float64
}

func NewChecker(src MonitorSource, logger *log.Logger, tolerance float64) *Checker {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Checker{src: src, logger: logger, tolerance: tolerance}
}

// ScaleFactor is the ratio between a monitor's physical horizontal resolution
// and the width of its bounds in desktop coordinates.
func ScaleFactor(m state.Monitor) (float64, error) {
	w := m.Rect.Width()
	if w <= 0 {
		return 0, fmt.Errorf("monitor %s has empty bounds", m.Device)
	}
	return float64(m.Capability) / float64(w), nil
}

// Consistent reports whether every scale is within tolerance of the first one.
func Consistent(scales []float64, tolerance float64) bool {
	for _, s := range scales {
		if math.Abs(s-scales[0]) >= tolerance {
			return false
		}
	}
	return true
}

// Check warns when more than one monitor is attached and their scaling differs.
// A single monitor is never compared and produces no output.
func (c *Checker) Check() (MonitorResult, error) {
	mons, err := c.src.Monitors()
	if err != nil {
		return MonitorResult{}, fmt.Errorf("enumerate monitors: %w", err)
	}
	res := MonitorResult{Monitors: mons, Consistent: true}
	if len(mons) < 2 {
		return res, nil
	}

	res.Scales = make([]float64, 0, len(mons))
	for i := range mons {
		capability, err := c.src.Capability(mons[i])
		if err != nil {
			return res, fmt.Errorf("capability of %s: %w", mons[i].Device, err)
		}
		mons[i].Capability = capability
		s, err := ScaleFactor(mons[i])
		if err != nil {
			return res, err
		}
		res.Scales = append(res.Scales, s)
	}
	res.Checked = true
	res.Consistent = Consistent(res.Scales, c.tolerance)
	res.Distinct = distinctPercents(res.Scales)

	if !res.Consistent {
		c.logger.Warnf("%d monitors are attached with different scaling (%s); keep the target window on the primary screen",
			len(mons), strings.Join(res.Distinct, ", "))
	}
	return res, nil
}

func distinctPercents(scales []float64) []string {
	set := mapset.NewSet[string]()
	for _, s := range scales {
		set.Add(fmt.Sprintf("%.0f%%", s*100))
	}
	out := set.ToSlice()
	sort.Strings(out)
	return out
}
