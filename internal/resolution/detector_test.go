package resolution

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"rescheck/internal/settings"
	"rescheck/internal/state"
)

var fullHD = Resolution{Width: 1920, Height: 1080}

type fakeWindows struct {
	win    state.WindowInfo
	dpi    state.DPI
	winErr error
	dpiErr error
}

func (f *fakeWindows) ForegroundWindow() (state.WindowInfo, error) { return f.win, f.winErr }
func (f *fakeWindows) WindowDPI(hwnd uintptr) (state.DPI, error)   { return f.dpi, f.dpiErr }

type memStore struct {
	exists bool
	values map[string]any
	ops    []string
	setErr error
}

func newMemStore(exists bool) *memStore {
	return &memStore{exists: exists, values: map[string]any{}}
}

func (m *memStore) Path() string { return "mem" }
func (m *memStore) Exists() bool { return m.exists }

func (m *memStore) Init(w, h int) error {
	m.ops = append(m.ops, "init")
	m.exists = true
	m.values[settings.KeyRealWidth] = w
	m.values[settings.KeyRealHeight] = h
	return nil
}

func (m *memStore) Get(key string) (any, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.ops = append(m.ops, "set:"+key)
	m.values[key] = value
	return nil
}

func newTestLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}), &buf
}

func window(w, h int32) state.WindowInfo {
	return state.WindowInfo{HWND: 0x1234, Title: "Star Rail", Rect: state.Rect{Left: 10, Top: 20, Right: 10 + w, Bottom: 20 + h}}
}

func TestRealResolution(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		dpi           state.DPI
		want          Resolution
	}{
		{name: "100%", width: 1920, height: 1080, dpi: state.DPI{X: 96, Y: 96}, want: fullHD},
		{name: "125%", width: 1536, height: 864, dpi: state.DPI{X: 120, Y: 120}, want: fullHD},
		{name: "150%", width: 1280, height: 720, dpi: state.DPI{X: 144, Y: 144}, want: fullHD},
		{name: "truncates", width: 1001, height: 333, dpi: state.DPI{X: 120, Y: 120}, want: Resolution{Width: 1251, Height: 416}},
		{name: "axes independent", width: 100, height: 100, dpi: state.DPI{X: 96, Y: 192}, want: Resolution{Width: 100, Height: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RealResolution(tt.width, tt.height, tt.dpi))
		})
	}
}

func TestRealResolution_MatchesFloorOfScaledSize(t *testing.T) {
	for _, dpi := range []int{96, 108, 120, 144, 168, 192} {
		for _, size := range []int{1, 799, 1024, 1366, 1537, 2560} {
			want := int(float64(size) * (float64(dpi) / 96))
			got := RealResolution(size, size, state.DPI{X: dpi, Y: dpi})
			assert.Equal(t, want, got.Width, "size=%d dpi=%d", size, dpi)
		}
	}
}

func TestDetect_MatchingResolutionIsSilentButPersisted(t *testing.T) {
	logger, buf := newTestLogger()
	store := newMemStore(true)
	d := NewDetector(&fakeWindows{win: window(1920, 1080), dpi: state.DPI{X: 96, Y: 96}}, store, logger, fullHD)

	res, err := d.Detect()
	assert.NoError(t, err)
	assert.True(t, res.Matches)
	assert.Equal(t, fullHD, res.Real)
	assert.NotContains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "Star Rail")
	assert.Equal(t, []string{"set:real_width", "set:real_height"}, store.ops)
	assert.Equal(t, 1920, store.values[settings.KeyRealWidth])
	assert.Equal(t, 1080, store.values[settings.KeyRealHeight])
}

func TestDetect_ScaledWindowMatches(t *testing.T) {
	logger, buf := newTestLogger()
	store := newMemStore(true)
	d := NewDetector(&fakeWindows{win: window(1536, 864), dpi: state.DPI{X: 120, Y: 120}}, store, logger, fullHD)

	res, err := d.Detect()
	assert.NoError(t, err)
	assert.True(t, res.Matches)
	assert.Equal(t, 1.25, res.ScaleX)
	assert.NotContains(t, buf.String(), "WARN")
}

func TestDetect_MismatchWarnsAndStillPersists(t *testing.T) {
	logger, buf := newTestLogger()
	store := newMemStore(true)
	d := NewDetector(&fakeWindows{win: window(1366, 768), dpi: state.DPI{X: 96, Y: 96}}, store, logger, fullHD)

	res, err := d.Detect()
	assert.NoError(t, err)
	assert.False(t, res.Matches)
	assert.Contains(t, buf.String(), "1920 x 1080")
	assert.Contains(t, buf.String(), "wrong resolution: 1366 x 768")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("WARN")))
	assert.Equal(t, 1366, store.values[settings.KeyRealWidth])
	assert.Equal(t, 768, store.values[settings.KeyRealHeight])
}

func TestDetect_InitialisesMissingConfigBeforePatching(t *testing.T) {
	logger, _ := newTestLogger()
	store := newMemStore(false)
	d := NewDetector(&fakeWindows{win: window(1920, 1080), dpi: state.DPI{X: 96, Y: 96}}, store, logger, fullHD)

	res, err := d.Detect()
	assert.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, []string{"init", "set:real_width", "set:real_height"}, store.ops)
}

func TestDetect_WithFileStore(t *testing.T) {
	logger, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), "config.json")
	store := settings.NewFileStore(path, 1920, 1080)
	d := NewDetector(&fakeWindows{win: window(1366, 768), dpi: state.DPI{X: 96, Y: 96}}, store, logger, fullHD)

	_, err := d.Detect()
	assert.NoError(t, err)
	assert.True(t, store.Exists())

	v, ok, err := store.Get(settings.KeyRealWidth)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(1366), v)

	v, _, err = store.Get(settings.KeyExpectedWidth)
	assert.NoError(t, err)
	assert.Equal(t, float64(1920), v)
}

func TestDetect_Errors(t *testing.T) {
	logger, _ := newTestLogger()

	t.Run("no foreground window", func(t *testing.T) {
		store := newMemStore(true)
		d := NewDetector(&fakeWindows{winErr: state.ErrNoForegroundWindow}, store, logger, fullHD)
		_, err := d.Detect()
		assert.ErrorIs(t, err, state.ErrNoForegroundWindow)
		assert.Empty(t, store.ops)
	})

	t.Run("dpi query fails", func(t *testing.T) {
		store := newMemStore(true)
		dpiErr := errors.New("GetWindowDC failed")
		d := NewDetector(&fakeWindows{win: window(1920, 1080), dpiErr: dpiErr}, store, logger, fullHD)
		_, err := d.Detect()
		assert.ErrorIs(t, err, dpiErr)
		assert.Empty(t, store.ops)
	})

	t.Run("save fails", func(t *testing.T) {
		store := newMemStore(true)
		store.setErr = errors.New("disk full")
		d := NewDetector(&fakeWindows{win: window(1920, 1080), dpi: state.DPI{X: 96, Y: 96}}, store, logger, fullHD)
		_, err := d.Detect()
		assert.ErrorIs(t, err, store.setErr)
	})
}
