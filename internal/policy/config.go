package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
)

const (
	EnvConfigPath = "RESCHECK_CONFIG"
	EnvExpected   = "RESCHECK_EXPECTED"
	EnvTolerance  = "RESCHECK_TOLERANCE"
	EnvLogLevel   = "RESCHECK_LOG_LEVEL"

	configRelPath = "rescheck/config.json"
)

type Config struct {
	ConfigPath     string
	ExpectedWidth  int
	ExpectedHeight int
	Tolerance      float64
	LogLevel       string
}

func DefaultConfig() *Config {
	return &Config{
		ConfigPath:     defaultConfigPath(),
		ExpectedWidth:  1920,
		ExpectedHeight: 1080,
		Tolerance:      0.001,
		LogLevel:       "info",
	}
}

// ApplyEnv overrides fields from RESCHECK_* variables. Unset variables are ignored.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		c.ConfigPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExpected)); v != "" {
		w, h, err := ParseResolution(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvExpected, err)
		}
		c.ExpectedWidth, c.ExpectedHeight = w, h
	}
	if v := strings.TrimSpace(os.Getenv(EnvTolerance)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s: invalid tolerance %q", EnvTolerance, v)
		}
		c.Tolerance = f
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// ParseResolution accepts "1920x1080" (case-insensitive, spaces allowed).
func ParseResolution(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q, want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// defaultConfigPath joins the path without creating directories, unlike
// xdg.ConfigFile. ConfigHome is %LOCALAPPDATA% on Windows.
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, filepath.FromSlash(configRelPath))
}
