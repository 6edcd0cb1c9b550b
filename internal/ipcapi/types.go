package ipcapi

import "time"

type ResolutionReport struct {
	HWND          string  `json:"hwnd"`
	Title         string  `json:"title,omitempty"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	DPIX          int     `json:"dpiX"`
	DPIY          int     `json:"dpiY"`
	ScaleX        float64 `json:"scaleX"`
	ScaleY        float64 `json:"scaleY"`
	RealWidth     int     `json:"realWidth"`
	RealHeight    int     `json:"realHeight"`
	Matches       bool    `json:"matches"`
	ConfigPath    string  `json:"configPath"`
	ConfigCreated bool    `json:"configCreated"`
}

type MonitorEntry struct {
	Device  string  `json:"device"`
	Left    int32   `json:"left"`
	Top     int32   `json:"top"`
	Right   int32   `json:"right"`
	Bottom  int32   `json:"bottom"`
	Primary bool    `json:"primary"`
	Scale   float64 `json:"scale,omitempty"`
}

type MonitorReport struct {
	Count      int  `json:"count"`
	Checked    bool `json:"checked"`
	Consistent bool `json:"consistent"`
	// DistinctScales lists each scale percentage found, once.
	DistinctScales []string       `json:"distinctScales,omitempty"`
	Monitors       []MonitorEntry `json:"monitors"`
}

type AdapterEntry struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RefreshRate int    `json:"refreshRate,omitempty"`
}

type DesktopMonitorEntry struct {
	Name         string `json:"name"`
	PNPDeviceID  string `json:"pnpDeviceID,omitempty"`
	ScreenWidth  int    `json:"screenWidth,omitempty"`
	ScreenHeight int    `json:"screenHeight,omitempty"`
}

type AdapterReport struct {
	RunID    string                `json:"runID"`
	AtUTC    int64                 `json:"atUTC"`
	Adapters []AdapterEntry        `json:"adapters"`
	Monitors []DesktopMonitorEntry `json:"monitors,omitempty"`
}

type CheckReport struct {
	RunID      string            `json:"runID"`
	AtUTC      int64             `json:"atUTC"`
	Resolution *ResolutionReport `json:"resolution,omitempty"`
	Monitors   *MonitorReport    `json:"monitors,omitempty"`
}

func NowUTC() int64 { return time.Now().UTC().UnixMilli() }
