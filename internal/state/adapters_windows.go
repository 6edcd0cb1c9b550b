//go:build windows

package state

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/StackExchange/wmi"
	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

type win32VideoController struct {
	Name                        string
	CurrentHorizontalResolution *uint32
	CurrentVerticalResolution   *uint32
	CurrentRefreshRate          *uint32
}

// Adapters lists the active video controllers with their current desktop mode.
func (d *Display) Adapters() ([]Adapter, error) {
	var dst []win32VideoController
	q := "SELECT Name, CurrentHorizontalResolution, CurrentVerticalResolution, CurrentRefreshRate FROM Win32_VideoController"
	if err := wmi.Query(q, &dst); err != nil {
		return nil, fmt.Errorf("wmi Win32_VideoController: %w", err)
	}

	out := make([]Adapter, 0, len(dst))
	for _, vc := range dst {
		// Controllers without an attached desktop report null modes.
		if vc.CurrentHorizontalResolution == nil || vc.CurrentVerticalResolution == nil {
			continue
		}
		a := Adapter{
			Name:   vc.Name,
			Width:  int(*vc.CurrentHorizontalResolution),
			Height: int(*vc.CurrentVerticalResolution),
		}
		if vc.CurrentRefreshRate != nil {
			a.RefreshRate = int(*vc.CurrentRefreshRate)
		}
		out = append(out, a)
	}
	return out, nil
}

// DesktopMonitors walks Win32_DesktopMonitor through an SWbemLocator session.
func (d *Display) DesktopMonitors() ([]DesktopMonitor, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || !comInitAccepted(oleErr.Code()) {
			return nil, fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	defer ole.CoUninitialize()

	locatorObj, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("create SWbemLocator: %w", err)
	}
	defer locatorObj.Release()

	locator, err := locatorObj.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("SWbemLocator IDispatch: %w", err)
	}
	defer locator.Release()

	svcRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, `root\cimv2`)
	if err != nil {
		return nil, fmt.Errorf("ConnectServer: %w", err)
	}
	svc := svcRaw.ToIDispatch()
	defer svc.Release()

	resRaw, err := oleutil.CallMethod(svc, "ExecQuery", "SELECT Name, PNPDeviceID, ScreenWidth, ScreenHeight FROM Win32_DesktopMonitor")
	if err != nil {
		return nil, fmt.Errorf("ExecQuery Win32_DesktopMonitor: %w", err)
	}
	result := resRaw.ToIDispatch()
	defer result.Release()

	countV, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return nil, fmt.Errorf("Win32_DesktopMonitor count: %w", err)
	}
	count := variantInt(countV.Value())
	_ = countV.Clear()

	out := make([]DesktopMonitor, 0, count)
	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			return nil, fmt.Errorf("Win32_DesktopMonitor item %d: %w", i, err)
		}
		item := itemRaw.ToIDispatch()
		out = append(out, DesktopMonitor{
			Name:         variantString(property(item, "Name")),
			PNPDeviceID:  variantString(property(item, "PNPDeviceID")),
			ScreenWidth:  variantInt(property(item, "ScreenWidth")),
			ScreenHeight: variantInt(property(item, "ScreenHeight")),
		})
		item.Release()
	}
	return out, nil
}

// property reads one IDispatch property as a Go value, nil when unavailable.
func property(obj *ole.IDispatch, name string) any {
	v, err := oleutil.GetProperty(obj, name)
	if err != nil {
		return nil
	}
	defer v.Clear()
	return v.Value()
}
