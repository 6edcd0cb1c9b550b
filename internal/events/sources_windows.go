//go:build windows

package events

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const (
	eventSystemForeground = 0x0003
	objidWindow           = 0
	wineventOutOfContext  = 0x0000
	wineventSkipOwnProc   = 0x0002
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook    = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent     = user32.NewProc("UnhookWinEvent")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

var (
	hooks             hookTable
	foregroundHookCbk = windows.NewCallback(func(hook uintptr, event uint32, hwnd uintptr, idObject int32, idChild int32, thread uint32, at uint32) uintptr {
		if event == eventSystemForeground && idObject == objidWindow && hwnd != 0 {
			hooks.dispatch(hook, SystemEvent{Type: EventForegroundChanged, Timestamp: time.Now().UTC().UnixMilli(), HWND: hwnd})
		}
		return 0
	})
)

type sources struct {
	emit   func(SystemEvent)
	stopCh <-chan struct{}

	wg sync.WaitGroup
}

func newSources(emit func(SystemEvent), stopCh <-chan struct{}) (sourceRunner, error) {
	return &sources{emit: emit, stopCh: stopCh}, nil
}

// start installs the hook on a dedicated locked thread. Out-of-context
// WinEvent callbacks arrive through that thread's message queue.
func (s *sources) start() error {
	ready := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		s.pump(ready)
	}()
	return <-ready
}

func (s *sources) wait() { s.wg.Wait() }

// pump blocks in GetMessage until the stop channel closes, at which point a
// WM_QUIT is posted to this thread.
func (s *sources) pump(ready chan<- error) {
	var msg win.MSG
	// Creates the thread's queue so PostThreadMessage cannot miss it.
	win.PeekMessage(&msg, 0, 0, 0, win.PM_NOREMOVE)
	tid := windows.GetCurrentThreadId()

	hook, _, e1 := procSetWinEventHook.Call(
		eventSystemForeground, eventSystemForeground,
		0, foregroundHookCbk, 0, 0,
		wineventOutOfContext|wineventSkipOwnProc,
	)
	if hook == 0 {
		ready <- fmt.Errorf("SetWinEventHook: %w", e1)
		return
	}
	hooks.add(hook, s.emit)
	defer func() {
		hooks.remove(hook)
		procUnhookWinEvent.Call(hook)
	}()
	ready <- nil

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.stopCh:
			procPostThreadMessageW.Call(uintptr(tid), uintptr(win.WM_QUIT), 0, 0)
		case <-done:
		}
	}()

	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}
