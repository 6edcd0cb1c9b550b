package events

import (
	"errors"
	"sync"
)

type EventType string

const (
	EventForegroundChanged EventType = "foreground_changed"
)

type SystemEvent struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestampUTC"`
	HWND      uintptr   `json:"hwnd"`
}

// sourceRunner is a started OS event source. wait blocks until it has
// released its hooks after the stop channel closes.
type sourceRunner interface {
	start() error
	wait()
}

type openFunc func(emit func(SystemEvent), stopCh <-chan struct{}) (sourceRunner, error)

type Bus struct {
	ch     chan SystemEvent
	stopCh chan struct{}
	once   sync.Once
	open   openFunc

	mu  sync.Mutex
	src sourceRunner
}

func NewBus(buffer int) *Bus {
	return &Bus{
		ch:     make(chan SystemEvent, buffer),
		stopCh: make(chan struct{}),
		open:   newSources,
	}
}

func (b *Bus) Events() <-chan SystemEvent { return b.ch }

// Emit drops the event when the buffer is full.
func (b *Bus) Emit(ev SystemEvent) {
	select {
	case b.ch <- ev:
	default:
	}
}

// StartSources hooks OS foreground notifications into the bus. Calling it
// again after a successful start is a no-op.
func (b *Bus) StartSources() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.src != nil {
		return nil
	}
	src, err := b.open(b.Emit, b.stopCh)
	if err != nil {
		return err
	}
	if err := src.start(); err != nil {
		return err
	}
	b.src = src
	return nil
}

func (b *Bus) Stop() {
	b.once.Do(func() {
		close(b.stopCh)
		b.mu.Lock()
		src := b.src
		b.mu.Unlock()
		if src != nil {
			src.wait()
		}
	})
}

var ErrNotSupported = errors.New("not supported")
