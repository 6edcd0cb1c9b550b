package events

import "sync"

// hookTable routes WinEvent callbacks to the bus that installed the hook.
// A single callback serves every hook, keyed by the hook handle it receives.
type hookTable struct {
	mu   sync.Mutex
	emit map[uintptr]func(SystemEvent)
}

func (t *hookTable) add(hook uintptr, emit func(SystemEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.emit == nil {
		t.emit = make(map[uintptr]func(SystemEvent))
	}
	t.emit[hook] = emit
}

func (t *hookTable) remove(hook uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.emit, hook)
}

// dispatch reports whether an emitter was registered for hook.
func (t *hookTable) dispatch(hook uintptr, ev SystemEvent) bool {
	t.mu.Lock()
	emit, ok := t.emit[hook]
	t.mu.Unlock()
	if ok {
		emit(ev)
	}
	return ok
}
