//go:build !windows

package events

func newSources(emit func(SystemEvent), stopCh <-chan struct{}) (sourceRunner, error) {
	return nil, ErrNotSupported
}
