package notify

import (
	"context"
	"sync"

	"github.com/goliatone/go-tableview/pkg/types"
)

// Func adapts a function to types.Notifier.
type Func func(ctx context.Context, n types.Notification)

// Notify implements types.Notifier.
func (f Func) Notify(ctx context.Context, n types.Notification) {
	if f != nil {
		f(ctx, n)
	}
}

// Dispatcher fans a notification out to every registered sink in
// registration order.
type Dispatcher struct {
	mu    sync.RWMutex
	sinks []types.Notifier
}

// NewDispatcher returns a dispatcher with the supplied sinks. Nil sinks are
// ignored.
func NewDispatcher(sinks ...types.Notifier) *Dispatcher {
	d := &Dispatcher{}
	for _, sink := range sinks {
		d.Add(sink)
	}
	return d
}

// Add registers a sink.
func (d *Dispatcher) Add(sink types.Notifier) {
	if sink == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Notify implements types.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, n types.Notification) {
	d.mu.RLock()
	sinks := append([]types.Notifier(nil), d.sinks...)
	d.mu.RUnlock()
	for _, sink := range sinks {
		sink.Notify(ctx, n)
	}
}

var _ types.Notifier = (*Dispatcher)(nil)
