package notify

import (
	"context"
	"sync"

	"github.com/goliatone/go-tableview/pkg/types"
)

// Recorder keeps every notification it receives. Hosts use it to render a
// toast queue; tests use it to assert outcomes.
type Recorder struct {
	mu    sync.Mutex
	items []types.Notification
}

// Notify implements types.Notifier.
func (r *Recorder) Notify(_ context.Context, n types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Items returns a copy of the recorded notifications.
func (r *Recorder) Items() []types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (types.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return types.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Keys returns the recorded message keys in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.items))
	for _, n := range r.items {
		keys = append(keys, n.Key)
	}
	return keys
}

// Drain returns the recorded notifications and empties the recorder.
func (r *Recorder) Drain() []types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

var _ types.Notifier = (*Recorder)(nil)
