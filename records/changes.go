package records

import "context"

// ChangeKind names the operation that changed the loaded records.
type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeSchema  ChangeKind = "schema"
)

// Change describes a successful change of the loaded records or schema.
// Removed lists records that no longer exist remotely.
type Change struct {
	Kind    ChangeKind
	IDs     []string
	Removed []string
}

// ChangeFunc observes changes. It runs after the controller lock is released,
// so it may read the controller.
type ChangeFunc func(ctx context.Context, change Change)

// OnChange registers fn as the change observer. A nil fn removes it.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) emit(ctx context.Context, change Change) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(ctx, change)
	}
}
