package pinning

import "context"

// DropRows unpins rows that no longer exist, for example after their records
// were deleted. It persists the snapshot but does not notify. Stale IDs stay
// dropped from the handle even when the write fails.
func (c *Controller) DropRows(ctx context.Context, rowIDs ...string) int {
	if len(rowIDs) == 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.table.RowPinning()
	next := current
	dropped := 0
	for _, id := range rowIDs {
		if next.Position(id).Pinned() {
			next = next.With(id, RowUnpinned)
			dropped++
		}
	}
	if dropped == 0 {
		return 0
	}
	c.table.SetRowPinning(next)
	c.persistDropLocked(ctx, "drop rows", dropped)
	return dropped
}

// DropMissingColumns unpins columns the handle no longer lists, for example
// after a property was removed.
func (c *Controller) DropMissingColumns(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	known := make(map[string]struct{})
	for _, col := range c.table.Columns() {
		known[col.ID] = struct{}{}
	}
	current := c.table.ColumnPinning()
	next := current
	dropped := 0
	for _, id := range append(cloneIDs(current.Left), current.Right...) {
		if _, ok := known[id]; !ok {
			next = next.With(id, ColumnUnpinned)
			dropped++
		}
	}
	if dropped == 0 {
		return 0
	}
	c.table.SetColumnPinning(next)
	c.persistDropLocked(ctx, "drop columns", dropped)
	return dropped
}

func (c *Controller) persistDropLocked(ctx context.Context, op string, dropped int) {
	if err := c.persistLocked(ctx); err != nil {
		c.logger.Error("pinning operation failed", err, "table_id", c.tableID, "op", op, "dropped", dropped)
		return
	}
	c.logger.Debug("stale pins dropped", "table_id", c.tableID, "op", op, "dropped", dropped)
}
