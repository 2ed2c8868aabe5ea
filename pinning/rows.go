package pinning

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tableview/pkg/types"
)

// PinRow moves the row to pos, or unpins it when pos is RowUnpinned. A row
// is removed from the opposite side in the same handle update. An empty
// reason is recorded as DefaultPinReason.
func (c *Controller) PinRow(ctx context.Context, rowID string, pos RowPosition, reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinRowLocked(ctx, rowID, pos, reason)
}

func (c *Controller) pinRowLocked(ctx context.Context, rowID string, pos RowPosition, reason string) bool {
	if reason == "" {
		reason = DefaultPinReason
	}
	if !pos.Valid() {
		return c.fail(ctx, "pin row", fmt.Errorf("pinning: invalid row position %q", pos), "row_id", rowID)
	}
	if _, ok := findRow(c.table, rowID); !ok {
		c.logger.Warn("pin row: row not found", "table_id", c.tableID, "row_id", rowID)
		return false
	}
	current := c.table.RowPinning()
	if current.Position(rowID) == pos {
		return true
	}

	if pos.Pinned() {
		allowed, err := c.rowPinningAllowed(ctx)
		if err != nil {
			return c.fail(ctx, "pin row", err, "row_id", rowID)
		}
		if !allowed {
			return c.warn(ctx, MsgPinningDisabled, map[string]any{"target": rowID})
		}
		if c.hooks.BeforeRowPin != nil {
			proceed, err := c.hooks.BeforeRowPin(ctx, rowID, pos, reason)
			if err != nil {
				return c.fail(ctx, "pin row", err, "row_id", rowID)
			}
			if !proceed {
				c.logger.Debug("pin row vetoed", "table_id", c.tableID, "row_id", rowID, "reason", reason)
				return false
			}
		}
		if limit := c.state.Settings.MaxPinnedRows; current.Count(pos) >= limit {
			return c.warn(ctx, MsgMaxRowsReached, map[string]any{"max": limit})
		}
	}

	c.table.SetRowPinning(current.With(rowID, pos))

	if c.hooks.OnRowPin != nil {
		if err := c.hooks.OnRowPin(ctx, rowID, pos, reason); err != nil {
			c.table.SetRowPinning(current)
			return c.fail(ctx, "pin row", err, "row_id", rowID)
		}
	}
	if err := c.persistLocked(ctx); err != nil {
		c.table.SetRowPinning(current)
		return c.fail(ctx, "pin row", err, "row_id", rowID)
	}
	if pos.Pinned() {
		c.notify(ctx, types.NotificationSuccess, MsgRowPinned, map[string]any{"row": rowID, "position": string(pos)})
	} else {
		c.notify(ctx, types.NotificationSuccess, MsgRowUnpinned, map[string]any{"row": rowID})
	}
	return true
}

// UnpinRow removes the row from both sides.
func (c *Controller) UnpinRow(ctx context.Context, rowID string) bool {
	return c.PinRow(ctx, rowID, RowUnpinned, "")
}

// ToggleRowPin unpins a pinned row, or pins it to preferred (top when empty).
func (c *Controller) ToggleRowPin(ctx context.Context, rowID string, preferred RowPosition) bool {
	if !preferred.Pinned() {
		preferred = RowTop
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table.RowPinning().Position(rowID).Pinned() {
		return c.pinRowLocked(ctx, rowID, RowUnpinned, "")
	}
	return c.pinRowLocked(ctx, rowID, preferred, "")
}

// IsPinnedRow reports whether the row is pinned to either side.
func (c *Controller) IsPinnedRow(rowID string) bool {
	return c.RowPinPosition(rowID).Pinned()
}

// RowPinPosition returns the side the row is pinned to.
func (c *Controller) RowPinPosition(rowID string) RowPosition {
	return c.table.RowPinning().Position(rowID)
}

// CanPinRow reports whether PinRow(rowID, pos) would pass validation.
func (c *Controller) CanPinRow(ctx context.Context, rowID string, pos RowPosition) bool {
	if !pos.Pinned() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := findRow(c.table, rowID); !ok {
		return false
	}
	allowed, err := c.rowPinningAllowed(ctx)
	if err != nil {
		c.logger.Warn("row pinning gate failed", "table_id", c.tableID, "error", err)
		return false
	}
	if !allowed {
		return false
	}
	current := c.table.RowPinning()
	if current.Position(rowID) == pos {
		return false
	}
	return current.Count(pos) < c.state.Settings.MaxPinnedRows
}

// ClearRowPins unpins every row on pos, or on both sides when pos is empty.
func (c *Controller) ClearRowPins(ctx context.Context, pos RowPosition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.table.RowPinning()
	next := RowPinning{}
	switch pos {
	case RowTop:
		next.Bottom = current.Bottom
	case RowBottom:
		next.Top = current.Top
	}
	c.table.SetRowPinning(next)
	if err := c.persistLocked(ctx); err != nil {
		c.table.SetRowPinning(current)
		return c.fail(ctx, "clear row pins", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgRowPinsCleared, map[string]any{"position": sideLabel(string(pos))})
	return true
}

func (c *Controller) rowPinningAllowed(ctx context.Context) (bool, error) {
	if !c.state.Settings.EnableRowPinning {
		return false, nil
	}
	return featureEnabled(ctx, c.gate, FeatureRowPinning, c.scope)
}
