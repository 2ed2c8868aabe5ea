package pinning

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tableview/pkg/types"
)

// PinColumn moves the column to pos, or unpins it when pos is
// ColumnUnpinned. It returns false when the column is unknown, the move is
// rejected by validation or a hook, or an error occurs.
func (c *Controller) PinColumn(ctx context.Context, columnID string, pos ColumnPosition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinColumnLocked(ctx, columnID, pos)
}

func (c *Controller) pinColumnLocked(ctx context.Context, columnID string, pos ColumnPosition) bool {
	if !pos.Valid() {
		return c.fail(ctx, "pin column", fmt.Errorf("pinning: invalid column position %q", pos), "column_id", columnID)
	}
	col, ok := findColumn(c.table, columnID)
	if !ok {
		c.logger.Warn("pin column: column not found", "table_id", c.tableID, "column_id", columnID)
		return false
	}
	current := c.table.ColumnPinning()
	if current.Position(columnID) == pos {
		return true
	}

	settings := c.state.Settings
	if pos.Pinned() {
		allowed, err := c.columnPinningAllowed(ctx)
		if err != nil {
			return c.fail(ctx, "pin column", err, "column_id", columnID)
		}
		if !allowed || col.DisablePinning {
			return c.warn(ctx, MsgPinningDisabled, map[string]any{"target": col.Label()})
		}
		if c.hooks.BeforeColumnPin != nil {
			proceed, err := c.hooks.BeforeColumnPin(ctx, columnID, pos)
			if err != nil {
				return c.fail(ctx, "pin column", err, "column_id", columnID)
			}
			if !proceed {
				c.logger.Debug("pin column vetoed", "table_id", c.tableID, "column_id", columnID)
				return false
			}
		}
		if current.Count(pos) >= settings.MaxPinnedColumns {
			return c.warn(ctx, MsgMaxColumnsReached, map[string]any{"max": settings.MaxPinnedColumns})
		}
		pinned := current.Total()
		if !current.Position(columnID).Pinned() {
			pinned++
		}
		if len(c.table.Columns())-pinned < settings.MinScrollableColumns {
			return c.warn(ctx, MsgMinScrollableRequired, map[string]any{"min": settings.MinScrollableColumns})
		}
	}

	c.table.SetColumnPinning(current.With(columnID, pos))

	if c.hooks.OnColumnPin != nil {
		if err := c.hooks.OnColumnPin(ctx, columnID, pos); err != nil {
			c.table.SetColumnPinning(current)
			return c.fail(ctx, "pin column", err, "column_id", columnID)
		}
	}
	if err := c.persistLocked(ctx); err != nil {
		c.table.SetColumnPinning(current)
		return c.fail(ctx, "pin column", err, "column_id", columnID)
	}
	if pos.Pinned() {
		c.notify(ctx, types.NotificationSuccess, MsgColumnPinned, map[string]any{"column": col.Label(), "position": string(pos)})
	} else {
		c.notify(ctx, types.NotificationSuccess, MsgColumnUnpinned, map[string]any{"column": col.Label()})
	}
	return true
}

// UnpinColumn removes the column from either side.
func (c *Controller) UnpinColumn(ctx context.Context, columnID string) bool {
	return c.PinColumn(ctx, columnID, ColumnUnpinned)
}

// ToggleColumnPin unpins a pinned column, or pins it to preferred (left when
// empty).
func (c *Controller) ToggleColumnPin(ctx context.Context, columnID string, preferred ColumnPosition) bool {
	if !preferred.Pinned() {
		preferred = ColumnLeft
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table.ColumnPinning().Position(columnID).Pinned() {
		return c.pinColumnLocked(ctx, columnID, ColumnUnpinned)
	}
	return c.pinColumnLocked(ctx, columnID, preferred)
}

// IsPinnedColumn reports whether the column is pinned to either side.
func (c *Controller) IsPinnedColumn(columnID string) bool {
	return c.ColumnPinPosition(columnID).Pinned()
}

// ColumnPinPosition returns the side the column is pinned to.
func (c *Controller) ColumnPinPosition(columnID string) ColumnPosition {
	return c.table.ColumnPinning().Position(columnID)
}

// CanPinColumn reports whether PinColumn(columnID, pos) would pass
// validation. It never mutates state or notifies.
func (c *Controller) CanPinColumn(ctx context.Context, columnID string, pos ColumnPosition) bool {
	if !pos.Pinned() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	col, ok := findColumn(c.table, columnID)
	if !ok || col.DisablePinning {
		return false
	}
	allowed, err := c.columnPinningAllowed(ctx)
	if err != nil {
		c.logger.Warn("column pinning gate failed", "table_id", c.tableID, "error", err)
		return false
	}
	if !allowed {
		return false
	}
	current := c.table.ColumnPinning()
	existing := current.Position(columnID)
	if existing == pos {
		return false
	}
	settings := c.state.Settings
	if current.Count(pos) >= settings.MaxPinnedColumns {
		return false
	}
	pinned := current.Total()
	if !existing.Pinned() {
		pinned++
	}
	return len(c.table.Columns())-pinned >= settings.MinScrollableColumns
}

// ClearColumnPins unpins every column on pos, or on both sides when pos is
// empty.
func (c *Controller) ClearColumnPins(ctx context.Context, pos ColumnPosition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.table.ColumnPinning()
	next := ColumnPinning{}
	switch pos {
	case ColumnLeft:
		next.Right = current.Right
	case ColumnRight:
		next.Left = current.Left
	}
	c.table.SetColumnPinning(next)
	if err := c.persistLocked(ctx); err != nil {
		c.table.SetColumnPinning(current)
		return c.fail(ctx, "clear column pins", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgColumnPinsCleared, map[string]any{"position": sideLabel(string(pos))})
	return true
}

// ClearAllPins unpins every column and row.
func (c *Controller) ClearAllPins(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cols, rows := c.table.ColumnPinning(), c.table.RowPinning()
	c.table.SetColumnPinning(ColumnPinning{})
	c.table.SetRowPinning(RowPinning{})
	if err := c.persistLocked(ctx); err != nil {
		c.rollbackLocked(cols, rows)
		return c.fail(ctx, "clear all pins", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgAllPinsCleared, nil)
	return true
}

func (c *Controller) columnPinningAllowed(ctx context.Context) (bool, error) {
	if !c.state.Settings.EnableColumnPinning {
		return false, nil
	}
	return featureEnabled(ctx, c.gate, FeatureColumnPinning, c.scope)
}

func sideLabel(pos string) string {
	if pos == "" {
		return "all"
	}
	return pos
}
