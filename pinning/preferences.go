package pinning

import (
	"context"
	"slices"

	"github.com/goliatone/go-tableview/pkg/types"
)

// SavePreferences snapshots the current handle state into the persisted
// preferences.
func (c *Controller) SavePreferences(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.persistLocked(ctx); err != nil {
		return c.fail(ctx, "save preferences", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgPreferencesSaved, nil)
	return true
}

// LoadPreferences re-reads the saved snapshot from the store and returns it.
// The snapshot is a preference cache: loading it never changes the live
// handle. Use RestorePreferences to apply it.
func (c *Controller) LoadPreferences(ctx context.Context) (*Preferences, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, found, err := c.states.Load(ctx)
	if err != nil {
		c.fail(ctx, "load preferences", err)
		return nil, false
	}
	if found {
		c.state.UserPreferences = state.UserPreferences
	}
	if c.state.UserPreferences == nil {
		return nil, false
	}
	return c.state.UserPreferences.clone(), true
}

// ClearPreferences erases the saved snapshot without touching the handle.
func (c *Controller) ClearPreferences(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.state.UserPreferences
	c.state.UserPreferences = nil
	if err := c.states.Save(ctx, c.state); err != nil {
		c.state.UserPreferences = previous
		return c.fail(ctx, "clear preferences", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgPreferencesCleared, nil)
	return true
}

// RestorePreferences applies the saved snapshot to the handle. Unlike
// ApplyInitialPinning the snapshot is validated: unknown or unpinnable
// columns and rows are dropped and each side is truncated to the configured
// capacity and scrollable minimum.
func (c *Controller) RestorePreferences(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefs := c.state.UserPreferences
	if prefs == nil {
		c.notify(ctx, types.NotificationInfo, MsgNoSavedPreferences, nil)
		return false
	}

	cols := ColumnPinning{}
	if allowed, err := c.columnPinningAllowed(ctx); err != nil {
		return c.fail(ctx, "restore preferences", err)
	} else if allowed {
		cols = c.restorableColumns(prefs.Columns)
	}
	rows := RowPinning{}
	if allowed, err := c.rowPinningAllowed(ctx); err != nil {
		return c.fail(ctx, "restore preferences", err)
	} else if allowed {
		rows = c.restorableRows(prefs.Rows)
	}

	prevCols, prevRows := c.table.ColumnPinning(), c.table.RowPinning()
	c.table.SetColumnPinning(cols)
	c.table.SetRowPinning(rows)
	if err := c.persistLocked(ctx); err != nil {
		c.rollbackLocked(prevCols, prevRows)
		return c.fail(ctx, "restore preferences", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgPreferencesRestored, map[string]any{
		"columns": cols.Total(),
		"rows":    rows.Total(),
	})
	return true
}

func (c *Controller) restorableColumns(saved ColumnPinning) ColumnPinning {
	settings := c.state.Settings
	columns := c.table.Columns()
	pinnable := make(map[string]bool, len(columns))
	for _, col := range columns {
		pinnable[col.ID] = !col.DisablePinning
	}
	keep := func(ids []string, seen map[string]bool) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if !pinnable[id] || seen[id] || len(out) >= settings.MaxPinnedColumns {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
		return out
	}
	seen := map[string]bool{}
	out := ColumnPinning{Left: keep(saved.Left, seen), Right: keep(saved.Right, seen)}

	budget := len(columns) - settings.MinScrollableColumns
	if budget < 0 {
		budget = 0
	}
	for out.Total() > budget {
		if len(out.Right) > 0 {
			out.Right = out.Right[:len(out.Right)-1]
			continue
		}
		out.Left = out.Left[:len(out.Left)-1]
	}
	return out
}

func (c *Controller) restorableRows(saved RowPinning) RowPinning {
	limit := c.state.Settings.MaxPinnedRows
	known := map[string]bool{}
	for _, row := range c.table.Rows() {
		known[row.ID] = true
	}
	keep := func(ids []string, exclude []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if !known[id] || slices.Contains(exclude, id) || slices.Contains(out, id) || len(out) >= limit {
				continue
			}
			out = append(out, id)
		}
		return out
	}
	top := keep(saved.Top, nil)
	return RowPinning{Top: top, Bottom: keep(saved.Bottom, top)}
}
