package records

import (
	"context"
	"slices"

	"github.com/goliatone/go-tableview/pkg/types"
)

// CreateRecord creates a record remotely and prepends it to the loaded
// records.
func (c *Controller) CreateRecord(ctx context.Context, data map[string]any) (*types.Record, error) {
	created, err := c.service.CreateRecord(ctx, types.CreateRecordRequest{TableID: c.tableID, Data: data})
	if err != nil {
		c.logger.Error("record create failed", err, "table_id", c.tableID)
		c.notify(ctx, types.NotificationError, MsgCreateError, nil)
		return nil, c.wrap(err, "create", nil)
	}

	c.mu.Lock()
	c.records = append([]types.Record{created.Clone()}, c.records...)
	c.totalCount++
	c.touch()
	c.notify(ctx, types.NotificationSuccess, MsgCreated, nil)
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeCreated, IDs: []string{created.ID}})
	out := created.Clone()
	return &out, nil
}

// UpdateRecord replaces the data of a record and swaps it in place.
func (c *Controller) UpdateRecord(ctx context.Context, id string, data map[string]any) (*types.Record, error) {
	updated, err := c.service.UpdateRecord(ctx, id, types.UpdateRecordRequest{Data: data})
	if err != nil {
		c.logger.Error("record update failed", err, "table_id", c.tableID, "record_id", id)
		c.notify(ctx, types.NotificationError, MsgUpdateError, nil)
		return nil, c.wrap(err, "update", map[string]any{"record_id": id})
	}

	c.mu.Lock()
	if idx := c.indexOf(id); idx >= 0 {
		c.records[idx] = updated.Clone()
		c.touch()
	}
	c.notify(ctx, types.NotificationSuccess, MsgUpdated, nil)
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeUpdated, IDs: []string{id}})
	out := updated.Clone()
	return &out, nil
}

// DeleteRecord deletes a record, drops it from the loaded records and the
// selection, and decrements the total.
func (c *Controller) DeleteRecord(ctx context.Context, id string) error {
	if err := c.service.DeleteRecord(ctx, id); err != nil {
		c.logger.Error("record delete failed", err, "table_id", c.tableID, "record_id", id)
		c.notify(ctx, types.NotificationError, MsgDeleteError, nil)
		return c.wrap(err, "delete", map[string]any{"record_id": id})
	}

	c.mu.Lock()
	if idx := c.indexOf(id); idx >= 0 {
		c.records = slices.Delete(c.records, idx, idx+1)
		c.totalCount = max(c.totalCount-1, 0)
		c.touch()
	}
	delete(c.selection, id)
	c.notify(ctx, types.NotificationSuccess, MsgDeleted, nil)
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeDeleted, Removed: []string{id}})
	return nil
}

// DeleteSelected deletes every selected record with one batch call. Local
// state changes only when the whole batch succeeded.
func (c *Controller) DeleteSelected(ctx context.Context) (int, error) {
	c.mu.Lock()
	ids := c.selectedLocked()
	c.mu.Unlock()
	if len(ids) == 0 {
		c.notify(ctx, types.NotificationInfo, MsgNoSelection, nil)
		return 0, nil
	}

	if err := c.service.DeleteRecordsBatch(ctx, ids); err != nil {
		c.logger.Error("record batch delete failed", err, "table_id", c.tableID, "count", len(ids))
		c.notify(ctx, types.NotificationError, MsgBatchDeleteError, nil)
		return 0, c.wrap(err, "delete_selected", map[string]any{"count": len(ids)})
	}

	c.mu.Lock()
	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
	}
	kept := c.records[:0:0]
	for _, r := range c.records {
		if _, ok := removed[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	deleted := len(c.records) - len(kept)
	c.records = kept
	c.totalCount = max(c.totalCount-deleted, 0)
	c.selection = make(map[string]struct{})
	c.touch()
	c.notify(ctx, types.NotificationSuccess, MsgBatchDeleted, map[string]any{"count": len(ids)})
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeDeleted, Removed: slices.Clone(ids)})
	return len(ids), nil
}

// DuplicateSelected creates copies of the selected records with one batch
// call and prepends them to the loaded records.
func (c *Controller) DuplicateSelected(ctx context.Context) ([]types.Record, error) {
	c.mu.Lock()
	reqs := make([]types.CreateRecordRequest, 0, len(c.selection))
	for _, r := range c.records {
		if _, ok := c.selection[r.ID]; ok {
			reqs = append(reqs, types.CreateRecordRequest{TableID: c.tableID, Data: r.Clone().Data})
		}
	}
	c.mu.Unlock()
	if len(reqs) == 0 {
		c.notify(ctx, types.NotificationInfo, MsgNoSelection, nil)
		return nil, nil
	}

	created, err := c.service.CreateRecordsBatch(ctx, reqs)
	if err != nil {
		c.logger.Error("record batch duplicate failed", err, "table_id", c.tableID, "count", len(reqs))
		c.notify(ctx, types.NotificationError, MsgBatchDuplicateError, nil)
		return nil, c.wrap(err, "duplicate_selected", map[string]any{"count": len(reqs)})
	}

	c.mu.Lock()
	c.records = append(cloneRecords(created), c.records...)
	c.totalCount += len(created)
	c.touch()
	c.notify(ctx, types.NotificationSuccess, MsgBatchDuplicated, map[string]any{"count": len(created)})
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeCreated, IDs: recordIDs(created)})
	return cloneRecords(created), nil
}
