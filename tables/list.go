package tables

import (
	"context"
	"slices"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
)

// Message keys emitted by the table controllers.
const (
	MsgLoadError          = "tables.loadError"
	MsgCreated            = "tables.created" // name
	MsgCreateError        = "tables.createError"
	MsgUpdated            = "tables.updated" // name
	MsgUpdateError        = "tables.updateError"
	MsgDeleted            = "tables.deleted"
	MsgDeleteError        = "tables.deleteError"
	MsgBatchDeleted       = "tables.batchDeleted"       // count
	MsgBatchDeletePartial = "tables.batchDeletePartial" // count, failed
	MsgBatchDeleteError   = "tables.batchDeleteError"
	MsgRenamed            = "tables.renamed"          // name
	MsgPropertyAdded      = "tables.property.added"   // property
	MsgPropertyUpdated    = "tables.property.updated" // property
	MsgPropertyRemoved    = "tables.property.removed" // property
	MsgPropertyError      = "tables.property.error"
)

// Config wires a table controller.
type Config struct {
	Service  types.TableService
	Notifier types.Notifier
	Logger   types.Logger
}

func normalizeConfig(cfg *Config) error {
	if cfg.Service == nil {
		return types.ErrMissingTableService
	}
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return nil
}

// BatchDeleteResult reports a best-effort batch delete.
type BatchDeleteResult struct {
	Succeeded int
	Errors    []error
}

// Failed returns the number of IDs that could not be deleted.
func (r BatchDeleteResult) Failed() int {
	return len(r.Errors)
}

// ListController manages the tables of a workspace.
type ListController struct {
	mu sync.Mutex

	workspaceID string
	service     types.TableService
	notifier    types.Notifier
	logger      types.Logger

	tables  []types.Table
	loading bool
	lastErr error
}

// NewListController returns a controller for the workspace tables.
func NewListController(workspaceID string, cfg Config) (*ListController, error) {
	if err := normalizeConfig(&cfg); err != nil {
		return nil, err
	}
	return &ListController{
		workspaceID: workspaceID,
		service:     cfg.Service,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}, nil
}

// WorkspaceID returns the workspace the controller lists.
func (c *ListController) WorkspaceID() string {
	return c.workspaceID
}

// Load fetches the workspace tables. On failure the loaded tables are kept.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	tables, err := c.service.ListTables(ctx, c.workspaceID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.logger.Error("tables load failed", err, "workspace_id", c.workspaceID)
		c.notify(ctx, types.NotificationError, MsgLoadError, nil)
		return wrap(err, "list", map[string]any{"workspace_id": c.workspaceID})
	}
	c.lastErr = nil
	c.tables = slices.Clone(tables)
	return nil
}

// Loading reports whether a load is in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error of the last failed load.
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Tables returns the loaded tables.
func (c *ListController) Tables() []types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tables)
}

// Search returns the loaded tables whose name or description contains the
// query, ignoring case. An empty query returns every table.
func (c *ListController) Search(query string) []types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(c.tables)
	}
	out := make([]types.Table, 0, len(c.tables))
	for _, table := range c.tables {
		if strings.Contains(strings.ToLower(table.Name), query) ||
			strings.Contains(strings.ToLower(table.Description), query) {
			out = append(out, table)
		}
	}
	return out
}

// Create creates a table in the workspace and prepends it to the list.
func (c *ListController) Create(ctx context.Context, req types.CreateTableRequest) (*types.Table, error) {
	if req.WorkspaceID == "" {
		req.WorkspaceID = c.workspaceID
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, goerrors.New("tables: name required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	table, err := c.service.CreateTable(ctx, req)
	if err != nil {
		c.logger.Error("table create failed", err, "workspace_id", c.workspaceID)
		c.notify(ctx, types.NotificationError, MsgCreateError, nil)
		return nil, wrap(err, "create", map[string]any{"workspace_id": c.workspaceID})
	}

	c.mu.Lock()
	c.tables = append([]types.Table{*table}, c.tables...)
	c.mu.Unlock()
	c.notify(ctx, types.NotificationSuccess, MsgCreated, map[string]any{"name": table.Name})
	return table, nil
}

// Update applies a partial update and replaces the table in the list.
func (c *ListController) Update(ctx context.Context, id string, req types.UpdateTableRequest) (*types.Table, error) {
	table, err := c.service.UpdateTable(ctx, id, req)
	if err != nil {
		c.logger.Error("table update failed", err, "table_id", id)
		c.notify(ctx, types.NotificationError, MsgUpdateError, nil)
		return nil, wrap(err, "update", map[string]any{"table_id": id})
	}

	c.mu.Lock()
	if idx := indexOf(c.tables, id); idx >= 0 {
		c.tables[idx] = *table
	}
	c.mu.Unlock()
	c.notify(ctx, types.NotificationSuccess, MsgUpdated, map[string]any{"name": table.Name})
	return table, nil
}

// Delete deletes a table and drops it from the list.
func (c *ListController) Delete(ctx context.Context, id string) error {
	if err := c.service.DeleteTable(ctx, id); err != nil {
		c.logger.Error("table delete failed", err, "table_id", id)
		c.notify(ctx, types.NotificationError, MsgDeleteError, nil)
		return wrap(err, "delete", map[string]any{"table_id": id})
	}
	c.mu.Lock()
	c.removeLocked(id)
	c.mu.Unlock()
	c.notify(ctx, types.NotificationSuccess, MsgDeleted, nil)
	return nil
}

// BatchDelete deletes each table on its own. Failures are collected and do
// not stop the remaining deletes. A single notification summarizes the
// outcome.
func (c *ListController) BatchDelete(ctx context.Context, ids []string) BatchDeleteResult {
	var result BatchDeleteResult
	for _, id := range ids {
		if err := c.service.DeleteTable(ctx, id); err != nil {
			c.logger.Warn("table batch delete entry failed", "table_id", id, "error", err)
			result.Errors = append(result.Errors, wrap(err, "batch_delete", map[string]any{"table_id": id}))
			continue
		}
		c.mu.Lock()
		c.removeLocked(id)
		c.mu.Unlock()
		result.Succeeded++
	}

	switch {
	case len(result.Errors) == 0:
		c.notify(ctx, types.NotificationSuccess, MsgBatchDeleted, map[string]any{"count": result.Succeeded})
	case result.Succeeded > 0:
		c.notify(ctx, types.NotificationWarning, MsgBatchDeletePartial, map[string]any{
			"count":  result.Succeeded,
			"failed": result.Failed(),
		})
	default:
		c.notify(ctx, types.NotificationError, MsgBatchDeleteError, nil)
	}
	return result
}

func (c *ListController) removeLocked(id string) {
	if idx := indexOf(c.tables, id); idx >= 0 {
		c.tables = slices.Delete(c.tables, idx, idx+1)
	}
}

func (c *ListController) notify(ctx context.Context, level types.NotificationLevel, key string, params map[string]any) {
	c.notifier.Notify(ctx, types.Notification{Level: level, Key: key, Params: params})
}

func indexOf(tables []types.Table, id string) int {
	return slices.IndexFunc(tables, func(t types.Table) bool { return t.ID == id })
}

func wrap(err error, op string, metadata map[string]any) error {
	meta := map[string]any{"operation": op}
	for k, v := range metadata {
		meta[k] = v
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.WithMetadata(meta)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "tables: "+op+" failed").
		WithCode(goerrors.CodeInternal).
		WithMetadata(meta)
}
