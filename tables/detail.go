package tables

import (
	"context"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
)

// ErrTableNotLoaded is returned by detail operations before Load succeeded.
var ErrTableNotLoaded = goerrors.New("tables: table not loaded", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// SchemaFunc observes table definitions changed through the controller.
type SchemaFunc func(ctx context.Context, table types.Table)

// DetailController manages a single table definition and its properties.
type DetailController struct {
	mu sync.Mutex

	service  types.TableService
	notifier types.Notifier
	logger   types.Logger

	table    *types.Table
	onSchema SchemaFunc
}

// NewDetailController returns an empty detail controller.
func NewDetailController(cfg Config) (*DetailController, error) {
	if err := normalizeConfig(&cfg); err != nil {
		return nil, err
	}
	return &DetailController{
		service:  cfg.Service,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}, nil
}

// Load fetches the table definition.
func (c *DetailController) Load(ctx context.Context, id string) (*types.Table, error) {
	if id == "" {
		return nil, types.ErrTableIDRequired
	}
	table, err := c.service.GetTable(ctx, id)
	if err != nil {
		c.logger.Error("table load failed", err, "table_id", id)
		c.notify(ctx, types.NotificationError, MsgLoadError, nil)
		return nil, wrap(err, "get", map[string]any{"table_id": id})
	}
	c.set(table)
	return c.Table(), nil
}

// OnSchemaChange registers fn to run after Update or a property change
// succeeded. A nil fn removes it.
func (c *DetailController) OnSchemaChange(fn SchemaFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSchema = fn
}

// Table returns a copy of the loaded table, or nil.
func (c *DetailController) Table() *types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return nil
	}
	out := *c.table
	return &out
}

// Properties returns the table properties in display order.
func (c *DetailController) Properties() []types.PropertyDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return nil
	}
	return c.table.OrderedProperties()
}

// Rename changes the table name.
func (c *DetailController) Rename(ctx context.Context, name string) (*types.Table, error) {
	id, err := c.loadedID()
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerrors.New("tables: name required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	table, err := c.service.UpdateTable(ctx, id, types.UpdateTableRequest{Name: &name})
	if err != nil {
		c.logger.Error("table rename failed", err, "table_id", id)
		c.notify(ctx, types.NotificationError, MsgUpdateError, nil)
		return nil, wrap(err, "rename", map[string]any{"table_id": id})
	}
	c.set(table)
	c.notify(ctx, types.NotificationSuccess, MsgRenamed, map[string]any{"name": table.Name})
	return c.Table(), nil
}

// Update applies a partial table update such as a new property order or
// view settings.
func (c *DetailController) Update(ctx context.Context, req types.UpdateTableRequest) (*types.Table, error) {
	id, err := c.loadedID()
	if err != nil {
		return nil, err
	}
	table, err := c.service.UpdateTable(ctx, id, req)
	if err != nil {
		c.logger.Error("table update failed", err, "table_id", id)
		c.notify(ctx, types.NotificationError, MsgUpdateError, nil)
		return nil, wrap(err, "update", map[string]any{"table_id": id})
	}
	c.set(table)
	c.notify(ctx, types.NotificationSuccess, MsgUpdated, map[string]any{"name": table.Name})
	c.schemaChanged(ctx)
	return c.Table(), nil
}

// AddProperty adds a property definition.
func (c *DetailController) AddProperty(ctx context.Context, def types.PropertyDefinition) (*types.Table, error) {
	if strings.TrimSpace(def.Key) == "" || def.Type == "" {
		return nil, goerrors.New("tables: property key and type required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return c.propertyChange(ctx, "add_property", def.Key, MsgPropertyAdded, func(id string) (*types.Table, error) {
		return c.service.AddProperty(ctx, id, def)
	})
}

// UpdateProperty patches a property definition.
func (c *DetailController) UpdateProperty(ctx context.Context, key string, patch types.PropertyPatch) (*types.Table, error) {
	return c.propertyChange(ctx, "update_property", key, MsgPropertyUpdated, func(id string) (*types.Table, error) {
		return c.service.UpdateProperty(ctx, id, key, patch)
	})
}

// RemoveProperty removes a property definition.
func (c *DetailController) RemoveProperty(ctx context.Context, key string) (*types.Table, error) {
	return c.propertyChange(ctx, "remove_property", key, MsgPropertyRemoved, func(id string) (*types.Table, error) {
		return c.service.RemoveProperty(ctx, id, key)
	})
}

func (c *DetailController) propertyChange(ctx context.Context, op, key, successKey string, call func(id string) (*types.Table, error)) (*types.Table, error) {
	id, err := c.loadedID()
	if err != nil {
		return nil, err
	}
	table, err := call(id)
	if err != nil {
		c.logger.Error("table property change failed", err, "table_id", id, "property", key, "operation", op)
		c.notify(ctx, types.NotificationError, MsgPropertyError, map[string]any{"property": key})
		return nil, wrap(err, op, map[string]any{"table_id": id, "property": key})
	}
	c.set(table)
	c.notify(ctx, types.NotificationSuccess, successKey, map[string]any{"property": key})
	c.schemaChanged(ctx)
	return c.Table(), nil
}

func (c *DetailController) schemaChanged(ctx context.Context) {
	c.mu.Lock()
	fn, table := c.onSchema, c.table
	c.mu.Unlock()
	if fn == nil || table == nil {
		return
	}
	fn(ctx, *table)
}

func (c *DetailController) loadedID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return "", ErrTableNotLoaded
	}
	return c.table.ID, nil
}

func (c *DetailController) set(table *types.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if table == nil {
		c.table = nil
		return
	}
	cp := *table
	c.table = &cp
}

func (c *DetailController) notify(ctx context.Context, level types.NotificationLevel, key string, params map[string]any) {
	c.notifier.Notify(ctx, types.Notification{Level: level, Key: key, Params: params})
}
