package pinning

import (
	"context"
	"sync"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tableview/pkg/types"
)

// DefaultPinReason is recorded when a row is pinned without an explicit
// reason.
const DefaultPinReason = "user"

// Hooks are optional callbacks invoked around pin mutations. Before hooks can
// veto a pin by returning false. Hooks run while the controller holds its lock
// and must not call back into the same controller.
type Hooks struct {
	BeforeColumnPin func(ctx context.Context, columnID string, pos ColumnPosition) (bool, error)
	OnColumnPin     func(ctx context.Context, columnID string, pos ColumnPosition) error
	BeforeRowPin    func(ctx context.Context, rowID string, pos RowPosition, reason string) (bool, error)
	OnRowPin        func(ctx context.Context, rowID string, pos RowPosition, reason string) error
}

// InitialPinning is applied to the handle once, on Initialize, bypassing
// validation.
type InitialPinning struct {
	Columns *ColumnPinning
	Rows    *RowPinning
}

// Config wires the controller dependencies.
type Config struct {
	TableID        string
	Table          Table
	Store          types.Store
	Settings       *SettingsPatch
	InitialPinning *InitialPinning
	Hooks          Hooks
	FeatureGate    featuregate.FeatureGate
	Scope          FeatureScope
	Notifier       types.Notifier
	Logger         types.Logger
	Clock          types.Clock
}

// Controller is the single writer of pin state on a table handle. It
// validates every mutation against the table settings, persists a snapshot
// after each success and reports the outcome through the notifier.
type Controller struct {
	mu sync.Mutex

	tableID  string
	table    Table
	states   *StateStore
	state    State
	patch    *SettingsPatch
	initial  *InitialPinning
	hooks    Hooks
	gate     featuregate.FeatureGate
	scope    FeatureScope
	notifier types.Notifier
	logger   types.Logger
	clock    types.Clock

	initialized bool
	applied     bool
}

// NewController validates the config and returns a controller using default
// settings until Initialize is called.
func NewController(cfg Config) (*Controller, error) {
	if cfg.TableID == "" {
		return nil, types.ErrTableIDRequired
	}
	if cfg.Table == nil {
		return nil, types.ErrMissingTableHandle
	}
	normalizeConfig(&cfg)
	settings := DefaultSettings()
	if cfg.Settings != nil {
		settings = cfg.Settings.Apply(settings)
	}
	return &Controller{
		tableID:  cfg.TableID,
		table:    cfg.Table,
		states:   NewStateStore(cfg.Store, cfg.TableID, cfg.Logger),
		state:    State{Settings: settings},
		patch:    cfg.Settings,
		initial:  cfg.InitialPinning,
		hooks:    cfg.Hooks,
		gate:     cfg.FeatureGate,
		scope:    cfg.Scope,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
	}, nil
}

func normalizeConfig(cfg *Config) {
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
}

// Initialize loads the persisted state and applies the initial pinning. It
// is safe to call more than once; only the first call has effect. Store
// failures and malformed values are logged and the defaults are used.
func (c *Controller) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	c.initialized = true

	state, found, err := c.states.Load(ctx)
	if err != nil {
		c.logger.Warn("pinning state unavailable, using defaults", "table_id", c.tableID, "error", err)
	}
	if !found {
		if c.patch != nil {
			state.Settings = c.patch.Apply(state.Settings)
		}
	}
	c.state = state
	c.applyInitialPinningLocked()
	return nil
}

// ApplyInitialPinning sets the handle state from the configured initial
// pinning without validation. It runs at most once per controller.
func (c *Controller) ApplyInitialPinning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyInitialPinningLocked()
}

func (c *Controller) applyInitialPinningLocked() {
	if c.applied || c.initial == nil {
		return
	}
	c.applied = true
	if c.initial.Columns != nil {
		c.table.SetColumnPinning(c.initial.Columns.Clone())
	}
	if c.initial.Rows != nil {
		c.table.SetRowPinning(c.initial.Rows.Clone())
	}
	c.logger.Debug("initial pinning applied", "table_id", c.tableID)
}

// TableID returns the bound table identifier.
func (c *Controller) TableID() string { return c.tableID }

// Table returns the handle the controller writes to.
func (c *Controller) Table() Table { return c.table }

// State returns a copy of the current pinning state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Settings returns the active settings.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Settings
}

// StyleOptions returns calculator options bound to the active settings.
func (c *Controller) StyleOptions() StyleOptions {
	settings := c.Settings()
	return StyleOptions{Settings: &settings}
}

// UpdateSettings merges patch into the settings and persists the result.
func (c *Controller) UpdateSettings(ctx context.Context, patch SettingsPatch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.state.Settings
	c.state.Settings = patch.Apply(c.state.Settings)
	if err := c.states.Save(ctx, c.state); err != nil {
		c.state.Settings = previous
		return c.fail(ctx, "update settings", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgSettingsUpdated, nil)
	return true
}

// ResetSettings restores the default settings and clears every pin. A single
// notification is emitted.
func (c *Controller) ResetSettings(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.state.Settings
	cols, rows := c.table.ColumnPinning(), c.table.RowPinning()
	c.state.Settings = DefaultSettings()
	c.table.SetColumnPinning(ColumnPinning{})
	c.table.SetRowPinning(RowPinning{})
	if err := c.persistLocked(ctx); err != nil {
		c.state.Settings = previous
		c.rollbackLocked(cols, rows)
		return c.fail(ctx, "reset settings", err)
	}
	c.notify(ctx, types.NotificationSuccess, MsgSettingsReset, nil)
	return true
}

// persistLocked refreshes the snapshot from the handle and writes the state.
// The previous snapshot is kept when the write fails.
func (c *Controller) persistLocked(ctx context.Context) error {
	previous := c.state.UserPreferences
	c.state.UserPreferences = snapshot(c.table.ColumnPinning(), c.table.RowPinning(), c.clock.Now())
	if err := c.states.Save(ctx, c.state); err != nil {
		c.state.UserPreferences = previous
		return err
	}
	return nil
}

// rollbackLocked puts back the pinning captured before a failed mutation.
func (c *Controller) rollbackLocked(cols ColumnPinning, rows RowPinning) {
	c.table.SetColumnPinning(cols)
	c.table.SetRowPinning(rows)
}

func (c *Controller) notify(ctx context.Context, level types.NotificationLevel, key string, params map[string]any) {
	c.notifier.Notify(ctx, types.Notification{Level: level, Key: key, Params: params})
}

func (c *Controller) warn(ctx context.Context, key string, params map[string]any) bool {
	c.notify(ctx, types.NotificationWarning, key, params)
	return false
}

// fail is the error boundary of every mutating operation.
func (c *Controller) fail(ctx context.Context, op string, err error, fields ...any) bool {
	fields = append([]any{"table_id", c.tableID, "op", op}, fields...)
	c.logger.Error("pinning operation failed", err, fields...)
	c.notify(ctx, types.NotificationError, MsgPinningError, map[string]any{"operation": op})
	return false
}
