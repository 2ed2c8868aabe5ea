package views

import (
	"context"
	"errors"
	"slices"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-tableview/pkg/types"
)

const (
	MsgViewUpdated   = "table.view.updated"
	MsgViewReset     = "table.view.reset"
	MsgViewSaveError = "table.view.saveError"
)

const (
	layerFallback = "fallback"
	layerTable    = "table"
	layerUser     = "user"
)

// ErrInvalidDensity is returned when a density outside the known set is
// requested.
var ErrInvalidDensity = errors.New("views: invalid density")

// PreferencesKey returns the persistence key of a table's view preferences.
func PreferencesKey(tableID string) string {
	return "table-" + tableID + "-view"
}

// Config wires the resolver dependencies.
type Config struct {
	TableID  string
	Store    types.Store
	Notifier types.Notifier
	Logger   types.Logger
}

// Resolver computes the active view settings of a table from three layers:
// the hardcoded fallback, the table default and the user override. The user
// override replaces the table default as a whole; the fallback only fills
// fields neither of them defines.
type Resolver struct {
	mu sync.Mutex

	tableID  string
	key      string
	store    types.Store
	notifier types.Notifier
	logger   types.Logger

	tableDefault map[string]any
	prefs        Preferences
}

// NewResolver validates the config and returns a resolver using the
// fallback settings until Load is called.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.TableID == "" {
		return nil, types.ErrTableIDRequired
	}
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return &Resolver{
		tableID:  cfg.TableID,
		key:      PreferencesKey(cfg.TableID),
		store:    cfg.Store,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		prefs:    Preferences{UseDefault: true},
	}, nil
}

// Load reads the table default from table.Settings and the persisted user
// preferences. Malformed values are logged and replaced by defaults; Load
// only fails when the store itself fails.
func (r *Resolver) Load(ctx context.Context, table types.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tableDefault = nil
	if raw, ok := table.Settings[DefaultViewKey]; ok && raw != nil {
		payload, dropped, err := parseLayer(raw)
		switch {
		case err != nil:
			r.logger.Warn("table default view malformed, using fallback", "table_id", r.tableID, "error", err)
		default:
			if len(dropped) > 0 {
				r.logger.Warn("table default view has invalid fields", "table_id", r.tableID, "fields", dropped)
			}
			r.tableDefault = payload
		}
	}

	r.prefs = Preferences{UseDefault: true}
	if r.store == nil {
		return nil
	}
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "views: load preferences").
			WithCode(goerrors.CodeInternal).
			WithMetadata(map[string]any{"table_id": r.tableID, "key": r.key})
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	prefs, err := r.decodePreferences(raw)
	if err != nil {
		r.logger.Warn("view preferences malformed, using table default", "table_id", r.tableID, "error", err)
		return nil
	}
	r.prefs = prefs
	return nil
}

func (r *Resolver) decodePreferences(raw map[string]any) (Preferences, error) {
	useDefault, ok := raw["useDefault"].(bool)
	if !ok {
		return Preferences{}, errMalformedSettings
	}
	if useDefault {
		return Preferences{UseDefault: true}, nil
	}
	custom, present := raw["customSettings"]
	if !present || custom == nil {
		return Preferences{}, errMalformedSettings
	}
	payload, dropped, err := parseLayer(custom)
	if err != nil {
		return Preferences{}, err
	}
	if len(dropped) > 0 {
		r.logger.Warn("view preferences have invalid fields", "table_id", r.tableID, "fields", dropped)
	}
	settings, err := mergeLayers(payload, layerUser)
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{UseDefault: false, CustomSettings: &settings}, nil
}

// Active returns the effective settings.
func (r *Resolver) Active() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

func (r *Resolver) activeLocked() Settings {
	if !r.prefs.UseDefault && r.prefs.CustomSettings != nil {
		return r.prefs.CustomSettings.Clone()
	}
	settings, err := mergeLayers(r.tableDefault, layerTable)
	if err != nil {
		r.logger.Warn("view layers failed to merge, using fallback", "table_id", r.tableID, "error", err)
		return FallbackSettings()
	}
	return settings
}

// Preferences returns a copy of the persisted preferences.
func (r *Resolver) Preferences() Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs.Clone()
}

// TableDefault returns the table-level default merged over the fallback.
func (r *Resolver) TableDefault() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, err := mergeLayers(r.tableDefault, layerTable)
	if err != nil {
		return FallbackSettings()
	}
	return settings
}

// VisibleColumns resolves the displayed keys for a schema: the configured
// visible columns that exist in the schema (or the whole schema when none
// are configured), plus the system columns when enabled.
func (r *Resolver) VisibleColumns(schemaKeys []string) []string {
	return ResolveVisibleColumns(r.Active(), schemaKeys)
}

// ResolveVisibleColumns applies the visibility rules of settings to a schema.
func ResolveVisibleColumns(settings Settings, schemaKeys []string) []string {
	var out []string
	if settings.VisibleColumns == nil {
		out = slices.Clone(schemaKeys)
	} else {
		out = make([]string, 0, len(settings.VisibleColumns))
		for _, key := range settings.VisibleColumns {
			if slices.Contains(schemaKeys, key) && !slices.Contains(out, key) {
				out = append(out, key)
			}
		}
	}
	if settings.ShowSystemColumns {
		out = append(out, types.SystemColumns...)
	}
	return out
}

// ToggleColumnVisibility shows or hides key. When no visible columns are
// configured yet the list starts from schemaKeys.
func (r *Resolver) ToggleColumnVisibility(ctx context.Context, key string, schemaKeys []string) error {
	return r.mutate(ctx, "visibleColumns", func(s *Settings) error {
		if s.VisibleColumns == nil {
			s.VisibleColumns = slices.Clone(schemaKeys)
			if s.VisibleColumns == nil {
				s.VisibleColumns = []string{}
			}
		}
		if idx := slices.Index(s.VisibleColumns, key); idx >= 0 {
			s.VisibleColumns = slices.Delete(s.VisibleColumns, idx, idx+1)
			return nil
		}
		s.VisibleColumns = append(s.VisibleColumns, key)
		return nil
	})
}

// SetSortBy sorts by key. Selecting the current key flips the order; a new
// key starts ascending.
func (r *Resolver) SetSortBy(ctx context.Context, key string) error {
	return r.mutate(ctx, "sortBy", func(s *Settings) error {
		if s.SortBy == key {
			s.SortOrder = s.SortOrder.Toggle()
			return nil
		}
		s.SortBy = key
		s.SortOrder = types.SortAsc
		return nil
	})
}

// SetSortOrder sets the sort direction.
func (r *Resolver) SetSortOrder(ctx context.Context, order types.SortOrder) error {
	if order != types.SortAsc && order != types.SortDesc {
		return goerrors.New("views: invalid sort order", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"sort_order": string(order)})
	}
	return r.mutate(ctx, "sortOrder", func(s *Settings) error {
		s.SortOrder = order
		return nil
	})
}

// SetDensity sets the row density.
func (r *Resolver) SetDensity(ctx context.Context, density Density) error {
	if !density.Valid() {
		return goerrors.Wrap(ErrInvalidDensity, goerrors.CategoryValidation, "views: set density").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"density": string(density)})
	}
	return r.mutate(ctx, "density", func(s *Settings) error {
		s.Density = density
		return nil
	})
}

// SetShowSystemColumns toggles the metadata columns.
func (r *Resolver) SetShowSystemColumns(ctx context.Context, show bool) error {
	return r.mutate(ctx, "showSystemColumns", func(s *Settings) error {
		s.ShowSystemColumns = show
		return nil
	})
}

// ResetToDefault drops the user override. The table default is active
// immediately.
func (r *Resolver) ResetToDefault(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = Preferences{UseDefault: true}
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.notifier.Notify(ctx, types.Notification{Level: types.NotificationSuccess, Key: MsgViewReset})
	return nil
}

// mutate materializes the user override from the active settings on first
// use and applies fn to it. The mutation stays live when persisting fails;
// success ends in one MsgViewUpdated naming field.
func (r *Resolver) mutate(ctx context.Context, field string, fn func(*Settings) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	custom := r.ensureCustomSettings()
	next := custom.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	r.prefs.CustomSettings = &next
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.notifier.Notify(ctx, types.Notification{
		Level:  types.NotificationSuccess,
		Key:    MsgViewUpdated,
		Params: map[string]any{"field": field},
	})
	return nil
}

func (r *Resolver) ensureCustomSettings() Settings {
	if r.prefs.UseDefault || r.prefs.CustomSettings == nil {
		active := r.activeLocked()
		r.prefs = Preferences{UseDefault: false, CustomSettings: &active}
	}
	return *r.prefs.CustomSettings
}

func (r *Resolver) persistLocked(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	value, err := types.EncodeStoreValue(r.prefs)
	if err == nil {
		err = r.store.Set(ctx, r.key, value)
	}
	if err != nil {
		r.logger.Error("view preferences save failed", err, "table_id", r.tableID)
		r.notifier.Notify(ctx, types.Notification{Level: types.NotificationError, Key: MsgViewSaveError})
		return goerrors.Wrap(err, goerrors.CategoryInternal, "views: save preferences").
			WithCode(goerrors.CodeInternal).
			WithMetadata(map[string]any{"table_id": r.tableID, "key": r.key})
	}
	return nil
}

// mergeLayers resolves payload over the fallback through a go-options stack.
func mergeLayers(payload map[string]any, layer string) (Settings, error) {
	fallback, err := types.EncodeStoreValue(FallbackSettings())
	if err != nil {
		return Settings{}, err
	}
	layers := []opts.Layer[map[string]any]{newLayer(layerFallback, opts.ScopePrioritySystem, fallback)}
	if len(payload) > 0 {
		priority := opts.ScopePriorityTenant
		if layer == layerUser {
			priority = opts.ScopePriorityUser
		}
		layers = append(layers, newLayer(layer, priority, payload))
	}
	stack, err := opts.NewStack(layers...)
	if err != nil {
		return Settings{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return Settings{}, err
	}
	settings := FallbackSettings()
	if err := types.DecodeStoreValue(merged.Value, &settings); err != nil {
		return Settings{}, err
	}
	// the top layer is decoded last so explicitly empty lists are kept
	if len(payload) > 0 {
		if err := types.DecodeStoreValue(payload, &settings); err != nil {
			return Settings{}, err
		}
	}
	return settings, nil
}

func newLayer(name string, priority int, payload map[string]any) opts.Layer[map[string]any] {
	scope := opts.NewScope(name, priority, opts.WithScopeLabel(layerLabel(name)))
	return opts.NewLayer(scope, cloneMap(payload), opts.WithSnapshotID[map[string]any](scope.Name))
}

func layerLabel(name string) string {
	switch name {
	case layerUser:
		return "User View"
	case layerTable:
		return "Table Default"
	default:
		return "Fallback"
	}
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
