package service

import (
	"context"
	"strings"

	"github.com/goliatone/go-tableview/command"
	"github.com/goliatone/go-tableview/pinning"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/query"
	"github.com/goliatone/go-tableview/records"
	"github.com/goliatone/go-tableview/tables"
	"github.com/goliatone/go-tableview/views"
)

// OpenTableInput selects the table and how its grid handle is set up.
type OpenTableInput struct {
	TableID string
	// Handle is the grid engine handle. When nil the session builds a
	// pinning.TableState from the table properties and the loaded records.
	Handle         pinning.Table
	InitialPinning *pinning.InitialPinning
	// RestorePinning applies the saved pin snapshot after initialization.
	RestorePinning bool
	Settings       *pinning.SettingsPatch
	Hooks          pinning.Hooks
	Scope          pinning.FeatureScope
	// SkipRecords leaves the record list idle.
	SkipRecords bool
}

// Commands exposes the session command handlers.
type Commands struct {
	PinColumn            *command.PinColumnCommand
	PinRow               *command.PinRowCommand
	ClearPins            *command.ClearPinsCommand
	ViewSort             *command.ViewSortCommand
	ViewColumnVisibility *command.ViewColumnVisibilityCommand
	ViewDensity          *command.ViewDensityCommand
	ViewReset            *command.ViewResetCommand
	RecordDeleteSelected *command.RecordDeleteSelectedCommand
	RecordExport         *command.RecordExportCommand
}

// Queries exposes the session read models.
type Queries struct {
	ActiveView   *query.ActiveViewQuery
	PinningState *query.PinningStateQuery
	RecordView   *query.RecordViewQuery
}

// Session bundles the controllers of one open table.
type Session struct {
	TableID  string
	Detail   *tables.DetailController
	Pinning  *pinning.Controller
	Views    *views.Resolver
	Records  *records.Controller
	Commands Commands
	Queries  Queries

	handle     pinning.Table
	ownsHandle bool
}

// OpenTable loads the table definition, resolves the view, fetches the first
// record page and initializes pinning. A failed record fetch leaves the
// session open with the record list in the error state.
func (s *Service) OpenTable(ctx context.Context, in OpenTableInput) (*Session, error) {
	tableID := strings.TrimSpace(in.TableID)
	if tableID == "" {
		return nil, types.ErrTableIDRequired
	}
	if err := s.HealthCheck(ctx); err != nil {
		return nil, err
	}

	detail, err := s.TableDetail()
	if err != nil {
		return nil, err
	}
	table, err := detail.Load(ctx, tableID)
	if err != nil {
		return nil, err
	}

	resolver, err := views.NewResolver(views.Config{
		TableID:  tableID,
		Store:    s.cfg.Store,
		Notifier: s.cfg.Notifier,
		Logger:   s.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := resolver.Load(ctx, *table); err != nil {
		s.cfg.Logger.Warn("view preferences unavailable, using table default", "table_id", tableID, "error", err)
	}

	recs, err := records.NewController(records.Config{
		TableID:    tableID,
		Service:    s.cfg.TableService,
		Schema:     table,
		Views:      resolver,
		Downloader: s.cfg.Downloader,
		Masker:     s.cfg.Masker,
		Notifier:   s.cfg.Notifier,
		Logger:     s.cfg.Logger,
		PageSize:   s.cfg.PageSize,
		Locale:     s.cfg.Locale,
	})
	if err != nil {
		return nil, err
	}
	if !in.SkipRecords {
		if err := recs.LoadRecords(ctx, 1, false); err != nil {
			s.cfg.Logger.Warn("initial record load failed", "table_id", tableID, "error", err)
		}
	}

	handle, owned := in.Handle, false
	if handle == nil {
		handle, owned = pinning.NewTableState(columnDefs(*table), rowDefs(recs.Records())), true
	}
	settings := in.Settings
	if settings == nil {
		settings = s.cfg.PinningSettings
	}
	pins, err := pinning.NewController(pinning.Config{
		TableID:        tableID,
		Table:          handle,
		Store:          s.cfg.Store,
		Settings:       settings,
		InitialPinning: in.InitialPinning,
		Hooks:          in.Hooks,
		FeatureGate:    s.cfg.FeatureGate,
		Scope:          in.Scope,
		Notifier:       s.cfg.Notifier,
		Logger:         s.cfg.Logger,
		Clock:          s.cfg.Clock,
	})
	if err != nil {
		return nil, err
	}
	if err := pins.Initialize(ctx); err != nil {
		return nil, err
	}
	if in.RestorePinning {
		if _, found := pins.LoadPreferences(ctx); found {
			pins.RestorePreferences(ctx)
		}
	}

	session := &Session{
		TableID:    tableID,
		Detail:     detail,
		Pinning:    pins,
		Views:      resolver,
		Records:    recs,
		handle:     handle,
		ownsHandle: owned,
	}
	session.Commands = Commands{
		PinColumn:            command.NewPinColumnCommand(pins),
		PinRow:               command.NewPinRowCommand(pins),
		ClearPins:            command.NewClearPinsCommand(pins),
		ViewSort:             command.NewViewSortCommand(resolver),
		ViewColumnVisibility: command.NewViewColumnVisibilityCommand(resolver),
		ViewDensity:          command.NewViewDensityCommand(resolver),
		ViewReset:            command.NewViewResetCommand(resolver),
		RecordDeleteSelected: command.NewRecordDeleteSelectedCommand(recs),
		RecordExport:         command.NewRecordExportCommand(recs),
	}
	session.Queries = Queries{
		ActiveView:   query.NewActiveViewQuery(resolver),
		PinningState: query.NewPinningStateQuery(pins),
		RecordView:   query.NewRecordViewQuery(recs),
	}
	recs.OnChange(session.recordsChanged)
	detail.OnSchemaChange(session.schemaChanged)
	return session, nil
}

// Handle returns the grid handle the pinning controller writes to.
func (s *Session) Handle() pinning.Table {
	return s.handle
}

// Refresh reloads the first record page. Rows of a session owned handle
// follow every record change, so this is the same as Records.Refresh.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Records.Refresh(ctx)
}

// LoadMore appends the next record page.
func (s *Session) LoadMore(ctx context.Context) error {
	return s.Records.LoadMore(ctx)
}

// SchemaKeys returns the property keys in display order.
func (s *Session) SchemaKeys() []string {
	return s.Records.SchemaKeys()
}

// recordsChanged keeps the handle rows in step with the record list and
// unpins deleted records.
func (s *Session) recordsChanged(ctx context.Context, change records.Change) {
	s.syncRows()
	if len(change.Removed) > 0 {
		s.Pinning.DropRows(ctx, change.Removed...)
	}
}

// schemaChanged follows a property change made through Detail: the record
// pipeline gets the new schema, an owned handle gets the new columns, and
// pins of removed columns are dropped.
func (s *Session) schemaChanged(ctx context.Context, table types.Table) {
	s.Records.ApplySchema(ctx, table)
	if s.ownsHandle {
		if state, ok := s.handle.(*pinning.TableState); ok {
			state.SetColumns(columnDefs(table))
		}
	}
	s.Pinning.DropMissingColumns(ctx)
}

func (s *Session) syncRows() {
	if !s.ownsHandle {
		return
	}
	state, ok := s.handle.(*pinning.TableState)
	if !ok {
		return
	}
	state.SetRows(rowDefs(s.Records.Records()))
}

func columnDefs(table types.Table) []pinning.ColumnDef {
	props := table.OrderedProperties()
	out := make([]pinning.ColumnDef, 0, len(props)+len(types.SystemColumns)+1)
	out = append(out, pinning.ColumnDef{ID: types.SystemColumnID, Header: "ID"})
	for _, prop := range props {
		out = append(out, pinning.ColumnDef{ID: prop.Key, Header: prop.DisplayName})
	}
	for _, key := range types.SystemColumns {
		out = append(out, pinning.ColumnDef{ID: key})
	}
	return out
}

func rowDefs(recs []types.Record) []pinning.RowDef {
	out := make([]pinning.RowDef, 0, len(recs))
	for _, rec := range recs {
		out = append(out, pinning.RowDef{ID: rec.ID})
	}
	return out
}
