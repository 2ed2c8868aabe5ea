package records

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/views"
	"golang.org/x/text/language"
)

// DefaultPageSize is used when Config.PageSize is not set.
const DefaultPageSize = 50

// Status is the load state of the record collection.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// ViewSource supplies the active view settings. *views.Resolver satisfies
// it.
type ViewSource interface {
	Active() views.Settings
}

// Config wires the controller dependencies.
type Config struct {
	TableID    string
	Service    types.TableService
	Schema     *types.Table
	Views      ViewSource
	Downloader types.Downloader
	Masker     *masker.Masker
	Notifier   types.Notifier
	Logger     types.Logger
	PageSize   int
	Locale     language.Tag
}

// Controller owns the fetched records of a table and derives the searched,
// filtered and sorted view shown to the user. Local state changes only after
// the remote call succeeded.
type Controller struct {
	mu sync.Mutex

	tableID    string
	service    types.TableService
	views      ViewSource
	downloader types.Downloader
	mask       *masker.Masker
	notifier   types.Notifier
	logger     types.Logger
	pageSize   int
	locale     language.Tag

	schema      types.Table
	records     []types.Record
	totalCount  int
	currentPage int
	hasMore     bool
	status      Status
	lastErr     error

	selection  map[string]struct{}
	search     string
	filters    map[string]any
	expression *Expression

	version uint64
	cache   viewCache

	onChange ChangeFunc
}

// NewController validates the config and returns an idle controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.TableID == "" {
		return nil, types.ErrTableIDRequired
	}
	if cfg.Service == nil {
		return nil, types.ErrMissingTableService
	}
	normalizeConfig(&cfg)
	c := &Controller{
		tableID:    cfg.TableID,
		service:    cfg.Service,
		views:      cfg.Views,
		downloader: cfg.Downloader,
		mask:       cfg.Masker,
		notifier:   cfg.Notifier,
		logger:     cfg.Logger,
		pageSize:   cfg.PageSize,
		locale:     cfg.Locale,
		status:     StatusIdle,
		selection:  make(map[string]struct{}),
		filters:    make(map[string]any),
	}
	if cfg.Schema != nil {
		c.schema = *cfg.Schema
	}
	return c, nil
}

func normalizeConfig(cfg *Config) {
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}
}

// LoadRecords fetches a page. With appendPage the page is added to the
// loaded records, otherwise it replaces them. A call made while another load
// is in flight is ignored and returns nil.
func (c *Controller) LoadRecords(ctx context.Context, page int, appendPage bool) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if c.status == StatusLoading {
		c.mu.Unlock()
		c.logger.Debug("records load skipped, already loading", "table_id", c.tableID)
		return nil
	}
	c.status = StatusLoading
	params := types.ListRecordsParams{Page: page, PageSize: c.pageSize}
	if active := c.activeView(); active.SortBy != "" {
		params.SortBy = active.SortBy
		params.SortOrder = active.SortOrder
	}
	c.mu.Unlock()

	result, err := c.service.ListRecords(ctx, c.tableID, params)

	c.mu.Lock()
	if err != nil {
		defer c.mu.Unlock()
		c.status = StatusError
		c.lastErr = err
		c.logger.Error("records load failed", err, "table_id", c.tableID, "page", page)
		c.notify(ctx, types.NotificationError, MsgLoadError, nil)
		return c.wrap(err, "load", map[string]any{"page": page})
	}
	if appendPage {
		c.records = append(c.records, cloneRecords(result.Records)...)
	} else {
		c.records = cloneRecords(result.Records)
	}
	c.totalCount = result.TotalCount
	c.currentPage = page
	c.hasMore = len(c.records) < c.totalCount
	c.status = StatusLoaded
	c.lastErr = nil
	c.pruneSelection()
	c.touch()
	c.mu.Unlock()

	c.emit(ctx, Change{Kind: ChangeLoaded, IDs: recordIDs(result.Records)})
	return nil
}

// LoadMore fetches the next page when more records are available.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	hasMore, next := c.hasMore, c.currentPage+1
	c.mu.Unlock()
	if !hasMore {
		return nil
	}
	return c.LoadRecords(ctx, next, true)
}

// Refresh reloads the first page.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.LoadRecords(ctx, 1, false)
}

// SetSchema replaces the table definition used for type dispatch, visible
// columns and export masking.
func (c *Controller) SetSchema(table types.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schema = table
	c.touch()
}

// ApplySchema is SetSchema followed by a ChangeSchema event, for callers
// that follow a remote schema change.
func (c *Controller) ApplySchema(ctx context.Context, table types.Table) {
	c.SetSchema(table)
	c.emit(ctx, Change{Kind: ChangeSchema})
}

// Schema returns the table definition.
func (c *Controller) Schema() types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema
}

// Records returns the loaded records in load order.
func (c *Controller) Records() []types.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.records)
}

// TotalCount returns the number of records reported by the service.
func (c *Controller) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCount
}

// CurrentPage returns the last loaded page.
func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// HasMore reports whether more records can be loaded.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Status returns the load state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the error of the last failed load.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) activeView() views.Settings {
	if c.views == nil {
		return views.FallbackSettings()
	}
	return c.views.Active()
}

// schemaKeys lists the property keys in display order. Without a schema the
// keys found in the loaded data are used.
func (c *Controller) schemaKeys() []string {
	if len(c.schema.Properties) > 0 {
		props := c.schema.OrderedProperties()
		keys := make([]string, 0, len(props))
		for _, p := range props {
			keys = append(keys, p.Key)
		}
		return keys
	}
	return dataKeys(c.records)
}

// SchemaKeys returns the property keys in display order.
func (c *Controller) SchemaKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schemaKeys()
}

// VisibleColumns returns the columns the view renders and exports.
func (c *Controller) VisibleColumns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleColumns()
}

func (c *Controller) visibleColumns() []string {
	return views.ResolveVisibleColumns(c.activeView(), c.schemaKeys())
}

func (c *Controller) propertyType(key string) types.PropertyType {
	switch key {
	case types.SystemColumnCreatedAt, types.SystemColumnUpdatedAt:
		return types.PropertyDateTime
	case types.SystemColumnID:
		return types.PropertyText
	}
	if prop, ok := c.schema.Properties[key]; ok {
		return prop.Type
	}
	return ""
}

// touch invalidates the derived view.
func (c *Controller) touch() {
	c.version++
}

func (c *Controller) notify(ctx context.Context, level types.NotificationLevel, key string, params map[string]any) {
	c.notifier.Notify(ctx, types.Notification{Level: level, Key: key, Params: params})
}

func (c *Controller) wrap(err error, op string, metadata map[string]any) error {
	meta := map[string]any{"table_id": c.tableID, "operation": op}
	for k, v := range metadata {
		meta[k] = v
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.WithMetadata(meta)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "records: "+op+" failed").
		WithCode(goerrors.CodeInternal).
		WithMetadata(meta)
}

func cloneRecords(src []types.Record) []types.Record {
	out := make([]types.Record, 0, len(src))
	for _, r := range src {
		out = append(out, r.Clone())
	}
	return out
}

func recordIDs(src []types.Record) []string {
	out := make([]string, 0, len(src))
	for _, r := range src {
		out = append(out, r.ID)
	}
	return out
}
