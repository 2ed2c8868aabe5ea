package records

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/views"
	"github.com/stretchr/testify/require"
)

func TestController_ScenarioNumberFilter(t *testing.T) {
	ctrl, _, _ := newTestController(t, []types.Record{
		{ID: "r1", Data: map[string]any{"amount": 150}},
		{ID: "r2", Data: map[string]any{"amount": 99.5}},
	}, staticView{settings: views.Settings{}})
	require.NoError(t, ctrl.Refresh(context.Background()))

	ctrl.SetColumnFilter("amount", 150)
	require.Equal(t, []string{"r1"}, ids(ctrl.View()))

	ctrl.SetColumnFilter("amount", 151)
	require.Empty(t, ctrl.View())

	ctrl.SetColumnFilter("amount", "99.5")
	require.Equal(t, []string{"r2"}, ids(ctrl.View()))

	ctrl.ClearColumnFilter("amount")
	require.Len(t, ctrl.View(), 2)
}

func TestMatchFilter_TypeDispatch(t *testing.T) {
	day := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name   string
		kind   types.PropertyType
		value  any
		filter any
		want   bool
	}{
		{"text substring ignores case", types.PropertyText, "Hello World", "wORL", true},
		{"text miss", types.PropertyEmail, "a@example.com", "zzz", false},
		{"number mismatch on text value", types.PropertyNumber, "abc", 1, false},
		{"date same day", types.PropertyDate, day, "2024-03-09", true},
		{"datetime other day", types.PropertyDateTime, "2024-03-10T01:00:00Z", day, false},
		{"checkbox string filter", types.PropertyCheckbox, true, "true", true},
		{"checkbox missing value is false", types.PropertyCheckbox, nil, false, true},
		{"select exact", types.PropertySelect, "open", "open", true},
		{"select no partial", types.PropertySelect, "opened", "open", false},
		{"multi select single", types.PropertyMultiSelect, []any{"a", "b"}, "b", true},
		{"multi select membership", types.PropertyMultiSelect, "c", []any{"a", "c"}, true},
		{"multi select miss", types.PropertyMultiSelect, []any{"x"}, []any{"a", "c"}, false},
		{"unknown type passes", types.PropertyType("rating"), 1, 5, true},
		{"empty filter passes", types.PropertyNumber, 3, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, matchFilter(tc.kind, tc.value, tc.filter))
		})
	}
}

func TestController_ViewIsPureAndStable(t *testing.T) {
	source := []types.Record{
		{ID: "r1", Data: map[string]any{"name": "cherry", "note": "x"}},
		{ID: "r2", Data: map[string]any{"note": "missing name"}},
		{ID: "r3", Data: map[string]any{"name": "apple", "note": "x"}},
		{ID: "r4", Data: map[string]any{"name": "Banana", "note": "y"}},
	}
	view := &staticView{settings: views.Settings{SortBy: "name", SortOrder: types.SortAsc}}
	ctrl, _, _ := newTestController(t, source, view)
	require.NoError(t, ctrl.Refresh(context.Background()))

	first := ctrl.View()
	second := ctrl.View()
	require.Equal(t, first, second)
	require.Equal(t, []string{"r2", "r3", "r4", "r1"}, ids(first))
	require.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(ctrl.Records()), "source order is untouched")

	view.settings.SortOrder = types.SortDesc
	require.Equal(t, []string{"r1", "r4", "r3", "r2"}, ids(ctrl.View()))

	ctrl.SetSearch("X")
	require.Equal(t, []string{"r1", "r3"}, ids(ctrl.View()))
	ctrl.SetColumnFilter("name", "app")
	require.Equal(t, []string{"r3"}, ids(ctrl.View()))
	require.Equal(t, []string{"r3"}, ids(ctrl.View()))

	ctrl.ClearFilters()
	require.Len(t, ctrl.View(), 4)
}

func TestController_SortsBySystemColumns(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	source := []types.Record{
		{ID: "r1", UpdatedAt: base.Add(time.Hour)},
		{ID: "r2", UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "r3", UpdatedAt: base},
	}
	ctrl, _, _ := newTestController(t, source, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.Equal(t, []string{"r2", "r1", "r3"}, ids(ctrl.View()), "fallback view sorts by _updatedAt desc")
}

func TestController_FilterExpression(t *testing.T) {
	ctx := context.Background()
	ctrl, _, notifier := newTestController(t, []types.Record{
		{ID: "r1", Data: map[string]any{"amount": 150, "status": "open"}},
		{ID: "r2", Data: map[string]any{"amount": 50, "status": "open"}},
		{ID: "r3", Data: map[string]any{"amount": 500, "status": "closed"}},
		{ID: "r4", Data: map[string]any{"status": "open"}},
	}, staticView{})
	require.NoError(t, ctrl.Refresh(ctx))

	require.NoError(t, ctrl.SetFilterExpression(ctx, `amount > 100 && status == "open"`))
	require.Equal(t, []string{"r1"}, ids(ctrl.View()))

	err := ctrl.SetFilterExpression(ctx, "amount >")
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.Equal(t, `amount > 100 && status == "open"`, ctrl.FilterExpression())
	require.Equal(t, []string{MsgInvalidFilter}, notifier.keys())

	require.NoError(t, ctrl.SetFilterExpression(ctx, `_id in ["r2", "r3"]`))
	require.Equal(t, []string{"r2", "r3"}, ids(ctrl.View()))

	require.NoError(t, ctrl.SetFilterExpression(ctx, ""))
	require.Len(t, ctrl.View(), 4)
}

func TestController_LoadPagination(t *testing.T) {
	ctx := context.Background()
	source := make([]types.Record, 0, 5)
	for i := 1; i <= 5; i++ {
		source = append(source, types.Record{ID: fmt.Sprintf("r%d", i)})
	}
	svc := &fakeService{records: source}
	ctrl, err := NewController(Config{TableID: "t1", Service: svc, PageSize: 2, Views: staticView{}})
	require.NoError(t, err)
	require.Equal(t, StatusIdle, ctrl.Status())

	require.NoError(t, ctrl.Refresh(ctx))
	require.Equal(t, StatusLoaded, ctrl.Status())
	require.True(t, ctrl.HasMore())
	require.NoError(t, ctrl.LoadMore(ctx))
	require.NoError(t, ctrl.LoadMore(ctx))
	require.False(t, ctrl.HasMore())
	require.Equal(t, 3, ctrl.CurrentPage())
	require.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, ids(ctrl.Records()))

	require.NoError(t, ctrl.LoadMore(ctx))
	require.Equal(t, 3, svc.listCalls)
}

func TestController_LoadFailureKeepsRecords(t *testing.T) {
	ctx := context.Background()
	ctrl, svc, notifier := newTestController(t, []types.Record{{ID: "r1"}}, staticView{})
	require.NoError(t, ctrl.Refresh(ctx))

	svc.listErr = errors.New("offline")
	require.Error(t, ctrl.Refresh(ctx))
	require.Equal(t, StatusError, ctrl.Status())
	require.EqualError(t, ctrl.Err(), "offline")
	require.Equal(t, []string{"r1"}, ids(ctrl.Records()))
	require.Equal(t, []string{MsgLoadError}, notifier.keys())
}

func TestController_LoadGuardWhileInFlight(t *testing.T) {
	ctx := context.Background()
	svc := &fakeService{records: []types.Record{{ID: "r1"}}, release: make(chan struct{})}
	ctrl, err := NewController(Config{TableID: "t1", Service: svc, Views: staticView{}})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(ctx) }()
	require.Eventually(t, func() bool { return ctrl.Status() == StatusLoading }, time.Second, time.Millisecond)

	require.NoError(t, ctrl.LoadRecords(ctx, 2, true))
	close(svc.release)
	require.NoError(t, <-done)
	require.Equal(t, 1, svc.calls())
	require.Equal(t, StatusLoaded, ctrl.Status())
}

func TestController_ScenarioDeleteSelected(t *testing.T) {
	ctx := context.Background()
	ctrl, _, notifier := newTestController(t, []types.Record{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}, staticView{})
	require.NoError(t, ctrl.Refresh(ctx))
	ctrl.ToggleSelection("r2")
	require.True(t, ctrl.IsSelected("r2"))

	require.NoError(t, ctrl.DeleteRecord(ctx, "r2"))
	require.Equal(t, []string{"r1", "r3"}, ids(ctrl.Records()))
	require.Equal(t, 2, ctrl.TotalCount())
	require.False(t, ctrl.IsSelected("r2"))
	require.Empty(t, ctrl.Selected())
	require.Equal(t, []string{MsgDeleted}, notifier.keys())
}

func TestController_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	ctrl, svc, notifier := newTestController(t, []types.Record{{ID: "r1", Data: map[string]any{"name": "a"}}}, staticView{})
	require.NoError(t, ctrl.Refresh(ctx))

	created, err := ctrl.CreateRecord(ctx, map[string]any{"name": "new"})
	require.NoError(t, err)
	require.Equal(t, []string{created.ID, "r1"}, ids(ctrl.Records()))
	require.Equal(t, 2, ctrl.TotalCount())

	_, err = ctrl.UpdateRecord(ctx, "r1", map[string]any{"name": "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", ctrl.Records()[1].Data["name"])

	svc.mutateErr = errors.New("rejected")
	_, err = ctrl.CreateRecord(ctx, map[string]any{"name": "bad"})
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryInternal, richErr.Category)
	require.Error(t, ctrl.DeleteRecord(ctx, "r1"))
	require.Len(t, ctrl.Records(), 2)
	require.Equal(t, 2, ctrl.TotalCount())
	require.Equal(t, []string{MsgCreated, MsgUpdated, MsgCreateError, MsgDeleteError}, notifier.keys())
}

func TestController_OnChangeFollowsSuccessfulMutations(t *testing.T) {
	ctx := context.Background()
	ctrl, svc, _ := newTestController(t, []types.Record{{ID: "r1"}, {ID: "r2"}}, staticView{})
	var changes []Change
	ctrl.OnChange(func(_ context.Context, change Change) {
		// The observer may read the controller.
		require.NotNil(t, ctrl.Records())
		changes = append(changes, change)
	})

	require.NoError(t, ctrl.Refresh(ctx))
	created, err := ctrl.CreateRecord(ctx, map[string]any{"name": "new"})
	require.NoError(t, err)
	require.NoError(t, ctrl.DeleteRecord(ctx, "r1"))
	ctrl.ToggleSelection("r2")
	_, err = ctrl.DeleteSelected(ctx)
	require.NoError(t, err)

	svc.mutateErr = errors.New("rejected")
	require.Error(t, ctrl.DeleteRecord(ctx, created.ID))
	ctrl.ApplySchema(ctx, types.Table{ID: "t1"})

	require.Equal(t, []Change{
		{Kind: ChangeLoaded, IDs: []string{"r1", "r2"}},
		{Kind: ChangeCreated, IDs: []string{created.ID}},
		{Kind: ChangeDeleted, Removed: []string{"r1"}},
		{Kind: ChangeDeleted, Removed: []string{"r2"}},
		{Kind: ChangeSchema},
	}, changes)

	ctrl.OnChange(nil)
	require.NoError(t, ctrl.Refresh(ctx))
	require.Len(t, changes, 5)
}

func TestController_BatchOperations(t *testing.T) {
	ctx := context.Background()
	ctrl, svc, notifier := newTestController(t, []types.Record{
		{ID: "r1", Data: map[string]any{"name": "a"}},
		{ID: "r2", Data: map[string]any{"name": "b"}},
		{ID: "r3", Data: map[string]any{"name": "c"}},
	}, staticView{})
	require.NoError(t, ctrl.Refresh(ctx))

	count, err := ctrl.DeleteSelected(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	require.Equal(t, []string{MsgNoSelection}, notifier.drain())

	ctrl.SelectAll()
	require.True(t, ctrl.AllSelected())
	ctrl.ToggleSelection("r3")
	require.True(t, ctrl.SomeSelected())
	ctrl.ToggleSelection("ghost")
	require.Equal(t, []string{"r1", "r2"}, ctrl.Selected())

	dups, err := ctrl.DuplicateSelected(ctx)
	require.NoError(t, err)
	require.Len(t, dups, 2)
	require.Equal(t, 5, ctrl.TotalCount())
	require.Equal(t, "a", ctrl.Records()[0].Data["name"])
	require.Equal(t, []string{MsgBatchDuplicated}, notifier.drain())

	svc.mutateErr = errors.New("batch failed")
	_, err = ctrl.DeleteSelected(ctx)
	require.Error(t, err)
	require.Len(t, ctrl.Records(), 5)
	require.Equal(t, []string{"r1", "r2"}, ctrl.Selected())
	require.Equal(t, []string{MsgBatchDeleteError}, notifier.drain())

	svc.mutateErr = nil
	count, err = ctrl.DeleteSelected(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, ctrl.Records(), 3)
	require.Equal(t, 3, ctrl.TotalCount())
	require.Empty(t, ctrl.Selected())
	require.False(t, ctrl.AllSelected())
	require.Equal(t, []string{MsgBatchDeleted}, notifier.drain())
}

func TestController_ExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	schema := &types.Table{ID: "t1", Properties: map[string]types.PropertyDefinition{
		"name":   {Key: "name", Type: types.PropertyText},
		"note":   {Key: "note", Type: types.PropertyLongText},
		"amount": {Key: "amount", Type: types.PropertyNumber},
	}, PropertyOrder: []string{"name", "note", "amount"}}
	source := []types.Record{
		{ID: "r1", Data: map[string]any{"name": "Smith, John", "note": `He said "hi"`, "amount": 12.5}},
		{ID: "r2", Data: map[string]any{"name": "plain", "note": "line\nbreak", "amount": 3}},
		{ID: "r3", Data: map[string]any{"name": "hidden by filter"}},
	}
	downloader := &recordingDownloader{}
	svc := &fakeService{records: source}
	notifier := &recordingNotifier{}
	ctrl, err := NewController(Config{
		TableID:    "t1",
		Service:    svc,
		Schema:     schema,
		Views:      staticView{settings: views.Settings{VisibleColumns: []string{"name", "note"}}},
		Downloader: downloader,
		Notifier:   notifier,
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.Refresh(ctx))
	ctrl.SetSearch("i")
	ctrl.SetColumnFilter("note", "e")

	require.NoError(t, ctrl.Export(ctx, "CSV"))
	require.Equal(t, "records-t1.csv", downloader.filename)
	require.Equal(t, "text/csv", downloader.mimeType)

	rows, err := csv.NewReader(bytes.NewReader(downloader.content)).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"name", "note"},
		{"Smith, John", `He said "hi"`},
		{"plain", "line\nbreak"},
	}, rows)
	require.Equal(t, []string{MsgExported}, notifier.keys())
	require.Equal(t, 2, notifier.last().Params["count"])

	require.NoError(t, ctrl.Export(ctx, "json"))
	require.Equal(t, MsgExportComingSoon, notifier.last().Key)
	require.Equal(t, "json", notifier.last().Params["format"])
}

func TestController_ExportMasksSensitiveProperties(t *testing.T) {
	ctx := context.Background()
	schema := &types.Table{ID: "t1", Properties: map[string]types.PropertyDefinition{
		"name":  {Key: "name", Type: types.PropertyText},
		"token": {Key: "token", Type: types.PropertyText, Config: map[string]any{"sensitive": true}},
	}, PropertyOrder: []string{"name", "token"}}
	downloader := &recordingDownloader{}
	ctrl, err := NewController(Config{
		TableID:    "t1",
		Service:    &fakeService{records: []types.Record{{ID: "r1", Data: map[string]any{"name": "ada", "token": "tok-123456789"}}}},
		Schema:     schema,
		Views:      staticView{},
		Downloader: downloader,
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.Export(ctx, "csv"))

	rows, err := csv.NewReader(bytes.NewReader(downloader.content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "ada", rows[1][0])
	require.NotEqual(t, "tok-123456789", rows[1][1])
	require.NotContains(t, rows[1][1], "123456789")
}

func TestController_ExportUsesPropertyMaskStrategy(t *testing.T) {
	ctx := context.Background()
	schema := &types.Table{ID: "t1", Properties: map[string]types.PropertyDefinition{
		"card": {Key: "card", Type: types.PropertyText, Config: map[string]any{"sensitive": true, MaskConfigKey: "preserveEnds(2,2)"}},
		"pin":  {Key: "pin", Type: types.PropertyText, Config: map[string]any{"sensitive": true, MaskConfigKey: "unknownStrategy"}},
	}, PropertyOrder: []string{"card", "pin"}}
	downloader := &recordingDownloader{}
	ctrl, err := NewController(Config{
		TableID:    "t1",
		Service:    &fakeService{records: []types.Record{{ID: "r1", Data: map[string]any{"card": "4111222233334444", "pin": "9876"}}}},
		Schema:     schema,
		Views:      staticView{},
		Downloader: downloader,
		Masker:     masker.Default,
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.Export(ctx, "csv"))

	rows, err := csv.NewReader(bytes.NewReader(downloader.content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, strings.HasPrefix(rows[1][0], "41"))
	require.True(t, strings.HasSuffix(rows[1][0], "44"))
	require.NotContains(t, rows[1][0], "22223333")
	require.Empty(t, rows[1][1])

	untouched, err := masker.Default.Mask(map[string]any{"card": "4111222233334444"})
	require.NoError(t, err)
	require.Equal(t, "4111222233334444", untouched.(map[string]any)["card"])
}

func TestController_ExportWithoutDownloader(t *testing.T) {
	ctrl, _, notifier := newTestController(t, nil, staticView{})
	err := ctrl.Export(context.Background(), "csv")
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, []string{MsgExportError}, notifier.keys())
}

func TestNewController_Validation(t *testing.T) {
	_, err := NewController(Config{Service: &fakeService{}})
	require.ErrorIs(t, err, types.ErrTableIDRequired)
	_, err = NewController(Config{TableID: "t1"})
	require.ErrorIs(t, err, types.ErrMissingTableService)
}

func newTestController(t *testing.T, source []types.Record, view ViewSource) (*Controller, *fakeService, *recordingNotifier) {
	t.Helper()
	svc := &fakeService{records: source}
	notifier := &recordingNotifier{}
	ctrl, err := NewController(Config{
		TableID:  "t1",
		Service:  svc,
		Views:    view,
		Notifier: notifier,
		Schema: &types.Table{ID: "t1", Properties: map[string]types.PropertyDefinition{
			"name":   {Key: "name", Type: types.PropertyText},
			"note":   {Key: "note", Type: types.PropertyText},
			"amount": {Key: "amount", Type: types.PropertyNumber},
			"status": {Key: "status", Type: types.PropertySelect},
		}},
	})
	require.NoError(t, err)
	return ctrl, svc, notifier
}

func ids(records []types.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

type staticView struct {
	settings views.Settings
}

func (s staticView) Active() views.Settings {
	return s.settings.Clone()
}

type fakeService struct {
	types.TableService

	mu        sync.Mutex
	records   []types.Record
	listErr   error
	mutateErr error
	listCalls int
	nextID    int
	release   chan struct{}
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeService) ListRecords(_ context.Context, _ string, params types.ListRecordsParams) (types.RecordPage, error) {
	f.mu.Lock()
	f.listCalls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if f.listErr != nil {
		return types.RecordPage{}, f.listErr
	}
	start := (params.Page - 1) * params.PageSize
	end := min(start+params.PageSize, len(f.records))
	if start > len(f.records) {
		start = len(f.records)
	}
	return types.RecordPage{Records: f.records[start:end], TotalCount: len(f.records)}, nil
}

func (f *fakeService) CreateRecord(_ context.Context, req types.CreateRecordRequest) (*types.Record, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.nextID++
	return &types.Record{ID: fmt.Sprintf("new-%d", f.nextID), TableID: req.TableID, Data: req.Data}, nil
}

func (f *fakeService) UpdateRecord(_ context.Context, id string, req types.UpdateRecordRequest) (*types.Record, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &types.Record{ID: id, Data: req.Data}, nil
}

func (f *fakeService) DeleteRecord(context.Context, string) error {
	return f.mutateErr
}

func (f *fakeService) CreateRecordsBatch(ctx context.Context, reqs []types.CreateRecordRequest) ([]types.Record, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	out := make([]types.Record, 0, len(reqs))
	for _, req := range reqs {
		created, _ := f.CreateRecord(ctx, req)
		out = append(out, *created)
	}
	return out, nil
}

func (f *fakeService) DeleteRecordsBatch(context.Context, []string) error {
	return f.mutateErr
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []types.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Key)
	}
	return out
}

func (r *recordingNotifier) drain() []string {
	out := r.keys()
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
	return out
}

func (r *recordingNotifier) last() types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return types.Notification{}
	}
	return r.items[len(r.items)-1]
}

type recordingDownloader struct {
	filename string
	mimeType string
	content  []byte
}

func (d *recordingDownloader) Download(_ context.Context, filename, mimeType string, content []byte) error {
	d.filename = filename
	d.mimeType = mimeType
	d.content = content
	return nil
}
