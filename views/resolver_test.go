package views

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestResolver_SortByCopyOnWrite(t *testing.T) {
	ctx := context.Background()
	resolver, store, _ := newTestResolver(t)
	table := types.Table{ID: "t1", Settings: map[string]any{
		DefaultViewKey: map[string]any{"sortBy": "_updatedAt", "sortOrder": "desc"},
	}}
	require.NoError(t, resolver.Load(ctx, table))
	require.True(t, resolver.Preferences().UseDefault)

	require.NoError(t, resolver.SetSortBy(ctx, "name"))
	prefs := resolver.Preferences()
	require.False(t, prefs.UseDefault)
	require.NotNil(t, prefs.CustomSettings)
	require.Equal(t, "name", prefs.CustomSettings.SortBy)
	require.Equal(t, types.SortAsc, prefs.CustomSettings.SortOrder)

	require.NoError(t, resolver.SetSortBy(ctx, "name"))
	require.Equal(t, types.SortDesc, resolver.Active().SortOrder)

	persisted := store.values[PreferencesKey("t1")]
	require.Equal(t, false, persisted["useDefault"])
}

func TestResolver_VisibilityToggleMaterializesActiveSettings(t *testing.T) {
	ctx := context.Background()
	resolver, _, notifier := newTestResolver(t)
	table := types.Table{ID: "t1", Settings: map[string]any{
		DefaultViewKey: map[string]any{"sortBy": "amount", "sortOrder": "asc", "density": "compact", "showSystemColumns": true},
	}}
	require.NoError(t, resolver.Load(ctx, table))
	before := resolver.Active()
	schema := []string{"name", "amount", "status"}

	require.NoError(t, resolver.ToggleColumnVisibility(ctx, "amount", schema))
	prefs := resolver.Preferences()
	require.False(t, prefs.UseDefault)

	expected := before.Clone()
	expected.VisibleColumns = []string{"name", "status"}
	require.Equal(t, expected, *prefs.CustomSettings)
	require.Equal(t, []string{"name", "status", types.SystemColumnCreatedAt, types.SystemColumnUpdatedAt}, resolver.VisibleColumns(schema))

	require.NoError(t, resolver.ToggleColumnVisibility(ctx, "amount", schema))
	require.Equal(t, []string{"name", "status", "amount"}, resolver.Active().VisibleColumns)

	require.NoError(t, resolver.ResetToDefault(ctx))
	prefs = resolver.Preferences()
	require.True(t, prefs.UseDefault)
	require.Nil(t, prefs.CustomSettings)
	require.Equal(t, before, resolver.Active())
	require.Equal(t, []string{MsgViewUpdated, MsgViewUpdated, MsgViewReset}, notifier.keys)
}

func TestResolver_EachMutationNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	resolver, _, notifier := newTestResolver(t)
	require.NoError(t, resolver.Load(ctx, types.Table{ID: "t1"}))

	require.NoError(t, resolver.SetSortBy(ctx, "name"))
	require.NoError(t, resolver.SetSortOrder(ctx, types.SortDesc))
	require.NoError(t, resolver.SetDensity(ctx, DensityCompact))
	require.NoError(t, resolver.SetShowSystemColumns(ctx, true))
	require.NoError(t, resolver.ToggleColumnVisibility(ctx, "name", []string{"name", "amount"}))

	require.Equal(t, []string{MsgViewUpdated, MsgViewUpdated, MsgViewUpdated, MsgViewUpdated, MsgViewUpdated}, notifier.keys)
	fields := make([]any, 0, len(notifier.params))
	for _, params := range notifier.params {
		fields = append(fields, params["field"])
	}
	require.Equal(t, []any{"sortBy", "sortOrder", "density", "showSystemColumns", "visibleColumns"}, fields)

	require.Error(t, resolver.SetSortOrder(ctx, types.SortOrder("sideways")))
	require.Len(t, notifier.keys, 5)
}

func TestResolver_CustomSettingsReplaceTableDefault(t *testing.T) {
	ctx := context.Background()
	resolver, store, _ := newTestResolver(t)
	store.values[PreferencesKey("t1")] = map[string]any{
		"useDefault":     false,
		"customSettings": map[string]any{"sortBy": "name", "sortOrder": "asc"},
	}
	table := types.Table{ID: "t1", Settings: map[string]any{
		DefaultViewKey: map[string]any{"density": "comfortable", "visibleColumns": []any{"name"}},
	}}
	require.NoError(t, resolver.Load(ctx, table))

	active := resolver.Active()
	require.Equal(t, "name", active.SortBy)
	require.Equal(t, types.SortAsc, active.SortOrder)
	require.Equal(t, DensityNormal, active.Density, "table default fields are not merged into the override")
	require.Nil(t, active.VisibleColumns)

	tableDefault := resolver.TableDefault()
	require.Equal(t, DensityComfortable, tableDefault.Density)
	require.Equal(t, []string{"name"}, tableDefault.VisibleColumns)
	require.Equal(t, types.SystemColumnUpdatedAt, tableDefault.SortBy)
}

func TestResolver_MalformedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name     string
		view     any
		persist  map[string]any
		expected Settings
	}{
		{
			name:     "non object default",
			view:     42,
			expected: FallbackSettings(),
		},
		{
			name:     "invalid json string",
			view:     "{not json",
			expected: FallbackSettings(),
		},
		{
			name: "json string default with bad density",
			view: `{"sortBy":"name","density":"huge"}`,
			expected: Settings{
				SortBy:    "name",
				SortOrder: types.SortDesc,
				Density:   DensityNormal,
			},
		},
		{
			name:     "malformed preferences",
			view:     map[string]any{"sortBy": nil},
			persist:  map[string]any{"useDefault": "nope"},
			expected: Settings{SortBy: "", SortOrder: types.SortDesc, Density: DensityNormal},
		},
		{
			name:     "override without settings",
			persist:  map[string]any{"useDefault": false},
			expected: FallbackSettings(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver, store, _ := newTestResolver(t)
			if tc.persist != nil {
				store.values[PreferencesKey("t1")] = tc.persist
			}
			table := types.Table{ID: "t1"}
			if tc.view != nil {
				table.Settings = map[string]any{DefaultViewKey: tc.view}
			}
			require.NoError(t, resolver.Load(ctx, table))
			require.Equal(t, tc.expected, resolver.Active())
			require.True(t, resolver.Preferences().UseDefault)
		})
	}
}

func TestResolver_PersistedOverrideSurvivesReload(t *testing.T) {
	ctx := context.Background()
	resolver, store, _ := newTestResolver(t)
	require.NoError(t, resolver.Load(ctx, types.Table{ID: "t1"}))
	require.NoError(t, resolver.SetDensity(ctx, DensityCompact))
	require.NoError(t, resolver.ToggleColumnVisibility(ctx, "a", []string{"a"}))
	require.NoError(t, resolver.SetShowSystemColumns(ctx, true))
	require.NoError(t, resolver.SetSortOrder(ctx, types.SortAsc))

	reloaded, err := NewResolver(Config{TableID: "t1", Store: store})
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(ctx, types.Table{ID: "t1"}))
	active := reloaded.Active()
	require.Equal(t, DensityCompact, active.Density)
	require.Equal(t, []string{}, active.VisibleColumns, "hiding every column survives a reload")
	require.True(t, active.ShowSystemColumns)
	require.Equal(t, types.SortAsc, active.SortOrder)
	require.Equal(t, []string{types.SystemColumnCreatedAt, types.SystemColumnUpdatedAt}, reloaded.VisibleColumns([]string{"a"}))
}

func TestResolver_ValidationAndStoreErrors(t *testing.T) {
	ctx := context.Background()
	resolver, store, notifier := newTestResolver(t)
	require.NoError(t, resolver.Load(ctx, types.Table{ID: "t1"}))

	err := resolver.SetDensity(ctx, Density("huge"))
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.True(t, resolver.Preferences().UseDefault)

	store.setErr = errors.New("disk full")
	err = resolver.SetSortBy(ctx, "name")
	require.Error(t, err)
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryInternal, richErr.Category)
	require.Equal(t, []string{MsgViewSaveError}, notifier.keys)
	require.Equal(t, "name", resolver.Active().SortBy, "mutation stays live")

	store.getErr = errors.New("offline")
	require.Error(t, resolver.Load(ctx, types.Table{ID: "t1"}))

	_, err = NewResolver(Config{})
	require.ErrorIs(t, err, types.ErrTableIDRequired)
}

func TestResolveVisibleColumns(t *testing.T) {
	schema := []string{"a", "b", "c"}
	require.Equal(t, schema, ResolveVisibleColumns(Settings{}, schema))
	require.Equal(t, []string{"c", "a"}, ResolveVisibleColumns(Settings{VisibleColumns: []string{"c", "ghost", "a", "c"}}, schema))
	require.Equal(t,
		[]string{"a", "b", "c", types.SystemColumnCreatedAt, types.SystemColumnUpdatedAt},
		ResolveVisibleColumns(Settings{ShowSystemColumns: true}, schema))
}

func newTestResolver(t *testing.T) (*Resolver, *memoryStore, *recordingNotifier) {
	t.Helper()
	store := &memoryStore{values: map[string]map[string]any{}}
	notifier := &recordingNotifier{}
	resolver, err := NewResolver(Config{TableID: "t1", Store: store, Notifier: notifier})
	require.NoError(t, err)
	return resolver, store, notifier
}

type memoryStore struct {
	values map[string]map[string]any
	getErr error
	setErr error
}

func (m *memoryStore) Get(_ context.Context, key string) (map[string]any, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value map[string]any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type recordingNotifier struct {
	keys   []string
	params []map[string]any
}

func (r *recordingNotifier) Notify(_ context.Context, n types.Notification) {
	r.keys = append(r.keys, n.Key)
	r.params = append(r.params, n.Params)
}
