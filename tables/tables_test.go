package tables

import (
	"context"
	"errors"
	"sort"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestListController_LoadSearchCreate(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(
		types.Table{ID: "t1", WorkspaceID: "ws", Name: "Customers", Description: "CRM contacts"},
		types.Table{ID: "t2", WorkspaceID: "ws", Name: "Invoices"},
		types.Table{ID: "t3", WorkspaceID: "other", Name: "Hidden"},
	)
	notifier := &recordingNotifier{}
	list, err := NewListController("ws", Config{Service: svc, Notifier: notifier})
	require.NoError(t, err)

	require.NoError(t, list.Load(ctx))
	require.Len(t, list.Tables(), 2)
	require.Equal(t, []string{"t1"}, tableIDs(list.Search("crm")))
	require.Equal(t, []string{"t2"}, tableIDs(list.Search("VOICE")))
	require.Len(t, list.Search("  "), 2)

	created, err := list.Create(ctx, types.CreateTableRequest{Name: "Orders"})
	require.NoError(t, err)
	require.Equal(t, "ws", created.WorkspaceID)
	require.Equal(t, created.ID, list.Tables()[0].ID)
	require.Equal(t, []string{MsgCreated}, notifier.keys)

	_, err = list.Create(ctx, types.CreateTableRequest{})
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)

	svc.listErr = errors.New("offline")
	require.Error(t, list.Load(ctx))
	require.Len(t, list.Tables(), 3, "failed reload keeps tables")
	require.Equal(t, MsgLoadError, notifier.keys[len(notifier.keys)-1])
}

func TestListController_BatchDeleteIsBestEffort(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(
		types.Table{ID: "t1", WorkspaceID: "ws"},
		types.Table{ID: "t2", WorkspaceID: "ws"},
		types.Table{ID: "t3", WorkspaceID: "ws"},
	)
	svc.deleteErr = map[string]error{"t2": errors.New("locked")}
	notifier := &recordingNotifier{}
	list, err := NewListController("ws", Config{Service: svc, Notifier: notifier})
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))

	result := list.BatchDelete(ctx, []string{"t1", "t2", "t3"})
	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 1, result.Failed())
	require.Equal(t, []string{"t2"}, tableIDs(list.Tables()))
	require.Equal(t, []string{MsgBatchDeletePartial}, notifier.keys)
	require.Equal(t, 1, notifier.items[0].Params["failed"])

	notifier.reset()
	result = list.BatchDelete(ctx, []string{"t2"})
	require.Zero(t, result.Succeeded)
	require.Equal(t, []string{MsgBatchDeleteError}, notifier.keys)

	notifier.reset()
	svc.deleteErr = nil
	result = list.BatchDelete(ctx, []string{"t2"})
	require.Equal(t, 1, result.Succeeded)
	require.Empty(t, list.Tables())
	require.Equal(t, []string{MsgBatchDeleted}, notifier.keys)
}

func TestDetailController_Properties(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(types.Table{ID: "t1", Name: "Customers", Properties: map[string]types.PropertyDefinition{
		"name": {Key: "name", Type: types.PropertyText},
	}})
	notifier := &recordingNotifier{}
	detail, err := NewDetailController(Config{Service: svc, Notifier: notifier})
	require.NoError(t, err)

	_, err = detail.AddProperty(ctx, types.PropertyDefinition{Key: "amount", Type: types.PropertyNumber})
	require.ErrorIs(t, err, ErrTableNotLoaded)

	_, err = detail.Load(ctx, "t1")
	require.NoError(t, err)

	_, err = detail.AddProperty(ctx, types.PropertyDefinition{Key: "amount", Type: types.PropertyNumber})
	require.NoError(t, err)
	require.Equal(t, []string{"amount", "name"}, propertyKeys(detail.Properties()))

	label := "Total"
	_, err = detail.UpdateProperty(ctx, "amount", types.PropertyPatch{DisplayName: &label})
	require.NoError(t, err)
	require.Equal(t, "Total", detail.Table().Properties["amount"].DisplayName)

	_, err = detail.RemoveProperty(ctx, "name")
	require.NoError(t, err)
	require.Equal(t, []string{"amount"}, propertyKeys(detail.Properties()))

	renamed, err := detail.Rename(ctx, "Clients")
	require.NoError(t, err)
	require.Equal(t, "Clients", renamed.Name)

	svc.propertyErr = errors.New("conflict")
	_, err = detail.RemoveProperty(ctx, "amount")
	require.Error(t, err)
	require.Equal(t, []string{"amount"}, propertyKeys(detail.Properties()))
	require.Equal(t, []string{
		MsgPropertyAdded, MsgPropertyUpdated, MsgPropertyRemoved, MsgRenamed, MsgPropertyError,
	}, notifier.keys)
}

func TestDetailController_OnSchemaChange(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(types.Table{ID: "t1", Name: "Customers", Properties: map[string]types.PropertyDefinition{
		"name": {Key: "name", Type: types.PropertyText},
	}})
	detail, err := NewDetailController(Config{Service: svc})
	require.NoError(t, err)
	_, err = detail.Load(ctx, "t1")
	require.NoError(t, err)

	var seen [][]string
	detail.OnSchemaChange(func(_ context.Context, table types.Table) {
		keys := make([]string, 0, len(table.Properties))
		for key := range table.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		seen = append(seen, keys)
	})

	_, err = detail.AddProperty(ctx, types.PropertyDefinition{Key: "amount", Type: types.PropertyNumber})
	require.NoError(t, err)
	_, err = detail.RemoveProperty(ctx, "name")
	require.NoError(t, err)
	_, err = detail.Rename(ctx, "Clients")
	require.NoError(t, err)

	svc.propertyErr = errors.New("conflict")
	_, err = detail.RemoveProperty(ctx, "amount")
	require.Error(t, err)

	require.Equal(t, [][]string{{"amount", "name"}, {"amount"}}, seen)
}

func TestNewControllers_RequireService(t *testing.T) {
	_, err := NewListController("ws", Config{})
	require.ErrorIs(t, err, types.ErrMissingTableService)
	_, err = NewDetailController(Config{})
	require.ErrorIs(t, err, types.ErrMissingTableService)
}

func tableIDs(tables []types.Table) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.ID)
	}
	return out
}

func propertyKeys(props []types.PropertyDefinition) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.Key)
	}
	return out
}

type fakeService struct {
	types.TableService

	tables      map[string]types.Table
	order       []string
	listErr     error
	deleteErr   map[string]error
	propertyErr error
}

func newFakeService(tables ...types.Table) *fakeService {
	svc := &fakeService{tables: map[string]types.Table{}}
	for _, t := range tables {
		svc.tables[t.ID] = t
		svc.order = append(svc.order, t.ID)
	}
	return svc
}

func (f *fakeService) ListTables(_ context.Context, workspaceID string) ([]types.Table, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []types.Table
	for _, id := range f.order {
		if t, ok := f.tables[id]; ok && t.WorkspaceID == workspaceID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeService) GetTable(_ context.Context, id string) (*types.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &t, nil
}

func (f *fakeService) CreateTable(_ context.Context, req types.CreateTableRequest) (*types.Table, error) {
	t := types.Table{ID: "new-" + req.Name, WorkspaceID: req.WorkspaceID, Name: req.Name}
	f.tables[t.ID] = t
	f.order = append(f.order, t.ID)
	return &t, nil
}

func (f *fakeService) UpdateTable(_ context.Context, id string, req types.UpdateTableRequest) (*types.Table, error) {
	t := f.tables[id]
	if req.Name != nil {
		t.Name = *req.Name
	}
	f.tables[id] = t
	return &t, nil
}

func (f *fakeService) DeleteTable(_ context.Context, id string) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	delete(f.tables, id)
	return nil
}

func (f *fakeService) AddProperty(_ context.Context, tableID string, def types.PropertyDefinition) (*types.Table, error) {
	return f.mutateProperties(tableID, func(props map[string]types.PropertyDefinition) {
		props[def.Key] = def
	})
}

func (f *fakeService) UpdateProperty(_ context.Context, tableID, key string, patch types.PropertyPatch) (*types.Table, error) {
	return f.mutateProperties(tableID, func(props map[string]types.PropertyDefinition) {
		prop := props[key]
		if patch.DisplayName != nil {
			prop.DisplayName = *patch.DisplayName
		}
		props[key] = prop
	})
}

func (f *fakeService) RemoveProperty(_ context.Context, tableID, key string) (*types.Table, error) {
	return f.mutateProperties(tableID, func(props map[string]types.PropertyDefinition) {
		delete(props, key)
	})
}

func (f *fakeService) mutateProperties(tableID string, fn func(map[string]types.PropertyDefinition)) (*types.Table, error) {
	if f.propertyErr != nil {
		return nil, f.propertyErr
	}
	t := f.tables[tableID]
	props := make(map[string]types.PropertyDefinition, len(t.Properties))
	for k, v := range t.Properties {
		props[k] = v
	}
	fn(props)
	t.Properties = props
	f.tables[tableID] = t
	return &t, nil
}

type recordingNotifier struct {
	items []types.Notification
	keys  []string
}

func (r *recordingNotifier) Notify(_ context.Context, n types.Notification) {
	r.items = append(r.items, n)
	r.keys = append(r.keys, n.Key)
}

func (r *recordingNotifier) reset() {
	r.items = nil
	r.keys = nil
}
