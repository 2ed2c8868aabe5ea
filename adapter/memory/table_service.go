package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
)

// TableService is an in-memory types.TableService for demos, tests and
// hosts without a remote API. Records keep insertion order unless a sort is
// requested.
type TableService struct {
	mu sync.RWMutex

	ids   types.IDGenerator
	clock types.Clock

	tables  map[string]*types.Table
	records map[string][]types.Record
	owner   map[string]string
	failing map[string]error
}

// Option customizes the service.
type Option func(*TableService)

// WithIDGenerator overrides the UUID source.
func WithIDGenerator(ids types.IDGenerator) Option {
	return func(s *TableService) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock types.Clock) Option {
	return func(s *TableService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewTableService provisions an empty service.
func NewTableService(opts ...Option) *TableService {
	s := &TableService{
		ids:     types.UUIDGenerator{},
		clock:   types.SystemClock{},
		tables:  make(map[string]*types.Table),
		records: make(map[string][]types.Record),
		owner:   make(map[string]string),
		failing: make(map[string]error),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ types.TableService = (*TableService)(nil)

// FailNext makes the next call of the named method return err.
func (s *TableService) FailNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[method] = err
}

func (s *TableService) injected(method string) error {
	err, ok := s.failing[method]
	if !ok {
		return nil
	}
	delete(s.failing, method)
	return err
}

func tableNotFound(id string) error {
	return goerrors.New("memory: table not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"table_id": id})
}

func recordNotFound(id string) error {
	return goerrors.New("memory: record not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"record_id": id})
}

// GetTable implements types.TableService.
func (s *TableService) GetTable(_ context.Context, id string) (*types.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetTable"); err != nil {
		return nil, err
	}
	table, ok := s.tables[id]
	if !ok {
		return nil, tableNotFound(id)
	}
	out := s.snapshotLocked(table)
	return &out, nil
}

// ListTables implements types.TableService. An empty workspace lists every
// table.
func (s *TableService) ListTables(_ context.Context, workspaceID string) ([]types.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListTables"); err != nil {
		return nil, err
	}
	out := make([]types.Table, 0, len(s.tables))
	for _, table := range s.tables {
		if workspaceID != "" && table.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, s.snapshotLocked(table))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateTable implements types.TableService.
func (s *TableService) CreateTable(_ context.Context, req types.CreateTableRequest) (*types.Table, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, goerrors.New("memory: table name required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateTable"); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	table := &types.Table{
		ID:          s.ids.UUID().String(),
		WorkspaceID: req.WorkspaceID,
		Name:        name,
		Description: req.Description,
		Properties:  make(map[string]types.PropertyDefinition, len(req.Properties)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	keys := make([]string, 0, len(req.Properties))
	for key, prop := range req.Properties {
		prop.Key = key
		table.Properties[key] = prop
		keys = append(keys, key)
	}
	sort.Strings(keys)
	table.PropertyOrder = keys
	s.tables[table.ID] = table
	out := s.snapshotLocked(table)
	return &out, nil
}

// UpdateTable implements types.TableService.
func (s *TableService) UpdateTable(_ context.Context, id string, req types.UpdateTableRequest) (*types.Table, error) {
	return s.mutateTable("UpdateTable", id, func(table *types.Table) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return goerrors.New("memory: table name required", goerrors.CategoryValidation).
					WithCode(goerrors.CodeBadRequest)
			}
			table.Name = name
		}
		if req.Description != nil {
			table.Description = *req.Description
		}
		if req.PropertyOrder != nil {
			table.PropertyOrder = slices.Clone(req.PropertyOrder)
		}
		if req.Settings != nil {
			if table.Settings == nil {
				table.Settings = make(map[string]any, len(req.Settings))
			}
			for k, v := range req.Settings {
				table.Settings[k] = v
			}
		}
		return nil
	})
}

// DeleteTable implements types.TableService.
func (s *TableService) DeleteTable(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteTable"); err != nil {
		return err
	}
	if _, ok := s.tables[id]; !ok {
		return tableNotFound(id)
	}
	for _, rec := range s.records[id] {
		delete(s.owner, rec.ID)
	}
	delete(s.records, id)
	delete(s.tables, id)
	return nil
}

// AddProperty implements types.TableService.
func (s *TableService) AddProperty(_ context.Context, tableID string, def types.PropertyDefinition) (*types.Table, error) {
	return s.mutateTable("AddProperty", tableID, func(table *types.Table) error {
		if _, exists := table.Properties[def.Key]; exists {
			return goerrors.New("memory: property exists", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest).
				WithMetadata(map[string]any{"property": def.Key})
		}
		if table.Properties == nil {
			table.Properties = make(map[string]types.PropertyDefinition)
		}
		table.Properties[def.Key] = def
		table.PropertyOrder = append(table.PropertyOrder, def.Key)
		return nil
	})
}

// UpdateProperty implements types.TableService.
func (s *TableService) UpdateProperty(_ context.Context, tableID, key string, patch types.PropertyPatch) (*types.Table, error) {
	return s.mutateTable("UpdateProperty", tableID, func(table *types.Table) error {
		prop, ok := table.Properties[key]
		if !ok {
			return propertyNotFound(key)
		}
		if patch.DisplayName != nil {
			prop.DisplayName = *patch.DisplayName
		}
		if patch.Required != nil {
			prop.Required = *patch.Required
		}
		if patch.Config != nil {
			prop.Config = cloneData(patch.Config)
		}
		table.Properties[key] = prop
		return nil
	})
}

// RemoveProperty implements types.TableService. Stored record values of the
// property are left in place.
func (s *TableService) RemoveProperty(_ context.Context, tableID, key string) (*types.Table, error) {
	return s.mutateTable("RemoveProperty", tableID, func(table *types.Table) error {
		if _, ok := table.Properties[key]; !ok {
			return propertyNotFound(key)
		}
		delete(table.Properties, key)
		table.PropertyOrder = slices.DeleteFunc(table.PropertyOrder, func(k string) bool { return k == key })
		return nil
	})
}

func propertyNotFound(key string) error {
	return goerrors.New("memory: property not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"property": key})
}

func (s *TableService) mutateTable(method, id string, fn func(*types.Table) error) (*types.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(method); err != nil {
		return nil, err
	}
	table, ok := s.tables[id]
	if !ok {
		return nil, tableNotFound(id)
	}
	next := cloneTable(*table)
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.clock.Now()
	s.tables[id] = &next
	out := s.snapshotLocked(&next)
	return &out, nil
}

// ListRecords implements types.TableService. Filter is a case-insensitive
// substring matched against every data value.
func (s *TableService) ListRecords(_ context.Context, tableID string, params types.ListRecordsParams) (types.RecordPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListRecords"); err != nil {
		return types.RecordPage{}, err
	}
	if _, ok := s.tables[tableID]; !ok {
		return types.RecordPage{}, tableNotFound(tableID)
	}
	matched := make([]types.Record, 0, len(s.records[tableID]))
	needle := strings.ToLower(strings.TrimSpace(params.Filter))
	for _, rec := range s.records[tableID] {
		if needle != "" && !containsValue(rec, needle) {
			continue
		}
		matched = append(matched, rec.Clone())
	}
	if params.SortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a := fmt.Sprint(matched[i].Field(params.SortBy))
			b := fmt.Sprint(matched[j].Field(params.SortBy))
			if params.SortOrder == types.SortDesc {
				return a > b
			}
			return a < b
		})
	}

	size := params.PageSize
	if size <= 0 {
		size = 50
	}
	page := max(params.Page, 1)
	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))
	return types.RecordPage{Records: matched[start:end], TotalCount: len(matched)}, nil
}

func containsValue(rec types.Record, needle string) bool {
	for _, v := range rec.Data {
		if v != nil && strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

// CreateRecord implements types.TableService.
func (s *TableService) CreateRecord(_ context.Context, req types.CreateRecordRequest) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateRecord"); err != nil {
		return nil, err
	}
	rec, err := s.createLocked(req)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *TableService) createLocked(req types.CreateRecordRequest) (types.Record, error) {
	if _, ok := s.tables[req.TableID]; !ok {
		return types.Record{}, tableNotFound(req.TableID)
	}
	now := s.clock.Now()
	rec := types.Record{
		ID:        s.ids.UUID().String(),
		TableID:   req.TableID,
		Data:      cloneData(req.Data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[req.TableID] = append(s.records[req.TableID], rec)
	s.owner[rec.ID] = req.TableID
	return rec.Clone(), nil
}

// UpdateRecord implements types.TableService.
func (s *TableService) UpdateRecord(_ context.Context, id string, req types.UpdateRecordRequest) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateRecord"); err != nil {
		return nil, err
	}
	tableID, idx, ok := s.locateLocked(id)
	if !ok {
		return nil, recordNotFound(id)
	}
	rec := s.records[tableID][idx]
	rec.Data = cloneData(req.Data)
	rec.UpdatedAt = s.clock.Now()
	s.records[tableID][idx] = rec
	out := rec.Clone()
	return &out, nil
}

// DeleteRecord implements types.TableService.
func (s *TableService) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteRecord"); err != nil {
		return err
	}
	if _, _, ok := s.locateLocked(id); !ok {
		return recordNotFound(id)
	}
	s.removeLocked(id)
	return nil
}

// CreateRecordsBatch implements types.TableService. The batch is
// all-or-nothing.
func (s *TableService) CreateRecordsBatch(_ context.Context, reqs []types.CreateRecordRequest) ([]types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateRecordsBatch"); err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if _, ok := s.tables[req.TableID]; !ok {
			return nil, tableNotFound(req.TableID)
		}
	}
	out := make([]types.Record, 0, len(reqs))
	for _, req := range reqs {
		rec, err := s.createLocked(req)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteRecordsBatch implements types.TableService. Unknown IDs fail the
// whole batch before anything is removed.
func (s *TableService) DeleteRecordsBatch(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteRecordsBatch"); err != nil {
		return err
	}
	for _, id := range ids {
		if _, _, ok := s.locateLocked(id); !ok {
			return recordNotFound(id)
		}
	}
	for _, id := range ids {
		s.removeLocked(id)
	}
	return nil
}

func (s *TableService) locateLocked(id string) (string, int, bool) {
	tableID, ok := s.owner[id]
	if !ok {
		return "", -1, false
	}
	idx := slices.IndexFunc(s.records[tableID], func(rec types.Record) bool { return rec.ID == id })
	return tableID, idx, idx >= 0
}

func (s *TableService) removeLocked(id string) {
	tableID := s.owner[id]
	s.records[tableID] = slices.DeleteFunc(s.records[tableID], func(rec types.Record) bool { return rec.ID == id })
	delete(s.owner, id)
}

func (s *TableService) snapshotLocked(table *types.Table) types.Table {
	out := cloneTable(*table)
	out.RecordCount = len(s.records[table.ID])
	return out
}

func cloneTable(t types.Table) types.Table {
	out := t
	out.PropertyOrder = slices.Clone(t.PropertyOrder)
	if t.Properties != nil {
		out.Properties = make(map[string]types.PropertyDefinition, len(t.Properties))
		for k, v := range t.Properties {
			v.Config = cloneData(v.Config)
			out.Properties[k] = v
		}
	}
	out.Settings = cloneData(t.Settings)
	return out
}

func cloneData(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
