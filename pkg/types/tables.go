package types

import (
	"context"
	"sort"
	"time"
)

// PropertyType identifies how a dynamic property value is interpreted.
type PropertyType string

const (
	PropertyText        PropertyType = "text"
	PropertyLongText    PropertyType = "long_text"
	PropertyEmail       PropertyType = "email"
	PropertyURL         PropertyType = "url"
	PropertyNumber      PropertyType = "number"
	PropertyDate        PropertyType = "date"
	PropertyDateTime    PropertyType = "datetime"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
)

// SortOrder is the direction of a single-key sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Toggle flips the sort direction.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// System column keys read from record metadata instead of the data map.
const (
	SystemColumnID        = "_id"
	SystemColumnCreatedAt = "_createdAt"
	SystemColumnUpdatedAt = "_updatedAt"
)

// SystemColumns lists the metadata columns that can be toggled into a view.
var SystemColumns = []string{SystemColumnCreatedAt, SystemColumnUpdatedAt}

// PropertyDefinition describes a column of a dynamic table. Properties are
// defined by the server and never hardcoded.
type PropertyDefinition struct {
	Key         string         `json:"key"`
	Type        PropertyType   `json:"type"`
	DisplayName string         `json:"displayName"`
	Required    bool           `json:"required"`
	Config      map[string]any `json:"config,omitempty"`
}

// Sensitive reports whether the property is flagged for masking on export.
func (p PropertyDefinition) Sensitive() bool {
	if len(p.Config) == 0 {
		return false
	}
	flag, _ := p.Config["sensitive"].(bool)
	return flag
}

// Table is the server-side table definition.
type Table struct {
	ID            string                        `json:"id"`
	WorkspaceID   string                        `json:"workspaceId"`
	Name          string                        `json:"name"`
	Description   string                        `json:"description,omitempty"`
	Properties    map[string]PropertyDefinition `json:"properties"`
	PropertyOrder []string                      `json:"propertyOrder,omitempty"`
	Settings      map[string]any                `json:"settings,omitempty"`
	RecordCount   int                           `json:"recordCount"`
	CreatedAt     time.Time                     `json:"createdAt"`
	UpdatedAt     time.Time                     `json:"updatedAt"`
}

// OrderedProperties returns the table properties honoring PropertyOrder and
// appending any remaining keys in lexical order.
func (t Table) OrderedProperties() []PropertyDefinition {
	out := make([]PropertyDefinition, 0, len(t.Properties))
	seen := make(map[string]struct{}, len(t.Properties))
	for _, key := range t.PropertyOrder {
		prop, ok := t.Properties[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if prop.Key == "" {
			prop.Key = key
		}
		seen[key] = struct{}{}
		out = append(out, prop)
	}
	rest := make([]string, 0, len(t.Properties))
	for key := range t.Properties {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		prop := t.Properties[key]
		if prop.Key == "" {
			prop.Key = key
		}
		out = append(out, prop)
	}
	return out
}

// Record is a row of a dynamic table.
type Record struct {
	ID        string         `json:"id"`
	TableID   string         `json:"tableId"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Clone returns a copy of the record with a detached data map.
func (r Record) Clone() Record {
	out := r
	if r.Data != nil {
		out.Data = make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			out.Data[k] = v
		}
	}
	return out
}

// Field returns the value stored under key. Keys with a leading underscore
// address record metadata rather than the dynamic data map.
func (r Record) Field(key string) any {
	switch key {
	case SystemColumnID:
		return r.ID
	case SystemColumnCreatedAt:
		return r.CreatedAt
	case SystemColumnUpdatedAt:
		return r.UpdatedAt
	}
	if len(key) > 0 && key[0] == '_' {
		return nil
	}
	if r.Data == nil {
		return nil
	}
	return r.Data[key]
}

// CreateTableRequest describes a new table.
type CreateTableRequest struct {
	WorkspaceID string                        `json:"workspaceId"`
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Properties  map[string]PropertyDefinition `json:"properties,omitempty"`
}

// UpdateTableRequest is a partial table update; nil fields are untouched.
type UpdateTableRequest struct {
	Name          *string        `json:"name,omitempty"`
	Description   *string        `json:"description,omitempty"`
	PropertyOrder []string       `json:"propertyOrder,omitempty"`
	Settings      map[string]any `json:"settings,omitempty"`
}

// PropertyPatch is a partial property update; nil fields are untouched.
type PropertyPatch struct {
	DisplayName *string        `json:"displayName,omitempty"`
	Required    *bool          `json:"required,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ListRecordsParams controls a paginated record fetch.
type ListRecordsParams struct {
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
	SortBy    string    `json:"sortBy,omitempty"`
	SortOrder SortOrder `json:"sortOrder,omitempty"`
	Filter    string    `json:"filter,omitempty"`
}

// RecordPage is a page of records plus the total available.
type RecordPage struct {
	Records    []Record `json:"records"`
	TotalCount int      `json:"totalCount"`
}

// CreateRecordRequest describes a new record.
type CreateRecordRequest struct {
	TableID string         `json:"tableId"`
	Data    map[string]any `json:"data"`
}

// UpdateRecordRequest replaces a record's data.
type UpdateRecordRequest struct {
	Data map[string]any `json:"data"`
}

// TableService is the remote table/record API. Every call may fail; callers
// surface failures to the user.
type TableService interface {
	GetTable(ctx context.Context, id string) (*Table, error)
	UpdateTable(ctx context.Context, id string, req UpdateTableRequest) (*Table, error)
	DeleteTable(ctx context.Context, id string) error
	ListTables(ctx context.Context, workspaceID string) ([]Table, error)
	CreateTable(ctx context.Context, req CreateTableRequest) (*Table, error)

	AddProperty(ctx context.Context, tableID string, def PropertyDefinition) (*Table, error)
	UpdateProperty(ctx context.Context, tableID, key string, patch PropertyPatch) (*Table, error)
	RemoveProperty(ctx context.Context, tableID, key string) (*Table, error)

	ListRecords(ctx context.Context, tableID string, params ListRecordsParams) (RecordPage, error)
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*Record, error)
	UpdateRecord(ctx context.Context, id string, req UpdateRecordRequest) (*Record, error)
	DeleteRecord(ctx context.Context, id string) error
	CreateRecordsBatch(ctx context.Context, reqs []CreateRecordRequest) ([]Record, error)
	DeleteRecordsBatch(ctx context.Context, ids []string) error
}
