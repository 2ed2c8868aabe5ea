package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-tableview/pkg/types"
)

type viewCache struct {
	valid   bool
	version uint64
	viewKey string
	out     []types.Record
}

// View returns the loaded records after search, column filters, the
// expression filter and sort. The result is memoized until an input changes.
func (c *Controller) View() []types.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.viewLocked())
}

// ViewCount returns the number of records in the derived view.
func (c *Controller) ViewCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.viewLocked())
}

func (c *Controller) viewLocked() []types.Record {
	active := c.activeView()
	visible := c.visibleColumns()
	key := fmt.Sprintf("%s|%s|%v", active.SortBy, active.SortOrder, visible)
	if c.cache.valid && c.cache.version == c.version && c.cache.viewKey == key {
		return c.cache.out
	}

	out := make([]types.Record, 0, len(c.records))
	query := strings.ToLower(strings.TrimSpace(c.search))
	for _, record := range c.records {
		if query != "" && !matchesSearch(record, visible, query) {
			continue
		}
		if !c.matchesFilters(record) {
			continue
		}
		if c.expression != nil && !c.expression.Match(record) {
			continue
		}
		out = append(out, record)
	}
	if active.SortBy != "" {
		sortRecords(out, active.SortBy, active.SortOrder, c.locale)
	}

	c.cache = viewCache{valid: true, version: c.version, viewKey: key, out: out}
	return out
}

// SetSearch sets the free text query matched against visible columns.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search == query {
		return
	}
	c.search = query
	c.touch()
}

// Search returns the current query.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SetColumnFilter sets the filter value of a column. A nil or empty value
// removes the filter.
func (c *Controller) SetColumnFilter(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if filterInactive(value) {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.touch()
}

// ClearColumnFilter removes the filter of a column.
func (c *Controller) ClearColumnFilter(key string) {
	c.SetColumnFilter(key, nil)
}

// ClearFilters removes the search query, every column filter and the filter
// expression.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = ""
	c.filters = make(map[string]any)
	c.expression = nil
	c.touch()
}

// Filters returns a copy of the active column filters.
func (c *Controller) Filters() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// SetFilterExpression compiles and installs a boolean filter expression. An
// empty source removes it. On a compile error the previous expression stays
// active.
func (c *Controller) SetFilterExpression(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		c.mu.Lock()
		c.expression = nil
		c.touch()
		c.mu.Unlock()
		return nil
	}
	compiled, err := CompileExpression(source)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("records filter expression rejected", "table_id", c.tableID, "expression", source, "error", err)
		c.notify(ctx, types.NotificationWarning, MsgInvalidFilter, map[string]any{"expression": source})
		return err
	}
	c.expression = compiled
	c.touch()
	return nil
}

// FilterExpression returns the source of the installed expression.
func (c *Controller) FilterExpression() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expression == nil {
		return ""
	}
	return c.expression.Source()
}

func matchesSearch(record types.Record, columns []string, query string) bool {
	for _, key := range columns {
		if strings.Contains(strings.ToLower(stringify(record.Field(key))), query) {
			return true
		}
	}
	return false
}

func (c *Controller) matchesFilters(record types.Record) bool {
	for key, value := range c.filters {
		if !matchFilter(c.propertyType(key), record.Field(key), value) {
			return false
		}
	}
	return true
}
