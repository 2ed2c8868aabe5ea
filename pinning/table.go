package pinning

import (
	"slices"
	"sync"
)

// ColumnPosition is the pin side of a column. The empty value means unpinned.
type ColumnPosition string

const (
	ColumnUnpinned ColumnPosition = ""
	ColumnLeft     ColumnPosition = "left"
	ColumnRight    ColumnPosition = "right"
)

// Pinned reports whether the position is a pinned side.
func (p ColumnPosition) Pinned() bool { return p == ColumnLeft || p == ColumnRight }

// Valid reports whether the position is one of the known values.
func (p ColumnPosition) Valid() bool { return p == ColumnUnpinned || p.Pinned() }

// RowPosition is the pin side of a row. The empty value means unpinned.
type RowPosition string

const (
	RowUnpinned RowPosition = ""
	RowTop      RowPosition = "top"
	RowBottom   RowPosition = "bottom"
)

// Pinned reports whether the position is a pinned side.
func (p RowPosition) Pinned() bool { return p == RowTop || p == RowBottom }

// Valid reports whether the position is one of the known values.
func (p RowPosition) Valid() bool { return p == RowUnpinned || p.Pinned() }

// ColumnDef describes a leaf column of the grid.
type ColumnDef struct {
	ID             string  `json:"id"`
	Header         string  `json:"header,omitempty"`
	Size           float64 `json:"size"`
	DisablePinning bool    `json:"disablePinning,omitempty"`
}

// Label returns the display name used in notifications.
func (c ColumnDef) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.ID
}

// RowDef describes a rendered row.
type RowDef struct {
	ID   string  `json:"id"`
	Size float64 `json:"size,omitempty"`
}

// ColumnPinning lists pinned column IDs per side in pin order.
type ColumnPinning struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// Position returns the side the column is pinned to.
func (p ColumnPinning) Position(id string) ColumnPosition {
	switch {
	case slices.Contains(p.Left, id):
		return ColumnLeft
	case slices.Contains(p.Right, id):
		return ColumnRight
	default:
		return ColumnUnpinned
	}
}

// Count returns the number of columns pinned to the side.
func (p ColumnPinning) Count(pos ColumnPosition) int {
	switch pos {
	case ColumnLeft:
		return len(p.Left)
	case ColumnRight:
		return len(p.Right)
	default:
		return 0
	}
}

// Total returns the number of pinned columns on both sides.
func (p ColumnPinning) Total() int { return len(p.Left) + len(p.Right) }

// All returns left ++ right.
func (p ColumnPinning) All() []string {
	out := make([]string, 0, p.Total())
	out = append(out, p.Left...)
	return append(out, p.Right...)
}

// Clone returns a detached copy.
func (p ColumnPinning) Clone() ColumnPinning {
	return ColumnPinning{Left: cloneIDs(p.Left), Right: cloneIDs(p.Right)}
}

// With returns a copy where id is removed from both sides and appended to pos.
func (p ColumnPinning) With(id string, pos ColumnPosition) ColumnPinning {
	next := ColumnPinning{Left: without(p.Left, id), Right: without(p.Right, id)}
	switch pos {
	case ColumnLeft:
		next.Left = append(next.Left, id)
	case ColumnRight:
		next.Right = append(next.Right, id)
	}
	return next
}

// RowPinning lists pinned row IDs per side in pin order.
type RowPinning struct {
	Top    []string `json:"top"`
	Bottom []string `json:"bottom"`
}

// Position returns the side the row is pinned to.
func (p RowPinning) Position(id string) RowPosition {
	switch {
	case slices.Contains(p.Top, id):
		return RowTop
	case slices.Contains(p.Bottom, id):
		return RowBottom
	default:
		return RowUnpinned
	}
}

// Count returns the number of rows pinned to the side.
func (p RowPinning) Count(pos RowPosition) int {
	switch pos {
	case RowTop:
		return len(p.Top)
	case RowBottom:
		return len(p.Bottom)
	default:
		return 0
	}
}

// Total returns the number of pinned rows on both sides.
func (p RowPinning) Total() int { return len(p.Top) + len(p.Bottom) }

// All returns top ++ bottom.
func (p RowPinning) All() []string {
	out := make([]string, 0, p.Total())
	out = append(out, p.Top...)
	return append(out, p.Bottom...)
}

// Clone returns a detached copy.
func (p RowPinning) Clone() RowPinning {
	return RowPinning{Top: cloneIDs(p.Top), Bottom: cloneIDs(p.Bottom)}
}

// With returns a copy where id is removed from both sides and appended to
// pos. Moving a row is therefore a single state value, never a row present on
// both sides.
func (p RowPinning) With(id string, pos RowPosition) RowPinning {
	next := RowPinning{Top: without(p.Top, id), Bottom: without(p.Bottom, id)}
	switch pos {
	case RowTop:
		next.Top = append(next.Top, id)
	case RowBottom:
		next.Bottom = append(next.Bottom, id)
	}
	return next
}

// Table is the handle of the grid engine. It holds the authoritative pin
// assignments; the controller is its single writer.
type Table interface {
	Columns() []ColumnDef
	Rows() []RowDef
	ColumnPinning() ColumnPinning
	SetColumnPinning(ColumnPinning)
	RowPinning() RowPinning
	SetRowPinning(RowPinning)
}

// TableState is an in-memory Table used by hosts that render on the server
// and by tests.
type TableState struct {
	mu         sync.RWMutex
	columns    []ColumnDef
	rows       []RowDef
	colPinning ColumnPinning
	rowPinning RowPinning
}

// NewTableState builds a handle for the supplied columns and rows.
func NewTableState(columns []ColumnDef, rows []RowDef) *TableState {
	return &TableState{
		columns: slices.Clone(columns),
		rows:    slices.Clone(rows),
	}
}

var _ Table = (*TableState)(nil)

// Columns implements Table.
func (t *TableState) Columns() []ColumnDef {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.columns)
}

// Rows implements Table.
func (t *TableState) Rows() []RowDef {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

// SetColumns replaces the rendered columns, e.g. after a schema change.
func (t *TableState) SetColumns(columns []ColumnDef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns = slices.Clone(columns)
}

// SetRows replaces the rendered rows, e.g. after a page load.
func (t *TableState) SetRows(rows []RowDef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = slices.Clone(rows)
}

// ColumnPinning implements Table.
func (t *TableState) ColumnPinning() ColumnPinning {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.colPinning.Clone()
}

// SetColumnPinning implements Table.
func (t *TableState) SetColumnPinning(p ColumnPinning) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.colPinning = p.Clone()
}

// RowPinning implements Table.
func (t *TableState) RowPinning() RowPinning {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rowPinning.Clone()
}

// SetRowPinning implements Table.
func (t *TableState) SetRowPinning(p RowPinning) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rowPinning = p.Clone()
}

func findColumn(t Table, id string) (ColumnDef, bool) {
	for _, col := range t.Columns() {
		if col.ID == id {
			return col, true
		}
	}
	return ColumnDef{}, false
}

func findRow(t Table, id string) (RowDef, bool) {
	for _, row := range t.Rows() {
		if row.ID == id {
			return row, true
		}
	}
	return RowDef{}, false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
