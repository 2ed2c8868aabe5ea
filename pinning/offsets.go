package pinning

import "slices"

// DefaultColumnSize is assumed for columns that do not report a width.
const DefaultColumnSize = 150

// ColumnInfo is a snapshot of a column's pin state, used by the style
// calculator.
type ColumnInfo struct {
	ID       string
	Size     float64
	Position ColumnPosition
	// Offset is the distance from the pinned edge: the summed widths of the
	// left-pinned columns before this one, or of the right-pinned columns
	// after it.
	Offset       float64
	PinnedIndex  int
	IsLastLeft   bool
	IsFirstRight bool
	CanPin       bool
}

// RowInfo is a snapshot of a row's pin state.
type RowInfo struct {
	ID          string
	Size        float64
	Position    RowPosition
	PinnedIndex int
}

// DescribeColumn derives the style inputs for a single column.
func DescribeColumn(table Table, id string) (ColumnInfo, bool) {
	if table == nil {
		return ColumnInfo{}, false
	}
	columns := table.Columns()
	pinning := table.ColumnPinning()
	for _, col := range columns {
		if col.ID == id {
			return describeColumn(col, columns, pinning), true
		}
	}
	return ColumnInfo{}, false
}

// DescribeColumns derives style inputs for every column in table order.
func DescribeColumns(table Table) []ColumnInfo {
	if table == nil {
		return nil
	}
	columns := table.Columns()
	pinning := table.ColumnPinning()
	out := make([]ColumnInfo, 0, len(columns))
	for _, col := range columns {
		out = append(out, describeColumn(col, columns, pinning))
	}
	return out
}

func describeColumn(col ColumnDef, columns []ColumnDef, pinning ColumnPinning) ColumnInfo {
	sizes := make(map[string]float64, len(columns))
	for _, c := range columns {
		sizes[c.ID] = columnSize(c)
	}
	info := ColumnInfo{
		ID:       col.ID,
		Size:     columnSize(col),
		Position: pinning.Position(col.ID),
		CanPin:   !col.DisablePinning,
	}
	switch info.Position {
	case ColumnLeft:
		idx := slices.Index(pinning.Left, col.ID)
		info.PinnedIndex = idx
		for _, before := range pinning.Left[:idx] {
			info.Offset += sizes[before]
		}
		info.IsLastLeft = idx == len(pinning.Left)-1
	case ColumnRight:
		idx := slices.Index(pinning.Right, col.ID)
		info.PinnedIndex = idx
		for _, after := range pinning.Right[idx+1:] {
			info.Offset += sizes[after]
		}
		info.IsFirstRight = idx == 0
	}
	return info
}

// DescribeRow derives the style inputs for a single row.
func DescribeRow(table Table, id string) (RowInfo, bool) {
	if table == nil {
		return RowInfo{}, false
	}
	row, ok := findRow(table, id)
	if !ok {
		return RowInfo{}, false
	}
	return describeRow(row, table.RowPinning()), true
}

// DescribeRows derives style inputs for every row in table order.
func DescribeRows(table Table) []RowInfo {
	if table == nil {
		return nil
	}
	rows := table.Rows()
	pinning := table.RowPinning()
	out := make([]RowInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, describeRow(row, pinning))
	}
	return out
}

func describeRow(row RowDef, pinning RowPinning) RowInfo {
	info := RowInfo{ID: row.ID, Size: row.Size, Position: pinning.Position(row.ID)}
	switch info.Position {
	case RowTop:
		info.PinnedIndex = slices.Index(pinning.Top, row.ID)
	case RowBottom:
		info.PinnedIndex = slices.Index(pinning.Bottom, row.ID)
	}
	return info
}

// CalculateOffset sums the widths of the columns pinned to pos.
func CalculateOffset(columns []ColumnInfo, pos ColumnPosition) float64 {
	if !pos.Pinned() {
		return 0
	}
	var total float64
	for _, col := range columns {
		if col.Position == pos {
			total += col.Size
		}
	}
	return total
}

// CalculateRowOffset sums the heights of the rows pinned to pos. Rows without
// a reported height count as DefaultRowHeight.
func CalculateRowOffset(rows []RowInfo, pos RowPosition) float64 {
	if !pos.Pinned() {
		return 0
	}
	var total float64
	for _, row := range rows {
		if row.Position != pos {
			continue
		}
		if row.Size > 0 {
			total += row.Size
		} else {
			total += DefaultRowHeight
		}
	}
	return total
}

func columnSize(col ColumnDef) float64 {
	if col.Size > 0 {
		return col.Size
	}
	return DefaultColumnSize
}
