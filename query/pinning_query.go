package query

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/pinning"
)

// ErrMissingPinning indicates the query was built without a controller.
var ErrMissingPinning = errors.New("go-tableview: pinning controller required")

// PinningReader is the subset of *pinning.Controller read by
// PinningStateQuery.
type PinningReader interface {
	TableID() string
	Table() pinning.Table
	Settings() pinning.Settings
	StyleOptions() pinning.StyleOptions
}

// PinningStateInput selects rows whose classes reflect selection.
type PinningStateInput struct {
	SelectedRows []string
}

// ColumnView is a column with its computed presentation.
type ColumnView struct {
	pinning.ColumnInfo
	Style       string
	HeaderStyle string
	Classes     []string
}

// RowView is a row with its computed presentation.
type RowView struct {
	pinning.RowInfo
	Style   string
	Classes []string
}

// PinningState is a render-ready snapshot of the pin layout.
type PinningState struct {
	TableID       string
	Settings      pinning.Settings
	ColumnPinning pinning.ColumnPinning
	RowPinning    pinning.RowPinning
	Columns       []ColumnView
	Rows          []RowView
}

// PinningStateQuery reads the pin layout with styles and classes.
type PinningStateQuery struct {
	pins PinningReader
}

// NewPinningStateQuery constructs the query helper.
func NewPinningStateQuery(reader PinningReader) *PinningStateQuery {
	return &PinningStateQuery{pins: reader}
}

var _ gocommand.Querier[PinningStateInput, PinningState] = (*PinningStateQuery)(nil)

// Query computes the snapshot.
func (q *PinningStateQuery) Query(_ context.Context, input PinningStateInput) (PinningState, error) {
	if q.pins == nil {
		return PinningState{}, ErrMissingPinning
	}
	table := q.pins.Table()
	opts := q.pins.StyleOptions()
	selected := make(map[string]bool, len(input.SelectedRows))
	for _, id := range input.SelectedRows {
		selected[id] = true
	}

	state := PinningState{
		TableID:       q.pins.TableID(),
		Settings:      q.pins.Settings(),
		ColumnPinning: table.ColumnPinning().Clone(),
		RowPinning:    table.RowPinning().Clone(),
	}
	for _, col := range pinning.DescribeColumns(table) {
		state.Columns = append(state.Columns, ColumnView{
			ColumnInfo:  col,
			Style:       pinning.ColumnStyles(col, opts).CSS(),
			HeaderStyle: pinning.HeaderStyles(col, opts).CSS(),
			Classes:     pinning.ColumnClasses(col, opts),
		})
	}
	for _, row := range pinning.DescribeRows(table) {
		state.Rows = append(state.Rows, RowView{
			RowInfo: row,
			Style:   pinning.RowStyles(row, row.PinnedIndex, opts).CSS(),
			Classes: pinning.RowClasses(row, selected[row.ID]),
		})
	}
	return state, nil
}
