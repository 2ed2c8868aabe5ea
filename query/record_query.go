package query

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/records"
)

// ErrMissingRecords indicates the query was built without a controller.
var ErrMissingRecords = errors.New("go-tableview: records controller required")

// RecordReader is the subset of *records.Controller read by RecordViewQuery.
type RecordReader interface {
	View() []types.Record
	VisibleColumns() []string
	TotalCount() int
	HasMore() bool
	Status() records.Status
	Selected() []string
}

var _ RecordReader = (*records.Controller)(nil)

// RecordViewInput pages through the derived view. A zero Limit returns
// every record from Offset.
type RecordViewInput struct {
	Offset int
	Limit  int
}

// RecordView is a window of the derived view.
type RecordView struct {
	Records    []types.Record
	Columns    []string
	Matched    int
	TotalCount int
	HasMore    bool
	Status     records.Status
	Selected   []string
}

// RecordViewQuery reads the searched, filtered and sorted records.
type RecordViewQuery struct {
	records RecordReader
}

// NewRecordViewQuery constructs the query helper.
func NewRecordViewQuery(reader RecordReader) *RecordViewQuery {
	return &RecordViewQuery{records: reader}
}

var _ gocommand.Querier[RecordViewInput, RecordView] = (*RecordViewQuery)(nil)

// Query returns the requested window.
func (q *RecordViewQuery) Query(_ context.Context, input RecordViewInput) (RecordView, error) {
	if q.records == nil {
		return RecordView{}, ErrMissingRecords
	}
	view := q.records.View()
	start := min(max(input.Offset, 0), len(view))
	end := len(view)
	if input.Limit > 0 {
		end = min(start+input.Limit, len(view))
	}
	return RecordView{
		Records:    view[start:end],
		Columns:    q.records.VisibleColumns(),
		Matched:    len(view),
		TotalCount: q.records.TotalCount(),
		HasMore:    q.records.HasMore(),
		Status:     q.records.Status(),
		Selected:   q.records.Selected(),
	}, nil
}
