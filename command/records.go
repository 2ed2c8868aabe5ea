package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/records"
)

// RecordOperator is the subset of *records.Controller used by the record
// commands.
type RecordOperator interface {
	DeleteSelected(ctx context.Context) (int, error)
	Export(ctx context.Context, format string) error
}

var _ RecordOperator = (*records.Controller)(nil)

// RecordDeleteSelectedInput optionally receives the deleted count.
type RecordDeleteSelectedInput struct {
	Result *int
}

// RecordDeleteSelectedCommand deletes the selected records.
type RecordDeleteSelectedCommand struct {
	records RecordOperator
}

// NewRecordDeleteSelectedCommand constructs the handler.
func NewRecordDeleteSelectedCommand(operator RecordOperator) *RecordDeleteSelectedCommand {
	return &RecordDeleteSelectedCommand{records: operator}
}

var _ gocommand.Commander[RecordDeleteSelectedInput] = (*RecordDeleteSelectedCommand)(nil)

// Execute deletes the selection in one batch.
func (c *RecordDeleteSelectedCommand) Execute(ctx context.Context, input RecordDeleteSelectedInput) error {
	if c.records == nil {
		return ErrMissingRecords
	}
	count, err := c.records.DeleteSelected(ctx)
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = count
	}
	return nil
}

// RecordExportInput selects the export format; empty means CSV.
type RecordExportInput struct {
	Format string
}

// RecordExportCommand exports the current view.
type RecordExportCommand struct {
	records RecordOperator
}

// NewRecordExportCommand constructs the handler.
func NewRecordExportCommand(operator RecordOperator) *RecordExportCommand {
	return &RecordExportCommand{records: operator}
}

var _ gocommand.Commander[RecordExportInput] = (*RecordExportCommand)(nil)

// Execute runs the export.
func (c *RecordExportCommand) Execute(ctx context.Context, input RecordExportInput) error {
	if c.records == nil {
		return ErrMissingRecords
	}
	return c.records.Export(ctx, input.Format)
}
