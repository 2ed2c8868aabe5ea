package records

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
)

// CSVMimeType is the content type of CSV exports.
const CSVMimeType = "text/csv"

// ExportFilename returns the download name of a table export.
func ExportFilename(tableID string) string {
	return "records-" + tableID + ".csv"
}

// Export serializes the current view restricted to visible columns and hands
// it to the downloader. Only CSV is implemented; other formats announce that
// they are coming soon and return nil.
func (c *Controller) Export(ctx context.Context, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV {
		c.notify(ctx, types.NotificationInfo, MsgExportComingSoon, map[string]any{"format": format})
		return nil
	}
	if c.downloader == nil {
		c.notify(ctx, types.NotificationError, MsgExportError, nil)
		return goerrors.Wrap(types.ErrMissingDownloader, goerrors.CategoryInternal, "records: export failed").
			WithCode(goerrors.CodeInternal).
			WithMetadata(map[string]any{"table_id": c.tableID})
	}

	c.mu.Lock()
	rows := cloneRecords(c.viewLocked())
	columns := c.visibleColumns()
	sensitive := sensitiveFields(c.schema)
	c.mu.Unlock()

	content, err := EncodeCSV(rows, columns, func(row map[string]string) map[string]string {
		return maskRow(c.mask, sensitive, row)
	})
	if err != nil {
		c.logger.Error("records export encode failed", err, "table_id", c.tableID)
		c.notify(ctx, types.NotificationError, MsgExportError, nil)
		return c.wrap(err, "export", nil)
	}

	filename := ExportFilename(c.tableID)
	if err := c.downloader.Download(ctx, filename, CSVMimeType, content); err != nil {
		c.logger.Error("records export download failed", err, "table_id", c.tableID, "filename", filename)
		c.notify(ctx, types.NotificationError, MsgExportError, nil)
		return c.wrap(err, "export", map[string]any{"filename": filename})
	}
	c.notify(ctx, types.NotificationSuccess, MsgExported, map[string]any{"count": len(rows), "filename": filename})
	return nil
}

// EncodeCSV writes a header of column keys followed by one line per record.
// The optional transform rewrites each row before it is written.
func EncodeCSV(records []types.Record, columns []string, transform func(map[string]string) map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	line := make([]string, len(columns))
	for _, record := range records {
		row := make(map[string]string, len(columns))
		for _, key := range columns {
			row[key] = stringify(record.Field(key))
		}
		if transform != nil {
			row = transform(row)
		}
		for i, key := range columns {
			line[i] = row[key]
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
