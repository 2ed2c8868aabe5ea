// Package records loads the records of a dynamic table page by page and
// derives the view the grid renders: search, per-column filters, an optional
// expression filter and a single-key sort. It also owns selection, record
// CRUD with batch operations, and CSV export.
package records
