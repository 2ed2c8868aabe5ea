// Package views resolves the active view settings of a table (sort, density,
// visible columns) from the table default and a copy-on-write user override.
package views
