// Package tables manages the table definitions of a workspace: listing,
// search, creation, best-effort batch deletion, and per-table property
// editing.
package tables
