// Package pinning owns column and row pinning for a dynamic table: validated
// pin mutations against a grid Table handle, the persisted pinning state and
// the sticky-position style calculator consumed on render.
package pinning
