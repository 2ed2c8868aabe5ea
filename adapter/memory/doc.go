// Package memory provides an in-memory TableService used by the demo and by
// hosts that keep table data in process.
package memory
