// Package command exposes go-command compatible handlers over the table view
// controllers (pin, view and record operations) so any transport can invoke
// them with plain input structs.
package command
