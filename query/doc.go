// Package query exposes go-command queriers that read render-ready state
// from the table view controllers.
package query
