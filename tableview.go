package tableview

import "github.com/goliatone/go-tableview/service"

// Re-export the service package entry point so consumers can do
// `tableview.New(...)` without importing the wiring package.
type (
	Service        = service.Service
	Config         = service.Config
	Session        = service.Session
	OpenTableInput = service.OpenTableInput
	Commands       = service.Commands
	Queries        = service.Queries
)

// New constructs the go-tableview runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
