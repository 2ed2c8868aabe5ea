package query

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/views"
)

// ErrMissingViews indicates the query was built without a resolver.
var ErrMissingViews = errors.New("go-tableview: view resolver required")

// ViewReader is the subset of *views.Resolver read by ActiveViewQuery.
type ViewReader interface {
	Active() views.Settings
	Preferences() views.Preferences
	VisibleColumns(schemaKeys []string) []string
}

// ActiveViewInput carries the schema keys used to resolve visible columns.
type ActiveViewInput struct {
	Schema []string
}

// ActiveView is the resolved view of a table.
type ActiveView struct {
	Settings       views.Settings
	VisibleColumns []string
	UseDefault     bool
}

// ActiveViewQuery resolves the active view settings.
type ActiveViewQuery struct {
	views ViewReader
}

// NewActiveViewQuery constructs the query helper.
func NewActiveViewQuery(reader ViewReader) *ActiveViewQuery {
	return &ActiveViewQuery{views: reader}
}

var _ gocommand.Querier[ActiveViewInput, ActiveView] = (*ActiveViewQuery)(nil)

// Query returns the active settings and visible columns.
func (q *ActiveViewQuery) Query(_ context.Context, input ActiveViewInput) (ActiveView, error) {
	if q.views == nil {
		return ActiveView{}, ErrMissingViews
	}
	return ActiveView{
		Settings:       q.views.Active(),
		VisibleColumns: q.views.VisibleColumns(input.Schema),
		UseDefault:     q.views.Preferences().UseDefault,
	}, nil
}
