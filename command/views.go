package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/views"
)

// ViewEditor is the subset of *views.Resolver used by the view commands.
type ViewEditor interface {
	Active() views.Settings
	SetSortBy(ctx context.Context, key string) error
	SetSortOrder(ctx context.Context, order types.SortOrder) error
	ToggleColumnVisibility(ctx context.Context, key string, schemaKeys []string) error
	SetDensity(ctx context.Context, density views.Density) error
	SetShowSystemColumns(ctx context.Context, show bool) error
	ResetToDefault(ctx context.Context) error
}

var _ ViewEditor = (*views.Resolver)(nil)

// ViewSortInput sorts by Key. Without Order, sorting by the current key
// flips the direction and a new key sorts ascending.
type ViewSortInput struct {
	Key   string
	Order types.SortOrder
}

// ViewSortCommand changes the view sort.
type ViewSortCommand struct {
	views ViewEditor
}

// NewViewSortCommand constructs the handler.
func NewViewSortCommand(editor ViewEditor) *ViewSortCommand {
	return &ViewSortCommand{views: editor}
}

var _ gocommand.Commander[ViewSortInput] = (*ViewSortCommand)(nil)

// Execute applies the sort change.
func (c *ViewSortCommand) Execute(ctx context.Context, input ViewSortInput) error {
	if c.views == nil {
		return ErrMissingViews
	}
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return ErrSortKeyRequired
	}
	if input.Order == "" {
		return c.views.SetSortBy(ctx, key)
	}
	if c.views.Active().SortBy != key {
		if err := c.views.SetSortBy(ctx, key); err != nil {
			return err
		}
	}
	if c.views.Active().SortOrder == input.Order {
		return nil
	}
	return c.views.SetSortOrder(ctx, input.Order)
}

// ViewColumnVisibilityInput toggles one column against the table schema.
type ViewColumnVisibilityInput struct {
	Key    string
	Schema []string
}

// ViewColumnVisibilityCommand toggles column visibility.
type ViewColumnVisibilityCommand struct {
	views ViewEditor
}

// NewViewColumnVisibilityCommand constructs the handler.
func NewViewColumnVisibilityCommand(editor ViewEditor) *ViewColumnVisibilityCommand {
	return &ViewColumnVisibilityCommand{views: editor}
}

var _ gocommand.Commander[ViewColumnVisibilityInput] = (*ViewColumnVisibilityCommand)(nil)

// Execute toggles the column.
func (c *ViewColumnVisibilityCommand) Execute(ctx context.Context, input ViewColumnVisibilityInput) error {
	if c.views == nil {
		return ErrMissingViews
	}
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return ErrColumnKeyRequired
	}
	return c.views.ToggleColumnVisibility(ctx, key, input.Schema)
}

// ViewDensityInput sets the row density and, when set, the system column
// flag.
type ViewDensityInput struct {
	Density           views.Density
	ShowSystemColumns *bool
}

// ViewDensityCommand changes display options of the view.
type ViewDensityCommand struct {
	views ViewEditor
}

// NewViewDensityCommand constructs the handler.
func NewViewDensityCommand(editor ViewEditor) *ViewDensityCommand {
	return &ViewDensityCommand{views: editor}
}

var _ gocommand.Commander[ViewDensityInput] = (*ViewDensityCommand)(nil)

// Execute applies the display options.
func (c *ViewDensityCommand) Execute(ctx context.Context, input ViewDensityInput) error {
	if c.views == nil {
		return ErrMissingViews
	}
	if input.Density != "" {
		if err := c.views.SetDensity(ctx, input.Density); err != nil {
			return err
		}
	}
	if input.ShowSystemColumns != nil {
		return c.views.SetShowSystemColumns(ctx, *input.ShowSystemColumns)
	}
	return nil
}

// ViewResetInput carries no payload.
type ViewResetInput struct{}

// ViewResetCommand drops the user override.
type ViewResetCommand struct {
	views ViewEditor
}

// NewViewResetCommand constructs the handler.
func NewViewResetCommand(editor ViewEditor) *ViewResetCommand {
	return &ViewResetCommand{views: editor}
}

var _ gocommand.Commander[ViewResetInput] = (*ViewResetCommand)(nil)

// Execute resets the view to the table default.
func (c *ViewResetCommand) Execute(ctx context.Context, _ ViewResetInput) error {
	if c.views == nil {
		return ErrMissingViews
	}
	return c.views.ResetToDefault(ctx)
}
