package command

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrMissingPinning indicates a pin command was built without a controller.
	ErrMissingPinning = errors.New("go-tableview: pinning controller required")
	// ErrMissingViews indicates a view command was built without a resolver.
	ErrMissingViews = errors.New("go-tableview: view resolver required")
	// ErrMissingRecords indicates a record command was built without a controller.
	ErrMissingRecords = errors.New("go-tableview: records controller required")
	// ErrColumnIDRequired indicates a column pin payload lacked the column.
	ErrColumnIDRequired = errors.New("go-tableview: column id required")
	// ErrRowIDRequired indicates a row pin payload lacked the row.
	ErrRowIDRequired = errors.New("go-tableview: row id required")
	// ErrSortKeyRequired indicates a sort payload lacked the key.
	ErrSortKeyRequired = errors.New("go-tableview: sort key required")
	// ErrColumnKeyRequired indicates a visibility payload lacked the column.
	ErrColumnKeyRequired = errors.New("go-tableview: column key required")
)

// rejected reports a pin operation the controller refused. The controller
// already notified the user.
func rejected(op, target string) error {
	return goerrors.New("go-tableview: "+op+" rejected", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"operation": op, "target": target})
}
