package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tableview/pinning"
)

// Pinner is the subset of *pinning.Controller used by the pin commands.
type Pinner interface {
	PinColumn(ctx context.Context, columnID string, pos pinning.ColumnPosition) bool
	ToggleColumnPin(ctx context.Context, columnID string, preferred pinning.ColumnPosition) bool
	PinRow(ctx context.Context, rowID string, pos pinning.RowPosition, reason string) bool
	ToggleRowPin(ctx context.Context, rowID string, preferred pinning.RowPosition) bool
	ClearColumnPins(ctx context.Context, pos pinning.ColumnPosition) bool
	ClearRowPins(ctx context.Context, pos pinning.RowPosition) bool
	ClearAllPins(ctx context.Context) bool
}

var _ Pinner = (*pinning.Controller)(nil)

// PinColumnInput pins, unpins or toggles a column. An empty Position unpins
// unless Toggle is set, in which case it is the preferred side.
type PinColumnInput struct {
	ColumnID string
	Position pinning.ColumnPosition
	Toggle   bool
}

// PinColumnCommand applies a column pin change.
type PinColumnCommand struct {
	pins Pinner
}

// NewPinColumnCommand constructs the handler.
func NewPinColumnCommand(pins Pinner) *PinColumnCommand {
	return &PinColumnCommand{pins: pins}
}

var _ gocommand.Commander[PinColumnInput] = (*PinColumnCommand)(nil)

// Execute returns a validation error when the controller rejects the change.
func (c *PinColumnCommand) Execute(ctx context.Context, input PinColumnInput) error {
	if c.pins == nil {
		return ErrMissingPinning
	}
	columnID := strings.TrimSpace(input.ColumnID)
	if columnID == "" {
		return ErrColumnIDRequired
	}
	var ok bool
	if input.Toggle {
		ok = c.pins.ToggleColumnPin(ctx, columnID, input.Position)
	} else {
		ok = c.pins.PinColumn(ctx, columnID, input.Position)
	}
	if !ok {
		return rejected("pin_column", columnID)
	}
	return nil
}

// PinRowInput pins, unpins or toggles a row.
type PinRowInput struct {
	RowID    string
	Position pinning.RowPosition
	Toggle   bool
	Reason   string
}

// PinRowCommand applies a row pin change.
type PinRowCommand struct {
	pins Pinner
}

// NewPinRowCommand constructs the handler.
func NewPinRowCommand(pins Pinner) *PinRowCommand {
	return &PinRowCommand{pins: pins}
}

var _ gocommand.Commander[PinRowInput] = (*PinRowCommand)(nil)

// Execute returns a validation error when the controller rejects the change.
func (c *PinRowCommand) Execute(ctx context.Context, input PinRowInput) error {
	if c.pins == nil {
		return ErrMissingPinning
	}
	rowID := strings.TrimSpace(input.RowID)
	if rowID == "" {
		return ErrRowIDRequired
	}
	var ok bool
	if input.Toggle {
		ok = c.pins.ToggleRowPin(ctx, rowID, input.Position)
	} else {
		ok = c.pins.PinRow(ctx, rowID, input.Position, input.Reason)
	}
	if !ok {
		return rejected("pin_row", rowID)
	}
	return nil
}

// ClearTarget selects which pins ClearPinsCommand removes.
type ClearTarget string

const (
	ClearAll     ClearTarget = "all"
	ClearColumns ClearTarget = "columns"
	ClearRows    ClearTarget = "rows"
)

// ClearPinsInput removes pins. Side narrows a column or row clear to one
// side; empty clears both.
type ClearPinsInput struct {
	Target ClearTarget
	Side   string
}

// ClearPinsCommand removes pins in bulk.
type ClearPinsCommand struct {
	pins Pinner
}

// NewClearPinsCommand constructs the handler.
func NewClearPinsCommand(pins Pinner) *ClearPinsCommand {
	return &ClearPinsCommand{pins: pins}
}

var _ gocommand.Commander[ClearPinsInput] = (*ClearPinsCommand)(nil)

// Execute clears the requested pins.
func (c *ClearPinsCommand) Execute(ctx context.Context, input ClearPinsInput) error {
	if c.pins == nil {
		return ErrMissingPinning
	}
	var ok bool
	switch input.Target {
	case ClearColumns:
		side := pinning.ColumnPosition(input.Side)
		if !side.Valid() {
			return rejected("clear_pins", input.Side)
		}
		ok = c.pins.ClearColumnPins(ctx, side)
	case ClearRows:
		side := pinning.RowPosition(input.Side)
		if !side.Valid() {
			return rejected("clear_pins", input.Side)
		}
		ok = c.pins.ClearRowPins(ctx, side)
	case ClearAll, "":
		ok = c.pins.ClearAllPins(ctx)
	default:
		return rejected("clear_pins", string(input.Target))
	}
	if !ok {
		return rejected("clear_pins", string(input.Target))
	}
	return nil
}
