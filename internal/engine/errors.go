package engine

import (
	"errors"

	"github.com/talgya/citysim/internal/world"
)

var (
	// Placement errors
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInsufficientFunds  = errors.New("not enough money")
	ErrUnknownCode        = world.ErrUnknownCode

	// ErrNothingToDemolish signals a no-op demolition. Callers treat it as a
	// notice, not a failure.
	ErrNothingToDemolish = errors.New("nothing to demolish")

	// Policy errors
	ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 20")
)
