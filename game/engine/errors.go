package engine

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrCellCount         = errors.New("cell count does not match dimensions")
	ErrInvalidAgent      = errors.New("invalid agent")
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrMissingTerrain    = errors.New("missing terrain costs")
	ErrUnknownTerrain    = errors.New("unknown terrain")
	ErrPositiveCost      = errors.New("cost delta would refill a vital")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrNilRandomSource   = errors.New("random source is required")
)
