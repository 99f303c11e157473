package field

import (
	"errors"
	"fmt"
)

// Domain errors for grid and field construction.
var (
	// ErrIrregularGrid indicates a coordinate axis without uniform spacing.
	ErrIrregularGrid = errors.New("field: grid spacing is not uniform")

	// ErrShapeMismatch indicates a field whose shape does not match the grid.
	ErrShapeMismatch = errors.New("field: shape does not match grid")

	// ErrEmptyAxis indicates a coordinate axis with fewer than two nodes.
	ErrEmptyAxis = errors.New("field: axis needs at least two nodes")
)

// GridError reports where an axis failed the uniform-spacing check.
type GridError struct {
	Axis    string
	Index   int
	Spacing float64
	Want    float64
}

func (e *GridError) Error() string {
	return fmt.Sprintf("field: %s-axis spacing %g at node %d deviates from %g",
		e.Axis, e.Spacing, e.Index, e.Want)
}

func (e *GridError) Unwrap() error {
	return ErrIrregularGrid
}
