// Package matrix defines the sentinel errors shared by Dense and PairMatrix.
package matrix

import "errors"

// Sentinel errors for matrix package operations.
var (
	// ErrDimensionMismatch indicates two matrices have incompatible dimensions for the operation.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrSamePair indicates a PairMatrix was addressed with i == j, which has no
	// triangular cell (the diagonal is never stored).
	ErrSamePair = errors.New("matrix: pair indices must differ")

	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a Dense row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")
)
