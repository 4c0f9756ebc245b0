// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All algorithms MUST return these sentinels and tests MUST check
// them via errors.Is. No algorithm should panic on user-triggered error
// conditions — panics are reserved for programmer errors in private helpers.

package matrix

import "errors"

var (
	// ErrBadShape is returned by NewPairMatrix when n < 2.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a PairMatrix pair index is outside [0, n);
	// PairMatrix's Get/Set/Add/RowSum return it. Dense reports its own
	// out-of-range rows and columns with ErrIndexOutOfBounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value. No function in this package
	// returns it: Set and Add store non-finite values unchecked.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)
