package precise

import "errors"

// ErrMismatchedSnapshotSize is returned when the four PathSelections, or
// the observation matrices, span different relay counts.
var ErrMismatchedSnapshotSize = errors.New("precise: inputs span different relay counts")

// ErrNonFiniteProbability is returned when a PathSelection exposes a
// non-finite probability at the accumulator boundary.
var ErrNonFiniteProbability = errors.New("precise: non-finite probability encountered")
