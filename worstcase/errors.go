package worstcase

import "errors"

// ErrOutOfRangeIndex is returned when a caller-supplied relay index is
// outside the snapshot's [0, N) universe — a programming error, per §7's
// "panic-equivalent fatal", surfaced here as an error rather than a panic.
var ErrOutOfRangeIndex = errors.New("worstcase: relay index out of range")

// ErrNonFiniteProbability is returned when a PathSelection exposes a
// non-finite probability at the accumulator boundary.
var ErrNonFiniteProbability = errors.New("worstcase: non-finite probability encountered")

// ErrMismatchedSnapshotSize is returned when the four PathSelections were
// not built over the same relay universe size.
var ErrMismatchedSnapshotSize = errors.New("worstcase: path selections span different relay counts")
