package pathselect

import "errors"

// ErrEmptyEntryMass is returned when, for some eligible exit, every
// eligible entry relay is related to it — no unrelated entry mass remains
// to normalize entryProb against.
var ErrEmptyEntryMass = errors.New("pathselect: every eligible entry is related to every eligible exit")

// ErrNoReachableEntry is returned by the geo-clustered variant when, after
// pruning entry clusters to the nearest percentile, none remain.
var ErrNoReachableEntry = errors.New("pathselect: no reachable entry cluster after pruning")

// ErrInvalidBandwidthFraction is returned by the bandwidth-redistribution
// variant when the target fraction is outside [0,1].
var ErrInvalidBandwidthFraction = errors.New("pathselect: bandwidth fraction must be in [0,1]")

// ErrInvalidAlpha is returned by the geo-clustered variant when alpha is
// outside [0,1].
var ErrInvalidAlpha = errors.New("pathselect: alpha must be in [0,1]")

// ErrNonFiniteProbability is returned when a constructed PathSelection
// would expose a NaN or infinite probability — the Go-idiomatic reading of
// §7's "panic-equivalent fatal" for this boundary: returned as an error
// from construction rather than panicking deep inside a later sweep.
var ErrNonFiniteProbability = errors.New("pathselect: non-finite probability at construction boundary")
