package snapshot

import "errors"

// ErrIndexOutOfRange is returned when a relay index is outside [0, N).
var ErrIndexOutOfRange = errors.New("snapshot: relay index out of range")

// ErrRelationShapeMismatch is returned by Build when the supplied relation
// matrix's dimensions do not match the relay count.
var ErrRelationShapeMismatch = errors.New("snapshot: relation matrix shape does not match relay count")

// ErrSelfRelation is returned by Build when the relation matrix marks a
// relay as related to itself, which related[i][j] is defined only for i != j.
var ErrSelfRelation = errors.New("snapshot: relation matrix must not mark a relay related to itself")

// ErrAsymmetricRelation is returned by Build when related[i][j] != related[j][i].
var ErrAsymmetricRelation = errors.New("snapshot: relation matrix must be symmetric")
