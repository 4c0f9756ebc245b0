package snapshot

import (
	"fmt"
	"time"

	"github.com/relaynet/mator/relay"
)

// ViaPair is one entry of a via-relay's allowed (entry, exit) list.
type ViaPair struct {
	Entry int
	Exit  int
}

// NetworkSnapshot is the read-only, once-built view of a consensus that
// every path-selection and anonymity computation operates against. Relays
// are indexed 0..N-1 in the order Build received them; that index is the
// identity every other package uses (PathSelection weight vectors,
// worstcase/precise tensors, RelationshipPolicy predicates).
type NetworkSnapshot struct {
	relays     []relay.Relay
	related    [][]bool // N x N symmetric, related[i][i] always false
	weights    RoleWeightTable
	validAfter time.Time
	via        map[int][]ViaPair
}

// Build assembles a NetworkSnapshot from already-parsed relays and their
// pairwise family/subnet relation. related must be an N x N symmetric
// matrix with related[i][i] == false for all i, where N == len(relays).
// via may be nil (no via-relay hints available).
//
// Build is the only mutator in this package: once it returns successfully,
// the NetworkSnapshot is safe to share by reference across goroutines
// without synchronization.
func Build(relays []relay.Relay, related [][]bool, weights RoleWeightTable, validAfter time.Time, via map[int][]ViaPair) (*NetworkSnapshot, error) {
	n := len(relays)
	if len(related) != n {
		return nil, fmt.Errorf("Build: %w", ErrRelationShapeMismatch)
	}
	for i, row := range related {
		if len(row) != n {
			return nil, fmt.Errorf("Build: %w", ErrRelationShapeMismatch)
		}
		if row[i] {
			return nil, fmt.Errorf("Build: relay %d: %w", i, ErrSelfRelation)
		}
		for j := 0; j < i; j++ {
			if row[j] != related[j][i] {
				return nil, fmt.Errorf("Build: relays %d,%d: %w", i, j, ErrAsymmetricRelation)
			}
		}
	}
	for i, r := range relays {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("Build: relay %d: %w", i, err)
		}
	}

	relaysCopy := make([]relay.Relay, n)
	copy(relaysCopy, relays)

	relatedCopy := make([][]bool, n)
	for i, row := range related {
		relatedCopy[i] = make([]bool, n)
		copy(relatedCopy[i], row)
	}

	viaCopy := make(map[int][]ViaPair, len(via))
	for idx, pairs := range via {
		cp := make([]ViaPair, len(pairs))
		copy(cp, pairs)
		viaCopy[idx] = cp
	}

	return &NetworkSnapshot{
		relays:     relaysCopy,
		related:    relatedCopy,
		weights:    weights,
		validAfter: validAfter,
		via:        viaCopy,
	}, nil
}

// N returns the number of relays in the snapshot.
func (s *NetworkSnapshot) N() int {
	return len(s.relays)
}

// Relay returns the relay at index i.
func (s *NetworkSnapshot) Relay(i int) (relay.Relay, error) {
	if i < 0 || i >= len(s.relays) {
		return relay.Relay{}, fmt.Errorf("Relay(%d): %w", i, ErrIndexOutOfRange)
	}
	return s.relays[i], nil
}

// Related reports whether relays i and j share a family or subnet.
// Related(i, i) is always false.
func (s *NetworkSnapshot) Related(i, j int) (bool, error) {
	if i < 0 || i >= len(s.relays) || j < 0 || j >= len(s.relays) {
		return false, fmt.Errorf("Related(%d,%d): %w", i, j, ErrIndexOutOfRange)
	}
	if i == j {
		return false, nil
	}
	return s.related[i][j], nil
}

// Weights returns the role-weight multiplier table.
func (s *NetworkSnapshot) Weights() RoleWeightTable {
	return s.weights
}

// ValidAfter returns the consensus's valid-after timestamp.
func (s *NetworkSnapshot) ValidAfter() time.Time {
	return s.validAfter
}

// ViaPairs returns the (entry, exit) pairs that may route through relay i
// as an intermediate hop, or nil if i has no via-hints.
func (s *NetworkSnapshot) ViaPairs(i int) []ViaPair {
	return s.via[i]
}
