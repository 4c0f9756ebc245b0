package mator

import (
	"github.com/relaynet/mator/adversary"
	"github.com/relaynet/mator/matrix"
	"github.com/relaynet/mator/pathselect"
	"github.com/relaynet/mator/precise"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
	"github.com/relaynet/mator/workpool"
	"github.com/relaynet/mator/worstcase"
)

// Corner identifies one of the four (sender, recipient) scenario corners.
type Corner int

// The four scenario corners, matching worstcase.Corners'/precise.Corners'
// field order.
const (
	CornerA1 Corner = iota
	CornerA2
	CornerB1
	CornerB2
)

// AnonymityFacade binds four PathSelections over a shared NetworkSnapshot
// and answers upper/lower-bound anonymity queries, per §4.6. It maintains
// a compute-flag bitmask — one bit per corner — that SetPathSelection sets
// and Commit clears. SetPathSelection also invalidates the cached
// worst-case result, which is rebuilt on the next upper-bound or greedy
// query; Commit itself rebuilds nothing.
type AnonymityFacade struct {
	snap *snapshot.NetworkSnapshot
	pool *workpool.WorkPool
	adv  *adversary.Adversary

	corners [4]*pathselect.PathSelection
	dirty   [4]bool

	worstDeltas *worstcase.Deltas
	worstValid  bool

	obs           precise.Observation
	compromised   []int
	preciseResult *precise.Result
	preciseValid  bool
}

// New builds an AnonymityFacade over snap, pricing compromise through adv.
// Each worst-case sweep runs on a fresh WorkPool with pool's worker count,
// since a WorkPool runs only once. Every corner starts
// dirty: the first query triggers the initial worst-case build.
func New(snap *snapshot.NetworkSnapshot, pool *workpool.WorkPool, adv *adversary.Adversary) *AnonymityFacade {
	return &AnonymityFacade{
		snap:  snap,
		pool:  pool,
		adv:   adv,
		dirty: [4]bool{true, true, true, true},
	}
}

// SetPathSelection installs ps as the named corner's model and marks it
// dirty, invalidating the cached WorstCaseEngine result. It does not
// invalidate the PreciseEngine cache directly — that cache only depends on
// the compromised set and cost map (see SetCompromised) — but since a
// corner change also changes the circuit probabilities PreciseEngine
// reads, callers that change a corner should also call InvalidatePrecise.
func (f *AnonymityFacade) SetPathSelection(corner Corner, ps *pathselect.PathSelection) {
	f.corners[corner] = ps
	f.dirty[corner] = true
	f.worstValid = false
}

// InvalidatePrecise forces the next lower-bound query to rebuild
// PreciseEngine's cached result.
func (f *AnonymityFacade) InvalidatePrecise() {
	f.preciseValid = false
}

// SetCompromised sets the fixed compromised-relay observation PreciseEngine
// evaluates lower bounds against, invalidating the precise cache.
func (f *AnonymityFacade) SetCompromised(obs precise.Observation, compromised []int) {
	f.obs = obs
	f.compromised = compromised
	f.preciseValid = false
}

// Commit clears every corner's dirty bit without doing further work: in
// this implementation a corner's PathSelection is already fully built by
// the time SetPathSelection assigns it (path-selection construction has no
// separate "build" phase the facade defers), so Commit's only
// responsibility is bookkeeping. Call it after a batch of SetPathSelection
// calls for symmetry with §4.6's commit() contract.
func (f *AnonymityFacade) Commit() {
	for i := range f.dirty {
		f.dirty[i] = false
	}
}

func (f *AnonymityFacade) relays() ([]relay.Relay, error) {
	n := f.snap.N()
	out := make([]relay.Relay, n)
	for i := 0; i < n; i++ {
		r, err := f.snap.Relay(i)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (f *AnonymityFacade) worst() (*worstcase.Deltas, error) {
	if f.worstValid && f.worstDeltas != nil {
		return f.worstDeltas, nil
	}
	corners := worstcase.Corners{
		A1: f.corners[CornerA1],
		A2: f.corners[CornerA2],
		B1: f.corners[CornerB1],
		B2: f.corners[CornerB2],
	}
	pool, err := workpool.New(f.pool.Workers())
	if err != nil {
		return nil, err
	}
	engine, err := worstcase.New(pool, corners)
	if err != nil {
		return nil, err
	}
	deltas, err := engine.Run()
	if err != nil {
		return nil, err
	}
	f.worstDeltas = deltas
	f.worstValid = true
	return deltas, nil
}

func (f *AnonymityFacade) exact() (*precise.Result, error) {
	if f.preciseValid && f.preciseResult != nil {
		return f.preciseResult, nil
	}
	corners := precise.Corners{
		A1: f.corners[CornerA1],
		A2: f.corners[CornerA2],
		B1: f.corners[CornerB1],
		B2: f.corners[CornerB2],
	}
	engine, err := precise.New(corners, f.obs)
	if err != nil {
		return nil, err
	}
	result, err := engine.Run()
	if err != nil {
		return nil, err
	}
	f.preciseResult = result
	f.preciseValid = true
	return result, nil
}

func rowSummer(pm *matrix.PairMatrix, n int) *worstcase.MatrixRowSummer {
	return worstcase.NewRowSummer(n, func(i, j int) float64 {
		if pm == nil {
			return 0
		}
		v, _ := pm.Get(i, j)
		return v
	})
}

// SenderUpperBound returns the budgeted worst-case guarantee for sender
// anonymity (§4.2's Guarantee), given the flat-add compromisable-endpoint
// contributions for the two sides of the comparison.
func (f *AnonymityFacade) SenderUpperBound(flatAdd1, flatAdd2 float64) (float64, error) {
	deltas, err := f.worst()
	if err != nil {
		return 0, err
	}
	relays, err := f.relays()
	if err != nil {
		return 0, err
	}
	n := f.snap.N()
	return worstcase.Guarantee(deltas.DeltaSA1, deltas.DeltaSA2, rowSummer(deltas.PairSA1, n), rowSummer(deltas.PairSA2, n), f.adv, relays, flatAdd1, flatAdd2)
}

// RecipientUpperBound is SenderUpperBound's recipient-anonymity analogue.
func (f *AnonymityFacade) RecipientUpperBound(flatAdd1, flatAdd2 float64) (float64, error) {
	deltas, err := f.worst()
	if err != nil {
		return 0, err
	}
	relays, err := f.relays()
	if err != nil {
		return 0, err
	}
	n := f.snap.N()
	return worstcase.Guarantee(deltas.DeltaRA1, deltas.DeltaRA2, rowSummer(deltas.PairRA1, n), rowSummer(deltas.PairRA2, n), f.adv, relays, flatAdd1, flatAdd2)
}

// RelationshipUpperBound is SenderUpperBound's relationship-anonymity
// analogue.
func (f *AnonymityFacade) RelationshipUpperBound(flatAdd1, flatAdd2 float64) (float64, error) {
	deltas, err := f.worst()
	if err != nil {
		return 0, err
	}
	relays, err := f.relays()
	if err != nil {
		return 0, err
	}
	n := f.snap.N()
	return worstcase.Guarantee(deltas.DeltaRel1, deltas.DeltaRel2, rowSummer(deltas.PairRel1, n), rowSummer(deltas.PairRel2, n), f.adv, relays, flatAdd1, flatAdd2)
}

// SenderLowerBound returns PreciseEngine's exact sender-anonymity delta
// against the facade's configured observation/compromised set.
func (f *AnonymityFacade) SenderLowerBound() (float64, error) {
	r, err := f.exact()
	if err != nil {
		return 0, err
	}
	return r.DeltaSA, nil
}

// RecipientLowerBound is SenderLowerBound's recipient-anonymity analogue.
func (f *AnonymityFacade) RecipientLowerBound() (float64, error) {
	r, err := f.exact()
	if err != nil {
		return 0, err
	}
	return r.DeltaRA, nil
}

// RelationshipLowerBound is SenderLowerBound's relationship-anonymity
// analogue.
func (f *AnonymityFacade) RelationshipLowerBound() (float64, error) {
	r, err := f.exact()
	if err != nil {
		return 0, err
	}
	return r.DeltaREL, nil
}

// GreedyListSender returns the budgeted adversary's greedily-selected
// compromised-node ordering for sender anonymity (§4.2's greedy selector).
func (f *AnonymityFacade) GreedyListSender() ([]int, error) {
	deltas, err := f.worst()
	if err != nil {
		return nil, err
	}
	relays, err := f.relays()
	if err != nil {
		return nil, err
	}
	return worstcase.GreedySelect(deltas.DeltaSA1, rowSummer(deltas.PairSA1, f.snap.N()), f.adv, relays)
}

// GreedyListRecipient is GreedyListSender's recipient-anonymity analogue.
func (f *AnonymityFacade) GreedyListRecipient() ([]int, error) {
	deltas, err := f.worst()
	if err != nil {
		return nil, err
	}
	relays, err := f.relays()
	if err != nil {
		return nil, err
	}
	return worstcase.GreedySelect(deltas.DeltaRA1, rowSummer(deltas.PairRA1, f.snap.N()), f.adv, relays)
}

// GreedyListRelationship is GreedyListSender's relationship-anonymity
// analogue.
func (f *AnonymityFacade) GreedyListRelationship() ([]int, error) {
	deltas, err := f.worst()
	if err != nil {
		return nil, err
	}
	relays, err := f.relays()
	if err != nil {
		return nil, err
	}
	return worstcase.GreedySelect(deltas.DeltaRel1, rowSummer(deltas.PairRel1, f.snap.N()), f.adv, relays)
}
