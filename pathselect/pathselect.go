package pathselect

import (
	"fmt"
	"math"

	"github.com/relaynet/mator/matrix"
	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/snapshot"
)

// PathSelection is the joint probability model over (guard, middle, exit)
// circuits for one corner, per §3/§4.1. Every variant constructor produces
// one of these; from here, exitProb/entryProb/middleProb are variant-blind.
type PathSelection struct {
	n int

	mayExit, mayEntry, mayMiddle []bool

	exitW, entryW, middleW []float64

	sumExit        float64
	sumEntryTotal  float64
	sumMiddleTotal float64

	// relatedEntryMass[x] is the total entryW mass of entries that cannot
	// pair with exit x — x itself and every entry related to x via the
	// relationship policy — subtracted from sumEntryTotal when normalizing
	// entryProb(g, x).
	relatedEntryMass []float64

	// relatedMiddleMass stores, per unordered (g, x) pair, the total
	// middleW mass of middles that cannot join g and x — g and x themselves
	// and every middle related to either of them — keyed on the set
	// {g, x} rather than the ordered pair, since forbidding a middle
	// depends only on which two relays already hold the other slots, not
	// on which of them is the guard versus the exit (§9 REDESIGN FLAG).
	relatedMiddleMass *matrix.PairMatrix

	policy relation.Policy
	snap   *snapshot.NetworkSnapshot
}

// exitProb returns Pr[exit == x].
func (ps *PathSelection) exitProb(x int) (float64, error) {
	if !ps.inRange(x) {
		return 0, fmt.Errorf("exitProb(%d): %w", x, ErrNonFiniteProbability)
	}
	if !ps.mayExit[x] || ps.sumExit <= 0 {
		return 0, nil
	}
	return ps.exitW[x] / ps.sumExit, nil
}

// entryProb returns Pr[entry == g | exit == x]: entryW[g] normalized
// against the entry mass unrelated to x.
func (ps *PathSelection) entryProb(g, x int) (float64, error) {
	if !ps.inRange(g) || !ps.inRange(x) {
		return 0, fmt.Errorf("entryProb(%d,%d): %w", g, x, ErrNonFiniteProbability)
	}
	if !ps.mayEntry[g] || g == x {
		return 0, nil
	}
	if ps.policy.ExitEntryRelated(x, g) {
		return 0, nil
	}
	denom := ps.sumEntryTotal - ps.relatedEntryMass[x]
	if denom <= 0 {
		return 0, ErrEmptyEntryMass
	}
	return ps.entryW[g] / denom, nil
}

// middleProb returns Pr[middle == m | entry == g, exit == x]: middleW[m]
// normalized against the middle mass unrelated to either g or x.
func (ps *PathSelection) middleProb(m, g, x int) (float64, error) {
	if !ps.inRange(m) || !ps.inRange(g) || !ps.inRange(x) {
		return 0, fmt.Errorf("middleProb(%d,%d,%d): %w", m, g, x, ErrNonFiniteProbability)
	}
	if !ps.mayMiddle[m] || m == g || m == x {
		return 0, nil
	}
	if ps.policy.ExitMiddleRelated(x, m) || ps.policy.EntryMiddleRelated(g, m) {
		return 0, nil
	}
	var related float64
	if g != x {
		var err error
		related, err = ps.relatedMiddleMass.Get(g, x)
		if err != nil {
			return 0, err
		}
	}
	denom := ps.sumMiddleTotal - related
	if denom <= 0 {
		return 0, nil // forbidden triple: no eligible middle remains
	}
	return ps.middleW[m] / denom, nil
}

func (ps *PathSelection) inRange(i int) bool {
	return i >= 0 && i < ps.n
}

// CircuitProb returns Pr[(entry, middle, exit) == (g, m, x)], the product
// of the three conditional role probabilities, per §3's chain-rule
// definition of the joint circuit distribution.
func (ps *PathSelection) CircuitProb(g, m, x int) (float64, error) {
	pe, err := ps.exitProb(x)
	if err != nil {
		return 0, err
	}
	if pe == 0 {
		return 0, nil
	}
	pg, err := ps.entryProb(g, x)
	if err != nil {
		return 0, err
	}
	if pg == 0 {
		return 0, nil
	}
	pm, err := ps.middleProb(m, g, x)
	if err != nil {
		return 0, err
	}
	return pe * pg * pm, nil
}

// N returns the relay universe size this PathSelection was built over.
func (ps *PathSelection) N() int { return ps.n }

// ExitProb returns Pr[exit == x], exported for callers (worstcase, precise)
// that need the marginal exit distribution directly rather than a full
// circuit probability.
func (ps *PathSelection) ExitProb(x int) (float64, error) { return ps.exitProb(x) }

// EntryProb returns Pr[entry == g | exit == x].
func (ps *PathSelection) EntryProb(g, x int) (float64, error) { return ps.entryProb(g, x) }

// MiddleProb returns Pr[middle == m | entry == g, exit == x].
func (ps *PathSelection) MiddleProb(m, g, x int) (float64, error) { return ps.middleProb(m, g, x) }

// MayExit, MayEntry, MayMiddle report per-slot eligibility, as computed
// during construction.
func (ps *PathSelection) MayExit(i int) bool   { return ps.inRange(i) && ps.mayExit[i] }
func (ps *PathSelection) MayEntry(i int) bool  { return ps.inRange(i) && ps.mayEntry[i] }
func (ps *PathSelection) MayMiddle(i int) bool { return ps.inRange(i) && ps.mayMiddle[i] }

// finishBuild takes the three variant-specific weight vectors and performs
// the shared remainder of construction: mass totals, related-mass
// precomputation, and NaN/Inf validation. Every exported constructor calls
// this last.
func finishBuild(snap *snapshot.NetworkSnapshot, policy relation.Policy, elig eligibility, exitW, entryW, middleW []float64) (*PathSelection, error) {
	n := snap.N()
	ps := &PathSelection{
		n:         n,
		mayExit:   elig.mayExit,
		mayEntry:  elig.mayEntry,
		mayMiddle: elig.mayMiddle,
		exitW:     exitW,
		entryW:    entryW,
		middleW:   middleW,
		policy:    policy,
		snap:      snap,
	}

	for i := 0; i < n; i++ {
		if !validWeight(exitW[i]) || !validWeight(entryW[i]) || !validWeight(middleW[i]) {
			return nil, ErrNonFiniteProbability
		}
		if elig.mayExit[i] {
			ps.sumExit += exitW[i]
		}
		if elig.mayEntry[i] {
			ps.sumEntryTotal += entryW[i]
		}
		if elig.mayMiddle[i] {
			ps.sumMiddleTotal += middleW[i]
		}
	}

	ps.relatedEntryMass = make([]float64, n)
	for x := 0; x < n; x++ {
		if !elig.mayExit[x] {
			continue
		}
		var mass float64
		for g := 0; g < n; g++ {
			if elig.mayEntry[g] && (g == x || policy.ExitEntryRelated(x, g)) {
				mass += entryW[g]
			}
		}
		ps.relatedEntryMass[x] = mass
	}

	if n >= 2 {
		pm, err := matrix.NewPairMatrix(n)
		if err != nil {
			return nil, err
		}
		for g := 0; g < n; g++ {
			if !elig.mayEntry[g] {
				continue
			}
			for x := 0; x < n; x++ {
				if x == g || !elig.mayExit[x] {
					continue
				}
				var mass float64
				for m := 0; m < n; m++ {
					if !elig.mayMiddle[m] {
						continue
					}
					if m == g || m == x || policy.ExitMiddleRelated(x, m) || policy.EntryMiddleRelated(g, m) {
						mass += middleW[m]
					}
				}
				if err := pm.Set(g, x, mass); err != nil {
					return nil, err
				}
			}
		}
		ps.relatedMiddleMass = pm
	}

	return ps, nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}
