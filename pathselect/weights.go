package pathselect

import (
	"fmt"
	"sort"

	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
)

// NewVanilla builds the consensus bandwidth-weighted variant: weight(i) =
// bandwidth(i) * roleWeight(role, flagSubset(i)), matching PSTor.
func NewVanilla(snap *snapshot.NetworkSnapshot, policy relation.Policy, params EligibilityParams) (*PathSelection, error) {
	elig, err := computeEligibility(snap, policy, params)
	if err != nil {
		return nil, err
	}
	n := snap.N()
	exitW := make([]float64, n)
	entryW := make([]float64, n)
	middleW := make([]float64, n)
	w := snap.Weights()
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return nil, err
		}
		bw := float64(r.Bandwidth)
		fs := snapshot.SubsetOf(r.Flags.Has(relay.Guard), r.Flags.Has(relay.Exit))
		exitW[i] = bw * w.Lookup(snapshot.RoleExit, fs)
		entryW[i] = bw * w.Lookup(snapshot.RoleEntry, fs)
		middleW[i] = bw * w.Lookup(snapshot.RoleMiddle, fs)
	}
	return finishBuild(snap, policy, elig, exitW, entryW, middleW)
}

// NewUniform builds the degenerate uniform variant: every eligible relay in
// a role gets weight 1, matching PSUniform and §8's "uniform variant
// degenerates to 1/|eligible set|" testable property.
func NewUniform(snap *snapshot.NetworkSnapshot, policy relation.Policy, params EligibilityParams) (*PathSelection, error) {
	elig, err := computeEligibility(snap, policy, params)
	if err != nil {
		return nil, err
	}
	n := snap.N()
	exitW := make([]float64, n)
	entryW := make([]float64, n)
	middleW := make([]float64, n)
	for i := 0; i < n; i++ {
		if elig.mayExit[i] {
			exitW[i] = 1
		}
		if elig.mayEntry[i] {
			entryW[i] = 1
		}
		if elig.mayMiddle[i] {
			middleW[i] = 1
		}
	}
	return finishBuild(snap, policy, elig, exitW, entryW, middleW)
}

// NewCountryRestricted builds PSSelektor: identical to the vanilla weighted
// model, except relays outside allowedCountries are excluded from every
// role regardless of their flags.
func NewCountryRestricted(snap *snapshot.NetworkSnapshot, policy relation.Policy, params EligibilityParams, allowedCountries map[string]bool) (*PathSelection, error) {
	elig, err := computeEligibility(snap, policy, params)
	if err != nil {
		return nil, err
	}
	n := snap.N()
	exitW := make([]float64, n)
	entryW := make([]float64, n)
	middleW := make([]float64, n)
	w := snap.Weights()
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return nil, err
		}
		if !allowedCountries[r.Geo.Country] {
			elig.mayExit[i] = false
			elig.mayEntry[i] = false
			elig.mayMiddle[i] = false
			continue
		}
		bw := float64(r.Bandwidth)
		fs := snapshot.SubsetOf(r.Flags.Has(relay.Guard), r.Flags.Has(relay.Exit))
		exitW[i] = bw * w.Lookup(snapshot.RoleExit, fs)
		entryW[i] = bw * w.Lookup(snapshot.RoleEntry, fs)
		middleW[i] = bw * w.Lookup(snapshot.RoleMiddle, fs)
	}
	return finishBuild(snap, policy, elig, exitW, entryW, middleW)
}

// NewBandwidthRedistribution builds PSDistribuTor: a water-filling cap
// search that redistributes bandwidth so a bandwidthFraction share of total
// capacity is consumed by the exit role, then the entry role out of the
// remainder, with middle absorbing whatever is left — grounded precisely on
// ps_distributor.cpp's compBWExit/compBWEntry threshold search.
func NewBandwidthRedistribution(snap *snapshot.NetworkSnapshot, policy relation.Policy, params EligibilityParams, bandwidthFraction float64) (*PathSelection, error) {
	if bandwidthFraction < 0 || bandwidthFraction > 1 {
		return nil, fmt.Errorf("NewBandwidthRedistribution(%g): %w", bandwidthFraction, ErrInvalidBandwidthFraction)
	}
	elig, err := computeEligibility(snap, policy, params)
	if err != nil {
		return nil, err
	}
	n := snap.N()

	var total float64
	bandwidths := make([]float64, n)
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return nil, err
		}
		bandwidths[i] = float64(r.Bandwidth)
		total += bandwidths[i]
	}

	exitW := waterFillCap(bandwidths, elig.mayExit, total*bandwidthFraction)

	var exitConsumed float64
	for i := 0; i < n; i++ {
		exitConsumed += exitW[i]
	}
	entryW := waterFillCap(bandwidths, elig.mayEntry, (total-exitConsumed)*bandwidthFraction)

	middleW := make([]float64, n)
	for i := 0; i < n; i++ {
		if !elig.mayMiddle[i] {
			continue
		}
		remainder := bandwidths[i] - exitW[i] - entryW[i]
		if remainder < 0 {
			remainder = 0
		}
		middleW[i] = remainder
	}

	return finishBuild(snap, policy, elig, exitW, entryW, middleW)
}

// waterFillCap implements the ascending-sort threshold search shared by
// compBWExit and compBWEntry: find the bandwidth value `cap` such that
// summing min(bandwidth[i], cap) over eligible relays equals goal exactly,
// then return per-relay weight = min(bandwidth[i], cap).
func waterFillCap(bandwidths []float64, eligible []bool, goal float64) []float64 {
	n := len(bandwidths)
	out := make([]float64, n)
	if goal <= 0 {
		return out
	}

	var idx []int
	for i := 0; i < n; i++ {
		if eligible[i] {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return bandwidths[idx[a]] < bandwidths[idx[b]] })

	relaysLeft := len(idx)
	var accumW float64
	for pos, i := range idx {
		currentW := bandwidths[i]
		remaining := relaysLeft - pos
		if accumW+float64(remaining)*currentW >= goal {
			capW := (goal - accumW) / float64(remaining)
			for _, j := range idx[pos:] {
				out[j] = capW
			}
			return out
		}
		accumW += currentW
		out[i] = currentW
	}
	// goal exceeds total eligible bandwidth: every eligible relay gets its
	// full bandwidth, nothing more to distribute.
	return out
}
