package pathselect

import (
	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
)

// EligibilityParams configures the role-eligibility step shared by every
// PathSelection variant (§4.1 step 1).
type EligibilityParams struct {
	// RequireValid and RequireRunning gate every role on the Valid/Running
	// flags. Both default to true in DefaultEligibilityParams.
	RequireValid   bool
	RequireRunning bool

	// RecipientPorts are the destination ports this circuit must reach;
	// an exit must accept at least one. LongLivedPorts is the subset of
	// ports that additionally require the Stable flag.
	RecipientPorts []uint16
	LongLivedPorts map[uint16]bool

	// ExplicitGuards, if non-nil, admits relay indices into mayEntry even
	// without the Guard flag (a caller-pinned guard list).
	ExplicitGuards map[int]bool
}

// DefaultEligibilityParams returns the conventional {Valid, Running}
// baseline with no long-lived ports and no explicit guard list.
func DefaultEligibilityParams(recipientPorts []uint16) EligibilityParams {
	return EligibilityParams{
		RequireValid:   true,
		RequireRunning: true,
		RecipientPorts: recipientPorts,
	}
}

func (p EligibilityParams) baseFlagsOK(r relay.Relay) bool {
	if p.RequireValid && !r.Flags.Has(relay.Valid) {
		return false
	}
	if p.RequireRunning && !r.Flags.Has(relay.Running) {
		return false
	}
	return true
}

func (p EligibilityParams) needsStable() bool {
	for port := range p.LongLivedPorts {
		for _, want := range p.RecipientPorts {
			if port == want {
				return true
			}
		}
	}
	return false
}

// eligibility is the output of computeEligibility: a plain bool-per-role
// snapshot used by every weight-assignment variant.
type eligibility struct {
	mayExit, mayEntry, mayMiddle []bool
}

// computeEligibility implements §4.1 step 1, identically for all variants.
func computeEligibility(snap *snapshot.NetworkSnapshot, policy relation.Policy, params EligibilityParams) (eligibility, error) {
	n := snap.N()
	stableRequired := params.needsStable()

	mayEntry := make([]bool, n)
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return eligibility{}, err
		}
		if !params.baseFlagsOK(r) {
			continue
		}
		if stableRequired && !r.Flags.Has(relay.Stable) {
			continue
		}
		explicit := params.ExplicitGuards != nil && params.ExplicitGuards[i]
		if r.Flags.Has(relay.Guard) || explicit {
			mayEntry[i] = true
		}
	}

	var guardCandidates []int
	for i, ok := range mayEntry {
		if ok {
			guardCandidates = append(guardCandidates, i)
		}
	}

	// Exit-support tie-break: among flag/port-eligible candidates, keep
	// only those matching the largest recipient-port-support cardinality.
	bestSupport := -1
	support := make([]int, n)
	candidateOK := make([]bool, n)
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return eligibility{}, err
		}
		if !params.baseFlagsOK(r) {
			continue
		}
		if stableRequired && !r.Flags.Has(relay.Stable) {
			continue
		}
		if !r.Flags.Has(relay.Exit) || r.Flags.Has(relay.BadExit) {
			continue
		}
		s := r.Policy.SupportedPortCount(params.RecipientPorts)
		if s == 0 {
			continue
		}
		candidateOK[i] = true
		support[i] = s
		if s > bestSupport {
			bestSupport = s
		}
	}

	mayExit := make([]bool, n)
	for i := 0; i < n; i++ {
		if !candidateOK[i] || support[i] != bestSupport {
			continue
		}
		if len(guardCandidates) == 1 && guardCandidates[0] == i {
			continue // the unique guard may not also be the exit
		}
		if relatedToEveryGuard(policy, i, guardCandidates) {
			continue
		}
		mayExit[i] = true
	}

	mayMiddle := make([]bool, n)
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		if err != nil {
			return eligibility{}, err
		}
		mayMiddle[i] = params.baseFlagsOK(r)
	}

	return eligibility{mayExit: mayExit, mayEntry: mayEntry, mayMiddle: mayMiddle}, nil
}

func relatedToEveryGuard(policy relation.Policy, exitIdx int, guardCandidates []int) bool {
	if len(guardCandidates) == 0 {
		return false
	}
	for _, g := range guardCandidates {
		if !policy.ExitEntryRelated(exitIdx, g) {
			return false
		}
	}
	return true
}
