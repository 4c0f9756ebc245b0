package snapshot

// Role is the slot a relay occupies in a circuit being weighed.
type Role int

const (
	RoleEntry Role = iota
	RoleMiddle
	RoleExit
)

// FlagSubset buckets a relay's Guard/Exit flags for the role-weight table.
// It deliberately ignores every other consensus flag: the multiplier table
// only ever distinguishes relays on these four buckets, matching Tor's own
// bandwidth-weights line (Wgg/Wgd/Wmg/... keyed on guard+exit combinations).
type FlagSubset int

const (
	SubsetNeither FlagSubset = iota
	SubsetGuard
	SubsetExit
	SubsetGuardExit
)

// RoleWeightKey indexes the RoleWeightTable.
type RoleWeightKey struct {
	Role   Role
	Subset FlagSubset
}

// RoleWeightTable holds the consensus-derived multiplier for each
// (role, flag-subset) combination used by the vanilla weighted
// path-selection model: weight = bandwidth * multiplier(role, flags).
//
// The real consensus's bandwidth-weights line populates eleven of the
// twelve (role, subset) combinations — (RoleEntry, SubsetExit) never
// arises, since a relay without the Guard flag is never eligible for the
// entry slot regardless of whether it also carries Exit. Lookup returns
// 1.0 (a neutral multiplier) for any key the table was not given, so a
// caller supplying fewer than eleven entries degrades gracefully rather
// than panicking.
type RoleWeightTable struct {
	entries map[RoleWeightKey]float64
}

// NewRoleWeightTable builds a RoleWeightTable from the given entries.
// Copies the map so the caller's map may be reused or mutated afterward.
func NewRoleWeightTable(entries map[RoleWeightKey]float64) RoleWeightTable {
	cp := make(map[RoleWeightKey]float64, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return RoleWeightTable{entries: cp}
}

// Lookup returns the multiplier for (role, subset), defaulting to 1.0.
func (t RoleWeightTable) Lookup(role Role, subset FlagSubset) float64 {
	if v, ok := t.entries[RoleWeightKey{Role: role, Subset: subset}]; ok {
		return v
	}
	return 1.0
}

// SubsetOf derives the FlagSubset for a relay's guard/exit flag pair.
func SubsetOf(hasGuard, hasExit bool) FlagSubset {
	switch {
	case hasGuard && hasExit:
		return SubsetGuardExit
	case hasGuard:
		return SubsetGuard
	case hasExit:
		return SubsetExit
	default:
		return SubsetNeither
	}
}
