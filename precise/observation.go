package precise

// Observation is the adversary's fixed view of the network, per §4.3:
// which sender→guard and exit→recipient edges are visible or the endpoint
// itself is compromised, and which middle-hop links are visible.
type Observation struct {
	// ObsNodes[i][j] reports whether a link between relay i and relay j is
	// observed — used for both the guard→middle and middle→exit edges.
	ObsNodes [][]bool

	// ObsSenderA[g]/ObsSenderB[g] report whether sender A/B's edge to
	// guard g is observed (including the case where g itself is
	// compromised, folded in by the caller before passing this in).
	ObsSenderA, ObsSenderB []bool

	// ObsRecipient1[x]/ObsRecipient2[x] report whether exit x's edge to
	// recipient 1/2 is observed.
	ObsRecipient1, ObsRecipient2 []bool
}

// n returns the relay universe size the observation covers (the side of
// ObsNodes). engine.go reads the four raw per-triple visibility bits
// §4.5's twelve-pattern catalogue is built from — sender→guard,
// guard→middle, middle→exit, exit→recipient — straight from the fields
// above. Position-visibility (the derived "is the
// sender/guard/middle/exit/recipient identity known" tuple the original
// observation[5] propagates) is never materialized as its own type here;
// engine.go folds the propagation (S=SG, G=SG||GM, M=GM||MX, X=MX||XR,
// R=XR) directly into the per-notion case splits, since SA/RA/REL each
// only ever consult two of the five derived positions (sender+recipient
// identity) and the outcome only depends on which of the four raw bits
// are set, not on materializing all five derived booleans.
func (o Observation) n() int { return len(o.ObsNodes) }
