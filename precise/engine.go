package precise

import (
	"fmt"

	"github.com/relaynet/mator/pathselect"
)

// Corners bundles the four scenario-corner PathSelections, same shape as
// worstcase.Corners.
type Corners struct {
	A1, A2, B1, B2 *pathselect.PathSelection
}

// Result holds the three exact scalar deltas §4.3 names.
type Result struct {
	DeltaSA, DeltaRA, DeltaREL float64
}

func phi(u, v float64) float64 {
	d := u - v
	if d < 0 {
		return 0
	}
	return d
}

// Engine computes the exact advantage for a fixed Observation.
type Engine struct {
	n      int
	corner Corners
	obs    Observation
}

// New builds an Engine, validating that every input spans the same relay
// universe size.
func New(corners Corners, obs Observation) (*Engine, error) {
	n := corners.A1.N()
	for _, ps := range []*pathselect.PathSelection{corners.A2, corners.B1, corners.B2} {
		if ps.N() != n {
			return nil, ErrMismatchedSnapshotSize
		}
	}
	if obs.n() != n || len(obs.ObsSenderA) != n || len(obs.ObsSenderB) != n ||
		len(obs.ObsRecipient1) != n || len(obs.ObsRecipient2) != n {
		return nil, ErrMismatchedSnapshotSize
	}
	for _, row := range obs.ObsNodes {
		if len(row) != n {
			return nil, ErrMismatchedSnapshotSize
		}
	}
	return &Engine{n: n, corner: corners, obs: obs}, nil
}

// quad holds raw probability sums pending a deferred φ, grouped exactly
// the way §4.5's tiered pattern dispatch groups them: every triple whose
// derived position-visibility resolves to the same bucket must have its
// raw probabilities pooled *before* φ is applied once per bucket — taking
// φ per triple and summing the results is not equivalent, since φ is not
// linear.
type quad struct{ a1, a2, b1, b2 float64 }

// axis names which index (or none) a triple's bucket is keyed by, given
// it fell into one of the non-trivial, non-raw branches below. A triple
// resolves to axisTriple exactly when its middle→exit bit is set (for
// sender-side buckets) or guard→middle bit is set (for recipient-side
// buckets): at that point every one of S,G,M,X,R is already pinned down
// by the triple alone, so φ is applied immediately with no pooling.
type axis int

const (
	axisTriple axis = iota
	axisG
	axisGM
	axisX
	axisXM
	axisEmpty
)

// axisSenderSide classifies a triple for recipient-anonymity-style and
// relationship-anonymity "sender known" buckets: middle→exit visible
// pins the triple down completely (§4.5 tier 3); otherwise the bucket is
// keyed by (guard,middle) when guard→middle is visible, or by guard alone
// when neither middle link is.
func axisSenderSide(guardMiddle, middleExit bool) axis {
	if middleExit {
		return axisTriple
	}
	if guardMiddle {
		return axisGM
	}
	return axisG
}

// axisRecipientSide is axisSenderSide's mirror for sender-anonymity-style
// and relationship-anonymity "recipient known" buckets, keyed by exit
// (and middle) rather than guard.
func axisRecipientSide(guardMiddle, middleExit bool) axis {
	if guardMiddle {
		return axisTriple
	}
	if middleExit {
		return axisXM
	}
	return axisX
}

// axisNeitherSide handles relationship anonymity's fourth case, where
// neither sender nor recipient identity is known: the degenerate bucket
// (no edge at all observed) is the §4.3 empty-observation pattern, folded
// in once at the very end instead of per exit.
func axisNeitherSide(guardMiddle, middleExit bool) axis {
	if guardMiddle {
		return axisTriple
	}
	if middleExit {
		return axisXM
	}
	return axisEmpty
}

// Run performs the triple-nested sweep and returns the exact scalar
// deltas, following §4.5's twelve achievable (sender, guard, middle,
// exit, recipient) visibility patterns. Rather than replay the original's
// three differently-ordered loops (a performance optimization for
// resolving each pattern at the shallowest possible loop depth), this
// sweeps g,m,x once and routes each triple's contribution into the bucket
// its pattern requires, deferring φ to a single finalize pass per bucket
// — preserving the pattern-specific aggregate-then-φ semantics without
// the loop-reordering machinery.
func (e *Engine) Run() (*Result, error) {
	n := e.n
	c := e.corner
	o := e.obs

	perG := make([]quad, n)
	perGM := make([][]quad, n)
	perX := make([]quad, n)
	perXM := make([][]quad, n)
	relSenderPerG := make([]quad, n)
	relSenderPerGM := make([][]quad, n)
	relRecipientPerX := make([]quad, n)
	relRecipientPerXM := make([][]quad, n)
	relNeitherPerXM := make([][]quad, n)
	for i := 0; i < n; i++ {
		perGM[i] = make([]quad, n)
		perXM[i] = make([]quad, n)
		relSenderPerGM[i] = make([]quad, n)
		relRecipientPerXM[i] = make([]quad, n)
		relNeitherPerXM[i] = make([]quad, n)
	}
	var relEmpty quad

	var sumSA, sumRA, sumREL float64

	for x := 0; x < n; x++ {
		for g := 0; g < n; g++ {
			if g == x {
				continue
			}
			AG := o.ObsSenderA[g]
			BG := o.ObsSenderB[g]
			for m := 0; m < n; m++ {
				if m == g || m == x {
					continue
				}

				pA1, err := c.A1.CircuitProb(g, m, x)
				if err != nil {
					return nil, wrapNonFinite(err)
				}
				pA2, err := c.A2.CircuitProb(g, m, x)
				if err != nil {
					return nil, wrapNonFinite(err)
				}
				pB1, err := c.B1.CircuitProb(g, m, x)
				if err != nil {
					return nil, wrapNonFinite(err)
				}
				pB2, err := c.B2.CircuitProb(g, m, x)
				if err != nil {
					return nil, wrapNonFinite(err)
				}
				if pA1 == 0 && pA2 == 0 && pB1 == 0 && pB2 == 0 {
					continue
				}

				GM := o.ObsNodes[g][m]
				MX := o.ObsNodes[m][x]
				X1 := o.ObsRecipient1[x]
				X2 := o.ObsRecipient2[x]

				// Sender anonymity (A1 vs B1): the sender is directly
				// identified whenever either candidate's guard edge is
				// visible, giving the adversary the raw probability
				// outright; otherwise the two candidates' probabilities
				// must be pooled over every triple sharing the same
				// (guard→middle, middle→exit) visibility before φ.
				if AG || BG {
					sumSA += pA1
				} else {
					switch axisRecipientSide(GM, MX) {
					case axisTriple:
						sumSA += phi(pA1, pB1)
					case axisXM:
						q := &perXM[x][m]
						q.a1 += pA1
						q.b1 += pB1
					default:
						q := &perX[x]
						q.a1 += pA1
						q.b1 += pB1
					}
				}

				// Recipient anonymity (A1 vs A2): mirrors sender
				// anonymity with exit↔recipient visibility in place of
				// sender↔guard visibility.
				if X1 || X2 {
					sumRA += pA1
				} else {
					switch axisSenderSide(GM, MX) {
					case axisTriple:
						sumRA += phi(pA1, pA2)
					case axisGM:
						q := &perGM[g][m]
						q.a1 += pA1
						q.a2 += pA2
					default:
						q := &perG[g]
						q.a1 += pA1
						q.a2 += pA2
					}
				}

				// Relationship anonymity (A1B2 vs A2B1): branches on
				// whether the two candidate senders and the two
				// candidate recipients are each observed symmetrically.
				// Asymmetric observation (e.g. sender A's guard edge
				// visible but sender B's is not) collapses every branch
				// to the same raw half-probability, so it needs no
				// pooling; symmetric-but-unknown observation needs the
				// same pooled-then-φ treatment as sender/recipient
				// anonymity above.
				switch {
				case AG == BG && X1 == X2:
					sg, xr := AG, X1
					switch {
					case sg && xr:
						sumREL += (pA1 + pB2) / 2
					case sg:
						switch axisSenderSide(GM, MX) {
						case axisTriple:
							sumREL += (phi(pA1, pA2) + phi(pB2, pB1)) / 2
						case axisGM:
							q := &relSenderPerGM[g][m]
							q.a1 += pA1
							q.a2 += pA2
							q.b1 += pB1
							q.b2 += pB2
						default:
							q := &relSenderPerG[g]
							q.a1 += pA1
							q.a2 += pA2
							q.b1 += pB1
							q.b2 += pB2
						}
					case xr:
						switch axisRecipientSide(GM, MX) {
						case axisTriple:
							sumREL += (phi(pA1, pB1) + phi(pB2, pA2)) / 2
						case axisXM:
							q := &relRecipientPerXM[x][m]
							q.a1 += pA1
							q.b1 += pB1
							q.a2 += pA2
							q.b2 += pB2
						default:
							q := &relRecipientPerX[x]
							q.a1 += pA1
							q.b1 += pB1
							q.a2 += pA2
							q.b2 += pB2
						}
					default:
						switch axisNeitherSide(GM, MX) {
						case axisTriple:
							sumREL += phi((pA1+pB2)/2, (pA2+pB1)/2)
						case axisXM:
							q := &relNeitherPerXM[x][m]
							q.a1 += pA1
							q.a2 += pA2
							q.b1 += pB1
							q.b2 += pB2
						default:
							relEmpty.a1 += pA1
							relEmpty.a2 += pA2
							relEmpty.b1 += pB1
							relEmpty.b2 += pB2
						}
					}
				case AG != BG && X1 == X2:
					if X1 {
						sumREL += (pA1 + pB2) / 2
					} else {
						if AG {
							sumREL += phi(pA1, pA2) / 2
						} else {
							sumREL += phi(pA1/2, pA2/2)
						}
						if BG {
							sumREL += phi(pB2, pB1) / 2
						} else {
							sumREL += phi(pB2/2, pB1/2)
						}
					}
				case AG == BG && X1 != X2:
					if AG {
						sumREL += (pA1 + pB2) / 2
					} else {
						if X1 {
							sumREL += phi(pA1, pB1) / 2
						} else {
							sumREL += phi(pA1/2, pB1/2)
						}
						if X2 {
							sumREL += phi(pB2, pA2) / 2
						} else {
							sumREL += phi(pB2/2, pA2/2)
						}
					}
				default: // AG != BG && X1 != X2: fully asymmetric, always raw.
					sumREL += (pA1 + pB2) / 2
				}
			}
		}
	}

	for g := 0; g < n; g++ {
		q := perG[g]
		sumRA += phi(q.a1, q.a2)
		qr := relSenderPerG[g]
		sumREL += (phi(qr.a1, qr.a2) + phi(qr.b2, qr.b1)) / 2
	}
	for g := 0; g < n; g++ {
		for m := 0; m < n; m++ {
			q := perGM[g][m]
			sumRA += phi(q.a1, q.a2)
			qr := relSenderPerGM[g][m]
			sumREL += (phi(qr.a1, qr.a2) + phi(qr.b2, qr.b1)) / 2
		}
	}
	for x := 0; x < n; x++ {
		q := perX[x]
		sumSA += phi(q.a1, q.b1)
		qr := relRecipientPerX[x]
		sumREL += (phi(qr.a1, qr.b1) + phi(qr.b2, qr.a2)) / 2
	}
	for x := 0; x < n; x++ {
		for m := 0; m < n; m++ {
			q := perXM[x][m]
			sumSA += phi(q.a1, q.b1)
			qr := relRecipientPerXM[x][m]
			sumREL += (phi(qr.a1, qr.b1) + phi(qr.b2, qr.a2)) / 2
			qn := relNeitherPerXM[x][m]
			sumREL += phi((qn.a1+qn.b2)/2, (qn.a2+qn.b1)/2)
		}
	}

	// Empty-observation handling (§4.3): the (0,0,0,0,0) pattern — no
	// edge observed anywhere along either candidate circuit — is folded
	// into relationship anonymity via a single φ on the pooled marginals.
	sumREL += phi((relEmpty.a1+relEmpty.b2)/2, (relEmpty.a2+relEmpty.b1)/2)

	return &Result{DeltaSA: sumSA, DeltaRA: sumRA, DeltaREL: sumREL}, nil
}

func wrapNonFinite(err error) error {
	return fmt.Errorf("%v: %w", err, ErrNonFiniteProbability)
}
