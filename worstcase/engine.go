package worstcase

import (
	"fmt"

	"github.com/relaynet/mator/matrix"
	"github.com/relaynet/mator/pathselect"
	"github.com/relaynet/mator/workpool"
)

// Corners bundles the four (sender, recipient) scenario corners'
// PathSelections: A1, A2, B1, B2, matching §4.2's psA1/psA2/psB1/psB2.
type Corners struct {
	A1, A2, B1, B2 *pathselect.PathSelection
}

// Deltas holds the worst-case accumulator output: per-node vectors and
// per-relay-pair tensors for sender, recipient, and relationship
// anonymity, plus the two direct scalar advantages.
//
// Per §9's scope note (see DESIGN.md), the three pair-observation kinds
// named in §4.2 — (entry,middle), (exit,middle), (entry,exit) — are
// accumulated into one combined PairMatrix per notion/scenario rather than
// three separate tensors: all three represent the same "this pair of
// relays co-occurs in a forbidden/advantaged configuration" mass, and
// keeping them separate would triple the tensor count without changing
// any query this package exposes.
type Deltas struct {
	DeltaSA1, DeltaSA2   []float64
	DeltaRA1, DeltaRA2   []float64
	DeltaRel1, DeltaRel2 []float64

	PairSA1, PairSA2   *matrix.PairMatrix
	PairRA1, PairRA2   *matrix.PairMatrix
	PairRel1, PairRel2 *matrix.PairMatrix

	DeltaServer1, DeltaServer2 float64
	DeltaISP1, DeltaISP2       float64
}

// phi is the one-sided advantage: max(0, u-v).
func phi(u, v float64) float64 {
	d := u - v
	if d < 0 {
		return 0
	}
	return d
}

// Engine runs the worst-case sweep described in §4.2 over a fixed set of
// Corners, dispatched across a workpool.WorkPool.
type Engine struct {
	n      int
	pool   *workpool.WorkPool
	corner Corners
}

// New builds an Engine. pool's worker count governs how the outer (exit)
// index is chunked; pool must not have had RunToCompletion called yet.
func New(pool *workpool.WorkPool, corners Corners) (*Engine, error) {
	n := corners.A1.N()
	for _, ps := range []*pathselect.PathSelection{corners.A2, corners.B1, corners.B2} {
		if ps.N() != n {
			return nil, ErrMismatchedSnapshotSize
		}
	}
	return &Engine{n: n, pool: pool, corner: corners}, nil
}

// Run performs the full triple-nested sweep and returns the accumulated
// Deltas. Triples are partitioned by the outermost (exit) index across
// e.pool's workers. Accumulators that every chunk can touch are
// AtomicFloat64-backed (atomicVec, atomicDense) and use the mutex-free CAS
// add; accumulators keyed by exit are plain slices and matrix.Dense cells
// written only by the chunk owning that exit (see accumChunk). The
// PairMatrix tensors are built from these in finalize, after the pool
// barrier.
func (e *Engine) Run() (*Deltas, error) {
	n := e.n

	atoms, err := newAtomicDeltas(n)
	if err != nil {
		return nil, err
	}

	chunks, err := chunkRanges(n, e.pool.Workers())
	if err != nil {
		return nil, err
	}

	errs := make([]error, len(chunks))
	for ci, chunk := range chunks {
		ci, chunk := ci, chunk
		if err := e.pool.Submit(func() {
			errs[ci] = e.accumChunk(chunk, atoms)
		}); err != nil {
			return nil, err
		}
	}
	if err := e.pool.RunToCompletion(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return atoms.finalize(), nil
}

type rangeChunk struct{ lo, hi int }

func chunkRanges(n, workers int) ([]rangeChunk, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("worstcase: chunkRanges(%d,%d): %w", n, workers, ErrOutOfRangeIndex)
	}
	if n == 0 {
		return nil, nil
	}
	size := (n + workers - 1) / workers
	var chunks []rangeChunk
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		chunks = append(chunks, rangeChunk{lo: lo, hi: hi})
	}
	return chunks, nil
}

// accumChunk sweeps exit indices in [chunk.lo, chunk.hi), entry and middle
// over the full [0,n) range, and folds every observation into atoms. Per
// §4.2, only the middle role's delta is the raw per-triple phi; the exit
// role's delta is computed by first summing the joint circuit probability
// over every guard into a local, per-exit scratch (middleExitSum), and the
// entry role's delta is computed from marginals pooled over the other two
// roles (probEntryMiddle*, pooled over exit; probEntry*, pooled over both
// middle and exit) — phi is applied only after that pooling, in finalize.
// The exit index is chunk-exclusive, so every matrix keyed with exit as one
// axis (probExitEntryRel, deltaExitMiddleRel, the Guard-Exit indirect-impact
// matrices, impactSen2, gmProbForX) is safe as a plain matrix.Dense: two
// chunks never address the same flat offset. Matrices keyed by (entry,
// middle) or (node, entry) alone (probEntryMiddle*, impactRec2, mxProbForG)
// have no exclusive axis and go through atomicDense instead.
func (e *Engine) accumChunk(chunk rangeChunk, atoms *atomicDeltas) error {
	c := e.corner
	n := e.n

	middleExitSumA1 := make([]float64, n)
	middleExitSumA2 := make([]float64, n)
	middleExitSumB1 := make([]float64, n)
	middleExitSumB2 := make([]float64, n)

	for x := chunk.lo; x < chunk.hi; x++ {
		for i := range middleExitSumA1 {
			middleExitSumA1[i] = 0
			middleExitSumA2[i] = 0
			middleExitSumB1[i] = 0
			middleExitSumB2[i] = 0
		}

		exitA1, err := c.A1.ExitProb(x)
		if err != nil {
			return wrapNonFinite(err)
		}
		exitA2, err := c.A2.ExitProb(x)
		if err != nil {
			return wrapNonFinite(err)
		}
		exitB1, err := c.B1.ExitProb(x)
		if err != nil {
			return wrapNonFinite(err)
		}
		exitB2, err := c.B2.ExitProb(x)
		if err != nil {
			return wrapNonFinite(err)
		}
		if exitA1 == 0 && exitA2 == 0 && exitB1 == 0 && exitB2 == 0 {
			continue
		}

		atoms.server1.Add(phi(exitA1, exitB1))
		atoms.server2.Add(phi(exitB1, exitA1))

		// The exit marginal, already pooled over every (guard, middle):
		// finalize takes phi between the A1 and A2 values as this relay's
		// exit-role recipient-anonymity delta.
		atoms.probExitRA1[x] = exitA1
		atoms.probExitRA2[x] = exitA2

		for g := 0; g < n; g++ {
			if g == x {
				continue
			}

			entryCondA1, err := c.A1.EntryProb(g, x)
			if err != nil {
				return wrapNonFinite(err)
			}
			entryCondA2, err := c.A2.EntryProb(g, x)
			if err != nil {
				return wrapNonFinite(err)
			}
			entryCondB1, err := c.B1.EntryProb(g, x)
			if err != nil {
				return wrapNonFinite(err)
			}
			entryCondB2, err := c.B2.EntryProb(g, x)
			if err != nil {
				return wrapNonFinite(err)
			}

			gxA1 := exitA1 * entryCondA1
			gxA2 := exitA2 * entryCondA2
			gxB1 := exitB1 * entryCondB1
			gxB2 := exitB2 * entryCondB2
			if gxA1 == 0 && gxA2 == 0 && gxB1 == 0 && gxB2 == 0 {
				continue
			}

			atoms.probEntryA1.add(g, gxA1)
			atoms.probEntryA2.add(g, gxA2)
			atoms.probEntryB1.add(g, gxB1)

			if err := atoms.probExitEntryRel1.Set(x, g, (gxA1+gxB2)/2); err != nil {
				return err
			}
			if err := atoms.probExitEntryRel2.Set(x, g, (gxA2+gxB1)/2); err != nil {
				return err
			}

			for m := 0; m < n; m++ {
				if m == g || m == x {
					continue
				}

				pA1, err := c.A1.CircuitProb(g, m, x)
				if err != nil {
					return wrapNonFinite(err)
				}
				pA2, err := c.A2.CircuitProb(g, m, x)
				if err != nil {
					return wrapNonFinite(err)
				}
				pB1, err := c.B1.CircuitProb(g, m, x)
				if err != nil {
					return wrapNonFinite(err)
				}
				pB2, err := c.B2.CircuitProb(g, m, x)
				if err != nil {
					return wrapNonFinite(err)
				}
				if pA1 == 0 && pA2 == 0 && pB1 == 0 && pB2 == 0 {
					continue
				}

				middleExitSumA1[m] += pA1
				middleExitSumA2[m] += pA2
				middleExitSumB1[m] += pB1
				middleExitSumB2[m] += pB2

				atoms.probEntryMiddleA1.add(g, m, pA1)
				atoms.probEntryMiddleA2.add(g, m, pA2)
				atoms.probEntryMiddleB1.add(g, m, pB1)
				atoms.probEntryMiddleB2.add(g, m, pB2)

				// Middle role: raw per-triple phi, no marginalization.
				atoms.deltaMiddleSA1.add(m, phi(pA1, pB1))
				atoms.deltaMiddleSA2.add(m, phi(pB1, pA1))
				atoms.deltaMiddleRA1.add(m, phi(pA1, pA2))
				atoms.deltaMiddleRA2.add(m, phi(pA2, pA1))

				relA1 := (pA1 + pB2) / 2
				relA2 := (pB1 + pA2) / 2
				atoms.deltaTriple1.add(m, phi(relA1, relA2))
				atoms.deltaTriple2.add(m, phi(relA2, relA1))

				atoms.deltaEntryMiddleRel1.add(g, m, phi(pA1, pA2)+phi(pB2, pB1))
				atoms.deltaEntryMiddleRel2.add(g, m, phi(pA2, pA1)+phi(pB1, pB2))

				if err := atoms.deltaExitMiddleRel1.Add(x, m, phi(pA1, pB1)+phi(pB2, pA2)); err != nil {
					return err
				}
				if err := atoms.deltaExitMiddleRel2.Add(x, m, phi(pB1, pA1)+phi(pA2, pB2)); err != nil {
					return err
				}

				// Indirect Guard-Exit impacts, summed over every middle.
				ge := atoms.impactGE
				if err := ge.A1A2.Add(g, x, phi(pA1, pA2)); err != nil {
					return err
				}
				if err := ge.A2A1.Add(g, x, phi(pA2, pA1)); err != nil {
					return err
				}
				if err := ge.B1B2.Add(g, x, phi(pB1, pB2)); err != nil {
					return err
				}
				if err := ge.B2B1.Add(g, x, phi(pB2, pB1)); err != nil {
					return err
				}
				if err := ge.A1B1.Add(g, x, phi(pA1, pB1)); err != nil {
					return err
				}
				if err := ge.B1A1.Add(g, x, phi(pB1, pA1)); err != nil {
					return err
				}
				if err := ge.A2B2.Add(g, x, phi(pA2, pB2)); err != nil {
					return err
				}
				if err := ge.B2A2.Add(g, x, phi(pB2, pA2)); err != nil {
					return err
				}

				atoms.impactRec2A1B1.add(g, m, phi(pA1, pB1))
				atoms.impactRec2B1A1.add(g, m, phi(pB1, pA1))

				if err := atoms.impactSen2A1A2.Add(m, x, phi(pA1, pA2)); err != nil {
					return err
				}
				if err := atoms.impactSen2A2A1.Add(m, x, phi(pA2, pA1)); err != nil {
					return err
				}

				if err := atoms.gmProbForXA1.Add(g, x, pA1); err != nil {
					return err
				}
				if err := atoms.gmProbForXA1.Add(m, x, pA1); err != nil {
					return err
				}
				if err := atoms.gmProbForXB1.Add(g, x, pB1); err != nil {
					return err
				}
				if err := atoms.gmProbForXB1.Add(m, x, pB1); err != nil {
					return err
				}

				atoms.mxProbForGA1.add(m, g, pA1)
				atoms.mxProbForGA1.add(x, g, pA1)
				atoms.mxProbForGA2.add(m, g, pA2)
				atoms.mxProbForGA2.add(x, g, pA2)
			}
		}

		for m := 0; m < n; m++ {
			atoms.deltaExitSA1[x] += phi(middleExitSumA1[m], middleExitSumB1[m])
			atoms.deltaExitSA2[x] += phi(middleExitSumB1[m], middleExitSumA1[m])
			atoms.deltaExitRel1[x] += phi(middleExitSumA1[m], middleExitSumB1[m]) + phi(middleExitSumB2[m], middleExitSumA2[m])
			atoms.deltaExitRel2[x] += phi(middleExitSumB1[m], middleExitSumA1[m]) + phi(middleExitSumA2[m], middleExitSumB2[m])
		}
	}
	return nil
}

func wrapNonFinite(err error) error {
	return fmt.Errorf("%v: %w", err, ErrNonFiniteProbability)
}
