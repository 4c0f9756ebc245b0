package worstcase

import (
	"github.com/relaynet/mator/matrix"
	"github.com/relaynet/mator/workpool"
)

// atomicVec is an AtomicFloat64 accumulator per node index, grounded on
// ShorTor's myatomic_type vectors: multiple exit-partitioned chunks can
// each touch any (g, m) node index (only the outer exit index x is
// chunk-exclusive), so every node cell needs the CAS-retry add workpool's
// AtomicFloat64 provides.
type atomicVec []*workpool.AtomicFloat64

func newAtomicVec(n int) atomicVec {
	v := make(atomicVec, n)
	for i := range v {
		v[i] = workpool.NewAtomicFloat64(0)
	}
	return v
}

func (v atomicVec) add(i int, delta float64) {
	if delta == 0 {
		return
	}
	v[i].Add(delta)
}

func (v atomicVec) snapshot() []float64 {
	out := make([]float64, len(v))
	for i, a := range v {
		out[i] = a.Load()
	}
	return out
}

// atomicDense is an ordered n×n AtomicFloat64 accumulator (no triangular
// folding, unlike matrix.PairMatrix). It backs the pooled cross-chunk
// matrices the indirect-impact and entry/middle-pooling sub-algorithms of
// §4.2 need: probForEntryMiddlePair{A1,A2,B1,B2}, deltaForEntryMiddleRel,
// impactIndirectRec2{A1B1,B1A1} and mxProbForG{A1,A2} in
// generic_worst_case_anonymity.cpp. Every one of these is addressed by an
// (entry, middle) or (node, entry) pair where *neither* axis is the
// chunk-exclusive exit index, so two different exit chunks can genuinely
// race on the same cell and need a CAS-retry add.
type atomicDense struct {
	n    int
	data []*workpool.AtomicFloat64
}

func newAtomicDense(n int) *atomicDense {
	data := make([]*workpool.AtomicFloat64, n*n)
	for i := range data {
		data[i] = workpool.NewAtomicFloat64(0)
	}
	return &atomicDense{n: n, data: data}
}

func (d *atomicDense) add(i, j int, delta float64) {
	if delta == 0 {
		return
	}
	d.data[i*d.n+j].Add(delta)
}

func (d *atomicDense) at(i, j int) float64 {
	return d.data[i*d.n+j].Load()
}

// Rows and Cols let atomicDense stand in as a matrix.Matrix for
// matrix.ValidateSquare/ValidateSameShape below.
func (d *atomicDense) Rows() int { return d.n }
func (d *atomicDense) Cols() int { return d.n }

// indirectGE holds the eight Guard-Exit indirect-impact matrices
// (generic_worst_case_anonymity.cpp:152-160's impactIndirect{A1A2,...}):
// each is keyed [entry][exit], so the exit axis is always the
// chunk-exclusive one and every cell is touched by exactly one goroutine
// for the life of the sweep — safe as plain matrix.Dense under the same
// barrier-then-read discipline deltaExitMiddleRel relies on below.
type indirectGE struct {
	A1A2, A2A1 *matrix.Dense
	B1B2, B2B1 *matrix.Dense
	A1B1, B1A1 *matrix.Dense
	A2B2, B2A2 *matrix.Dense
}

func newIndirectGE(n int) (*indirectGE, error) {
	var ge indirectGE
	slots := []**matrix.Dense{
		&ge.A1A2, &ge.A2A1, &ge.B1B2, &ge.B2B1,
		&ge.A1B1, &ge.B1A1, &ge.A2B2, &ge.B2A2,
	}
	for _, slot := range slots {
		m, err := matrix.NewDense(n, n)
		if err != nil {
			return nil, err
		}
		*slot = m
	}
	return &ge, nil
}

// atomicDeltas holds every accumulator the sweep writes into: atomic
// cells for structures more than one exit-chunk can touch concurrently,
// plain matrix.Dense/slices for structures exclusively owned by the
// goroutine processing a given exit index (safe to write without
// synchronization once every write targets a distinct (row, exit) or
// (exit, col) cell, made visible across goroutines by the workpool's
// RunToCompletion barrier before any serial read in finalize).
type atomicDeltas struct {
	n int

	// Per-middle-node accumulators: raw per-triple phi. Per §4.2 the
	// middle role is the one role that does NOT need marginalization
	// before phi — entry and exit do (see probEntry*/finalize below).
	deltaMiddleSA1, deltaMiddleSA2 atomicVec
	deltaMiddleRA1, deltaMiddleRA2 atomicVec
	deltaTriple1, deltaTriple2     atomicVec

	// Per-entry-node pooled marginal: summed over every (middle, exit)
	// the entry routes through, across every chunk, before phi is taken
	// in finalize.
	probEntryA1, probEntryA2, probEntryB1 atomicVec

	// Per-exit-node accumulators: exclusively written by the goroutine
	// owning that exit index, so plain slices suffice.
	probExitRA1, probExitRA2     []float64
	deltaExitSA1, deltaExitSA2   []float64
	deltaExitRel1, deltaExitRel2 []float64

	// [entry][middle] pooled joint probabilities, shared across every
	// exit that routes through a given (entry, middle) pair — the
	// "probForEntryMiddlePair" marginal the entry-role finalization phi's.
	probEntryMiddleA1, probEntryMiddleA2       *atomicDense
	probEntryMiddleB1, probEntryMiddleB2       *atomicDense
	deltaEntryMiddleRel1, deltaEntryMiddleRel2 *atomicDense

	// [exit][entry] and [exit][middle]: exit-exclusive, plain Dense.
	probExitEntryRel1, probExitEntryRel2     *matrix.Dense
	deltaExitMiddleRel1, deltaExitMiddleRel2 *matrix.Dense

	// Indirect-impact sub-algorithm accumulators (§4.2's "Indirect pair
	// impact"), grounded on generic_worst_case_anonymity.cpp:150-170.
	impactGE                       *indirectGE
	impactRec2A1B1, impactRec2B1A1 *atomicDense // [entry][middle], shared across chunks
	impactSen2A1A2, impactSen2A2A1 *matrix.Dense // [middle][exit], exit-exclusive
	gmProbForXA1, gmProbForXB1     *matrix.Dense // [node][exit], exit-exclusive
	mxProbForGA1, mxProbForGA2     *atomicDense  // [node][entry], shared across chunks

	server1, server2 *workpool.AtomicFloat64
}

func newAtomicDeltas(n int) (*atomicDeltas, error) {
	ge, err := newIndirectGE(n)
	if err != nil {
		return nil, err
	}

	denseSlots := make([]**matrix.Dense, 0, 8)
	d := &atomicDeltas{n: n}
	denseSlots = append(denseSlots,
		&d.probExitEntryRel1, &d.probExitEntryRel2,
		&d.deltaExitMiddleRel1, &d.deltaExitMiddleRel2,
		&d.impactSen2A1A2, &d.impactSen2A2A1,
		&d.gmProbForXA1, &d.gmProbForXB1,
	)
	for _, slot := range denseSlots {
		m, err := matrix.NewDense(n, n)
		if err != nil {
			return nil, err
		}
		*slot = m
	}

	d.deltaMiddleSA1, d.deltaMiddleSA2 = newAtomicVec(n), newAtomicVec(n)
	d.deltaMiddleRA1, d.deltaMiddleRA2 = newAtomicVec(n), newAtomicVec(n)
	d.deltaTriple1, d.deltaTriple2 = newAtomicVec(n), newAtomicVec(n)
	d.probEntryA1, d.probEntryA2, d.probEntryB1 = newAtomicVec(n), newAtomicVec(n), newAtomicVec(n)

	d.probExitRA1, d.probExitRA2 = make([]float64, n), make([]float64, n)
	d.deltaExitSA1, d.deltaExitSA2 = make([]float64, n), make([]float64, n)
	d.deltaExitRel1, d.deltaExitRel2 = make([]float64, n), make([]float64, n)

	d.probEntryMiddleA1, d.probEntryMiddleA2 = newAtomicDense(n), newAtomicDense(n)
	d.probEntryMiddleB1, d.probEntryMiddleB2 = newAtomicDense(n), newAtomicDense(n)
	d.deltaEntryMiddleRel1, d.deltaEntryMiddleRel2 = newAtomicDense(n), newAtomicDense(n)

	d.impactGE = ge
	d.impactRec2A1B1, d.impactRec2B1A1 = newAtomicDense(n), newAtomicDense(n)
	d.mxProbForGA1, d.mxProbForGA2 = newAtomicDense(n), newAtomicDense(n)

	d.server1, d.server2 = workpool.NewAtomicFloat64(0), workpool.NewAtomicFloat64(0)

	if err := d.validateShapes(); err != nil {
		return nil, err
	}

	return d, nil
}

// validateShapes guards against a future constructor edit passing a
// mismatched dimension to one of the many NewDense/newAtomicDense calls
// above: every one of these accumulators must be square and share the
// same n, since finalize() freely cross-indexes them with a single (i,j)
// pair drawn from the relay universe.
func (d *atomicDeltas) validateShapes() error {
	all := []matrix.Matrix{
		d.probEntryMiddleA1, d.probEntryMiddleA2,
		d.probEntryMiddleB1, d.probEntryMiddleB2,
		d.deltaEntryMiddleRel1, d.deltaEntryMiddleRel2,
		d.probExitEntryRel1, d.probExitEntryRel2,
		d.deltaExitMiddleRel1, d.deltaExitMiddleRel2,
		d.impactRec2A1B1, d.impactRec2B1A1,
		d.impactSen2A1A2, d.impactSen2A2A1,
		d.gmProbForXA1, d.gmProbForXB1,
		d.mxProbForGA1, d.mxProbForGA2,
		d.impactGE.A1A2, d.impactGE.A2A1, d.impactGE.B1B2, d.impactGE.B2B1,
		d.impactGE.A1B1, d.impactGE.B1A1, d.impactGE.A2B2, d.impactGE.B2A2,
	}
	for _, m := range all {
		if err := matrix.ValidateSquare(m); err != nil {
			return err
		}
		if err := matrix.ValidateSameShape(all[0], m); err != nil {
			return err
		}
	}
	return nil
}

func (d *atomicDeltas) finalize() *Deltas {
	n := d.n

	probEntryA1 := d.probEntryA1.snapshot()
	probEntryA2 := d.probEntryA2.snapshot()
	probEntryB1 := d.probEntryB1.snapshot()
	deltaMiddleSA1 := d.deltaMiddleSA1.snapshot()
	deltaMiddleSA2 := d.deltaMiddleSA2.snapshot()
	deltaMiddleRA1 := d.deltaMiddleRA1.snapshot()
	deltaMiddleRA2 := d.deltaMiddleRA2.snapshot()
	deltaTriple1 := d.deltaTriple1.snapshot()
	deltaTriple2 := d.deltaTriple2.snapshot()

	// Entry-role finalization: take the fully-pooled (entry,middle)
	// marginal accumulated across every exit, only then apply phi — the
	// marginalize-then-phi structure §4.2 requires for the entry role.
	deltaEntryRA1 := make([]float64, n)
	deltaEntryRA2 := make([]float64, n)
	deltaEntryRel1 := make([]float64, n)
	deltaEntryRel2 := make([]float64, n)
	for i := 0; i < n; i++ {
		for m := 0; m < n; m++ {
			a1 := d.probEntryMiddleA1.at(i, m)
			a2 := d.probEntryMiddleA2.at(i, m)
			b1 := d.probEntryMiddleB1.at(i, m)
			b2 := d.probEntryMiddleB2.at(i, m)

			deltaEntryRA1[i] += phi(a1, a2)
			deltaEntryRA2[i] += phi(a2, a1)

			deltaEntryRel1[i] += phi(a1, b2)
			deltaEntryRel2[i] += phi(b2, a1)
			deltaEntryRel1[i] += phi(b1, a2)
			deltaEntryRel2[i] += phi(a2, b1)
		}
	}

	deltaPerNodeSA1 := make([]float64, n)
	deltaPerNodeSA2 := make([]float64, n)
	deltaPerNodeRA1 := make([]float64, n)
	deltaPerNodeRA2 := make([]float64, n)
	deltaPerNodeRel1 := make([]float64, n)
	deltaPerNodeRel2 := make([]float64, n)
	var deltaISP1, deltaISP2 float64

	for i := 0; i < n; i++ {
		deltaPerNodeRel1[i] = d.deltaExitRel1[i]/2 + deltaEntryRel1[i] + deltaTriple1[i]
		deltaPerNodeRel2[i] = d.deltaExitRel2[i]/2 + deltaEntryRel2[i] + deltaTriple2[i]

		deltaPerNodeSA1[i] = phi(probEntryA1[i], probEntryB1[i]) + deltaMiddleSA1[i] + d.deltaExitSA1[i]
		deltaPerNodeSA2[i] = phi(probEntryB1[i], probEntryA1[i]) + deltaMiddleSA2[i] + d.deltaExitSA2[i]

		deltaPerNodeRA1[i] = phi(d.probExitRA1[i], d.probExitRA2[i]) + deltaMiddleRA1[i] + deltaEntryRA1[i]
		deltaPerNodeRA2[i] = phi(d.probExitRA2[i], d.probExitRA1[i]) + deltaMiddleRA2[i] + deltaEntryRA2[i]

		// DeltaISP compares A1 vs A2 (same sender, differing recipient) on
		// the exit-marginalized entry probability, not a raw per-triple
		// entry probability compared against B1.
		deltaISP1 += phi(probEntryA1[i], probEntryA2[i])
		deltaISP2 += phi(probEntryA2[i], probEntryA1[i])
	}

	var pairRel1, pairRel2, pairSA1, pairSA2, pairRA1, pairRA2 *matrix.PairMatrix
	if n >= 2 {
		pairRel1, _ = matrix.NewPairMatrix(n)
		pairRel2, _ = matrix.NewPairMatrix(n)
		pairSA1, _ = matrix.NewPairMatrix(n)
		pairSA2, _ = matrix.NewPairMatrix(n)
		pairRA1, _ = matrix.NewPairMatrix(n)
		pairRA2, _ = matrix.NewPairMatrix(n)

		ge := d.impactGE
		for i := 0; i < n; i++ {
			var indSA1, indSA2, indRA1, indRA2 float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}

				geA1A2, _ := ge.A1A2.At(i, j)
				geA2A1, _ := ge.A2A1.At(i, j)
				geB1B2, _ := ge.B1B2.At(i, j)
				geB2B1, _ := ge.B2B1.At(i, j)
				geA1B1, _ := ge.A1B1.At(i, j)
				geB1A1, _ := ge.B1A1.At(i, j)
				geA2B2, _ := ge.A2B2.At(i, j)
				geB2A2, _ := ge.B2A2.At(i, j)

				// Direct relationship-pair contribution: (entry,middle) +
				// (exit,middle) + (entry,exit), each already phi'd during
				// the sweep (§4.2's three named pair-observation kinds).
				exitMiddleRel1, _ := d.deltaExitMiddleRel1.At(i, j)
				exitMiddleRel2, _ := d.deltaExitMiddleRel2.At(i, j)
				exitEntryRel1, _ := d.probExitEntryRel1.At(i, j)
				exitEntryRel2, _ := d.probExitEntryRel2.At(i, j)

				direct1 := d.deltaEntryMiddleRel1.at(i, j)/2 + exitMiddleRel1/2 + exitEntryRel1
				direct2 := d.deltaEntryMiddleRel2.at(i, j)/2 + exitMiddleRel2/2 + exitEntryRel2

				// Indirect guard-exit contribution folded into REL, SA, RA.
				indirectRel1 := (geA2A1 + geB1B2 + geA2B2 + geB1A1) / 2
				indirectRel2 := (geA1A2 + geB2B1 + geB2A2 + geA1B1) / 2

				_ = pairRel1.Add(i, j, direct1+indirectRel1)
				_ = pairRel2.Add(i, j, direct2+indirectRel2)

				_ = pairSA1.Add(i, j, geB1A1+d.impactRec2A1B1.at(i, j))
				_ = pairSA2.Add(i, j, geA1B1+d.impactRec2B1A1.at(i, j))

				sen2A1A2, _ := d.impactSen2A1A2.At(i, j)
				sen2A2A1, _ := d.impactSen2A2A1.At(i, j)
				_ = pairRA1.Add(i, j, geA2A1+sen2A1A2)
				_ = pairRA2.Add(i, j, geA1A2+sen2A2A1)

				gmXA1, _ := d.gmProbForXA1.At(i, j)
				gmXB1, _ := d.gmProbForXB1.At(i, j)
				// Inputs flip here (B1 before A1): the per-node indirect
				// Rec1 impact on sender anonymity, per
				// generic_worst_case_anonymity.cpp:443-445's comment.
				indSA1 += phi(gmXB1, gmXA1)
				indSA2 += phi(gmXA1, gmXB1)

				mxGA1 := d.mxProbForGA1.at(i, j)
				mxGA2 := d.mxProbForGA2.at(i, j)
				// Same flip for the per-node indirect Sen1 impact on
				// recipient anonymity (A2 before A1).
				indRA1 += phi(mxGA2, mxGA1)
				indRA2 += phi(mxGA1, mxGA2)
			}
			deltaPerNodeSA1[i] += indSA1
			deltaPerNodeSA2[i] += indSA2
			deltaPerNodeRA1[i] += indRA1
			deltaPerNodeRA2[i] += indRA2
		}
	}

	return &Deltas{
		DeltaSA1:  deltaPerNodeSA1,
		DeltaSA2:  deltaPerNodeSA2,
		DeltaRA1:  deltaPerNodeRA1,
		DeltaRA2:  deltaPerNodeRA2,
		DeltaRel1: deltaPerNodeRel1,
		DeltaRel2: deltaPerNodeRel2,

		PairSA1:  pairSA1,
		PairSA2:  pairSA2,
		PairRA1:  pairRA1,
		PairRA2:  pairRA2,
		PairRel1: pairRel1,
		PairRel2: pairRel2,

		DeltaServer1: d.server1.Load(),
		DeltaServer2: d.server2.Load(),
		DeltaISP1:    deltaISP1,
		DeltaISP2:    deltaISP2,
	}
}
