// Package precise computes the exact (lower-bound) anonymity advantage
// given a fixed adversary observation — which sender/recipient edges and
// which middle-to-middle links are visible or compromised — per §4.3.
//
// Engine.Run sweeps every ordered (guard, middle, exit) triple once,
// classifying the adversary's observation pattern for each of the four
// scenario corners and accumulating φ-based advantage only for triples the
// adversary can actually distinguish. The reference implementation runs
// three differently-ordered sweeps (XMG, GMX, XGM) so each of the twelve
// non-trivial observation patterns collapses its constrained loop variables
// as early as possible — a performance optimization over the same result a
// single triple-nested sweep produces. mator's Engine runs the single
// triple-nested sweep, without the three-pass loop-reordering scaffold
// (see DESIGN.md for the scope rationale). Most patterns pool raw
// probabilities per bucket before φ; the relationship-anonymity cases in
// which exactly one side (the senders or the recipients) is observed
// asymmetrically take φ per triple instead of pooling.
package precise
