// Package worstcase computes the worst-case (upper-bound) anonymity
// advantage of a network adversary against the four scenario-corner
// PathSelections, per §4.2, and the budgeted optimiser/greedy selector that
// turn those accumulated deltas into a single compromise-bounded guarantee.
//
// Engine.Run performs one parallel sweep over every ordered (guard, middle,
// exit) triple, partitioned by the outermost (exit) index across a
// workpool.WorkPool, accumulating φ(u,v) = max(0, u−v) one-sided advantage
// into per-node vectors and per-relay-pair tensors (matrix.PairMatrix) for
// sender, recipient, and relationship anonymity, plus the two direct scalar
// advantages (deltaServer, deltaISP). Grounded on
// generic_worst_case_anonymity.cpp's triple-nested sweep and its
// myatomic_type CAS-retry accumulator, generalized here to workpool.Submit
// tasks and workpool.AtomicFloat64.
package worstcase
