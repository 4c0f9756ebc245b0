// Package mator quantifies the anonymity advantage a network-level
// adversary gains against Tor-style onion routing, given a consensus
// snapshot, a set of path-selection algorithms, and a budgeted or
// relay-list-based compromise model.
//
// AnonymityFacade is the package's entry point: it binds four
// pathselect.PathSelection values (one per sender/recipient scenario
// corner), lazily builds and caches a worstcase.Engine and a
// precise.Engine as queries demand them, and answers six bound queries —
// sender/recipient/relationship anonymity, each as an upper bound (via the
// budgeted optimiser over worstcase.Engine) and a lower bound (via
// precise.Engine against a caller-supplied or greedily-selected
// compromised set).
//
// Subpackages:
//
//	relay/      — Relay, its consensus flags, and its exit routing policy
//	snapshot/   — NetworkSnapshot: the read-only consensus view every
//	              computation operates against
//	relation/   — family/subnet and AS-path relationship policies
//	costmap/    — the Programmable Cost Function grammar and CostMap
//	adversary/  — compromise budget paired with a CostMap
//	pathselect/ — PathSelection: the five path-selection variants
//	matrix/     — Dense and PairMatrix storage for per-node and per-pair
//	              accumulator tensors
//	workpool/   — the fixed-size worker pool the engines parallelize over
//	worstcase/  — the worst-case upper-bound accumulator and optimiser
//	precise/    — the exact lower-bound engine for a fixed compromised set
package mator
