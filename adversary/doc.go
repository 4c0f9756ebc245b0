// Package adversary defines Adversary: a nonnegative compromise budget
// paired with a costmap.CostMap pricing each relay. The worstcase engine's
// budgeted optimiser spends the budget against the cost map to pick the
// highest-advantage affordable relay set.
//
// Grounded on ShorTor's Adversary/KofNAdversary (adversary.hpp):
// KofNAdversary's ConstCostCostmap — a cost map that ignores all mutation
// and always reports cost 1 — becomes NewKOfN below, for "adversary may
// compromise any k of n relays" scenarios where relay identity shouldn't
// bias the selection.
package adversary
