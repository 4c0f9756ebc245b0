package worstcase

import (
	"fmt"
	"sort"

	"github.com/relaynet/mator/adversary"
	"github.com/relaynet/mator/relay"
)

// solveSingle is the fractional knapsack described in §4.2: greedily select
// indices in decreasing order of v[j]/cost[j]; cost-0 relays are taken
// unconditionally; the last included relay is taken fractionally to
// saturate budget. Returns the achieved sum.
func solveSingle(v []float64, cost []float64, budget float64) float64 {
	type item struct {
		idx   int
		ratio float64
	}
	n := len(v)
	items := make([]item, 0, n)
	var free float64
	for i := 0; i < n; i++ {
		if cost[i] == 0 {
			free += v[i]
			continue
		}
		items = append(items, item{idx: i, ratio: v[i] / cost[i]})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ratio > items[b].ratio })

	sum := free
	remaining := budget
	for _, it := range items {
		if remaining <= 0 {
			break
		}
		c := cost[it.idx]
		if c <= remaining {
			sum += v[it.idx]
			remaining -= c
		} else {
			frac := remaining / c
			sum += v[it.idx] * frac
			remaining = 0
		}
	}
	return sum
}

// costVector materializes adv's CostMap against relays, in relay-index
// order.
func costVector(adv *adversary.Adversary, relays []relay.Relay) ([]float64, error) {
	cm := adv.CostMap()
	cm.Commit(relays)
	out := make([]float64, len(relays))
	for i := range relays {
		out[i] = cm.Cost(i)
	}
	return out, nil
}

// Guarantee computes the budgeted optimiser's single-number worst-case
// guarantee (§4.2 "Budgeted optimiser"): for each relay i, a
// pair-augmented node delta δ'[i] = δPerNode[i] + solveSingle(δPairs row
// for i; budget-c[i])/2, then min(max(s1+f1, s2+f2), 1) where s1, s2 are
// solveSingle over δ' for scenario 1 and 2 respectively.
func Guarantee(deltaPerNode1, deltaPerNode2 []float64, pairs1, pairs2 *MatrixRowSummer, adv *adversary.Adversary, relays []relay.Relay, flatAdd1, flatAdd2 float64) (float64, error) {
	cost, err := costVector(adv, relays)
	if err != nil {
		return 0, err
	}
	n := len(deltaPerNode1)
	if len(deltaPerNode2) != n || len(cost) != n {
		return 0, fmt.Errorf("worstcase: Guarantee: %w", ErrMismatchedSnapshotSize)
	}

	primed1 := make([]float64, n)
	primed2 := make([]float64, n)
	for i := 0; i < n; i++ {
		budget := adv.Budget() - cost[i]
		if budget < 0 {
			budget = 0
		}
		row1 := pairs1.row(i)
		row2 := pairs2.row(i)
		primed1[i] = deltaPerNode1[i] + solveSingle(row1, cost, budget)/2
		primed2[i] = deltaPerNode2[i] + solveSingle(row2, cost, budget)/2
	}

	s1 := solveSingle(primed1, cost, adv.Budget())
	s2 := solveSingle(primed2, cost, adv.Budget())

	guarantee := s1 + flatAdd1
	if alt := s2 + flatAdd2; alt > guarantee {
		guarantee = alt
	}
	if guarantee > 1 {
		guarantee = 1
	}
	return guarantee, nil
}

// MatrixRowSummer adapts a matrix.PairMatrix into the per-relay row vector
// solveSingle needs (δpairs[i][·] in §4.2's notation): row(i) is the vector
// of pair-mass values between i and every other index, 0 on the diagonal.
type MatrixRowSummer struct {
	get func(i, j int) float64
	n   int
}

func (m *MatrixRowSummer) row(i int) []float64 {
	out := make([]float64, m.n)
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		out[j] = m.get(i, j)
	}
	return out
}

// NewRowSummer adapts a *matrix.PairMatrix for use with Guarantee.
func NewRowSummer(n int, get func(i, j int) float64) *MatrixRowSummer {
	return &MatrixRowSummer{get: get, n: n}
}

// GreedySelect implements §4.2's greedy compromised-set selector: uses the
// same pair-augmented δ' as Guarantee but picks integer indices greedily by
// δ'/cost descending while budget remains; free (cost-0) relays are always
// included. Returns the selected indices in selection order: free relays
// first, by index, then the others by descending δ'/cost.
func GreedySelect(deltaPerNode []float64, pairs *MatrixRowSummer, adv *adversary.Adversary, relays []relay.Relay) ([]int, error) {
	cost, err := costVector(adv, relays)
	if err != nil {
		return nil, err
	}
	n := len(deltaPerNode)

	primed := make([]float64, n)
	for i := 0; i < n; i++ {
		budget := adv.Budget() - cost[i]
		if budget < 0 {
			budget = 0
		}
		primed[i] = deltaPerNode[i] + solveSingle(pairs.row(i), cost, budget)/2
	}

	type item struct {
		idx   int
		ratio float64
	}
	var selected []int
	var items []item
	remaining := adv.Budget()
	for i := 0; i < n; i++ {
		if cost[i] == 0 {
			selected = append(selected, i)
			continue
		}
		items = append(items, item{idx: i, ratio: primed[i] / cost[i]})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ratio > items[b].ratio })
	for _, it := range items {
		if cost[it.idx] > remaining {
			continue
		}
		selected = append(selected, it.idx)
		remaining -= cost[it.idx]
	}
	return selected, nil
}
