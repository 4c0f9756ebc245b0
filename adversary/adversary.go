package adversary

import (
	"fmt"

	"github.com/relaynet/mator/costmap"
)

// Adversary pairs a nonnegative compromise budget with the CostMap pricing
// each relay for the budgeted fractional-knapsack optimiser in worstcase.
type Adversary struct {
	budget  float64
	costMap *costmap.CostMap
}

// New builds an Adversary with the given budget and cost map. budget must
// be >= 0.
func New(budget float64, costMap *costmap.CostMap) (*Adversary, error) {
	if budget < 0 {
		return nil, fmt.Errorf("adversary.New(%g): %w", budget, ErrNegativeBudget)
	}
	return &Adversary{budget: budget, costMap: costMap}, nil
}

// Budget returns the adversary's compromise budget.
func (a *Adversary) Budget() float64 {
	return a.budget
}

// CostMap returns the adversary's relay cost map.
func (a *Adversary) CostMap() *costmap.CostMap {
	return a.costMap
}

// SetBudget updates the budget. budget must be >= 0.
func (a *Adversary) SetBudget(budget float64) error {
	if budget < 0 {
		return fmt.Errorf("SetBudget(%g): %w", budget, ErrNegativeBudget)
	}
	a.budget = budget
	return nil
}

// NewKOfN builds an Adversary whose cost map is pinned to constant cost 1
// per relay — an empty PCF list commits every relay to the starting cost
// of 1 and nothing can mutate it further, matching KofNAdversary's
// ConstCostCostmap (which ignores all mutation and always reports cost 1)
// without needing a distinct CostMap implementation. Useful for
// "adversary may compromise any k of n relays" scenarios where relay
// identity must not bias the budgeted optimiser's choice.
func NewKOfN(budget int) (*Adversary, error) {
	if budget < 0 {
		return nil, fmt.Errorf("adversary.NewKOfN(%d): %w", budget, ErrNegativeBudget)
	}
	cm := costmap.NewCostMap(nil)
	return &Adversary{budget: float64(budget), costMap: cm}, nil
}
