package costmap

import (
	"fmt"
	"strings"

	"github.com/relaynet/mator/relay"
)

// PCF is one "predicate ? effect" entry: when Predicate matches a relay,
// Effect transforms its running cost.
type PCF struct {
	Predicate Predicate
	Effect    Effect
}

// NewPCF pairs a predicate with an effect.
func NewPCF(pred Predicate, eff Effect) PCF {
	return PCF{Predicate: pred, Effect: eff}
}

// Apply evaluates the predicate and, if it matches, returns the effect's
// transformed cost; otherwise returns cost unchanged.
func (p PCF) Apply(r relay.Relay, cost float64) float64 {
	if p.Predicate.Eval(r) {
		return p.Effect.Apply(r, cost)
	}
	return cost
}

// String renders the PCF back to source-like text, grounded on
// ProgrammableCostFunction::print() in the source this package adapts.
func (p PCF) String() string {
	return fmt.Sprintf("%s ? %s", p.Predicate, p.Effect)
}

// CostMap holds an ordered list of PCFs and the materialized cost vector
// produced by the most recent Commit.
type CostMap struct {
	pcfs []PCF
	cost []float64
}

// NewCostMap builds a CostMap from an ordered PCF list. The cost vector is
// empty until Commit is called.
func NewCostMap(pcfs []PCF) *CostMap {
	cp := make([]PCF, len(pcfs))
	copy(cp, pcfs)
	return &CostMap{pcfs: cp}
}

// Commit computes the cost of each relay in relays: starting from 1, every
// PCF whose predicate matches applies its effect in list order, and the
// final value is stored. Calling Commit again with a new relay set
// recomputes from scratch.
func (c *CostMap) Commit(relays []relay.Relay) {
	cost := make([]float64, len(relays))
	for i, r := range relays {
		v := 1.0
		for _, pcf := range c.pcfs {
			v = pcf.Apply(r, v)
		}
		cost[i] = v
	}
	c.cost = cost
}

// Cost returns the committed cost of relay index i. Panics if Commit has
// not been called or i is out of range — a programmer error, since the
// engines always Commit once per snapshot before reading costs.
func (c *CostMap) Cost(i int) float64 {
	return c.cost[i]
}

// PCFs returns a copy of the ordered PCF list.
func (c *CostMap) PCFs() []PCF {
	cp := make([]PCF, len(c.pcfs))
	copy(cp, c.pcfs)
	return cp
}

// String renders every PCF, one per line.
func (c *CostMap) String() string {
	lines := make([]string, len(c.pcfs))
	for i, p := range c.pcfs {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}
