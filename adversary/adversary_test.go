package adversary_test

import (
	"testing"

	"github.com/relaynet/mator/adversary"
	"github.com/relaynet/mator/costmap"
	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNegativeBudget(t *testing.T) {
	_, err := adversary.New(-1, costmap.NewCostMap(nil))
	require.ErrorIs(t, err, adversary.ErrNegativeBudget)
}

func TestAdversary_BudgetAndCostMapAccessors(t *testing.T) {
	cm := costmap.NewCostMap(nil)
	a, err := adversary.New(5, cm)
	require.NoError(t, err)
	require.Equal(t, 5.0, a.Budget())
	require.Same(t, cm, a.CostMap())
}

func TestSetBudget_RejectsNegative(t *testing.T) {
	a, err := adversary.New(0, costmap.NewCostMap(nil))
	require.NoError(t, err)
	require.ErrorIs(t, a.SetBudget(-1), adversary.ErrNegativeBudget)
}

func TestNewKOfN_CostIsAlwaysOne(t *testing.T) {
	a, err := adversary.NewKOfN(3)
	require.NoError(t, err)
	require.Equal(t, 3.0, a.Budget())

	cm := a.CostMap()
	cm.Commit([]relay.Relay{{Bandwidth: 1000}, {Bandwidth: 1}})
	require.Equal(t, 1.0, cm.Cost(0))
	require.Equal(t, 1.0, cm.Cost(1))
}
