package costmap_test

import (
	"testing"

	"github.com/relaynet/mator/costmap"
	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func TestCostMap_CommitAppliesEffectsInOrder(t *testing.T) {
	pcfs := []costmap.PCF{
		costmap.NewPCF(costmap.FieldFlagged("Guard"), costmap.MulEffect(costmap.LiteralOperand(2))),
		costmap.NewPCF(costmap.FieldFlagged("Guard"), costmap.AddEffect(costmap.LiteralOperand(1))),
	}
	cm := costmap.NewCostMap(pcfs)

	relays := []relay.Relay{
		{Flags: relay.FlagSet(0).With(relay.Guard)},
		{Flags: relay.FlagSet(0)},
	}
	cm.Commit(relays)

	require.Equal(t, 3.0, cm.Cost(0)) // (1 * 2) + 1
	require.Equal(t, 1.0, cm.Cost(1)) // no match, starts and stays at 1
}

func TestCostMap_SetEffectWithBandwidthKeyword(t *testing.T) {
	cm := costmap.NewCostMap([]costmap.PCF{
		costmap.NewPCF(costmap.FieldCompareNumber(costmap.FieldBandwidth, costmap.OpGreater, 0), costmap.SetEffect(costmap.BandwidthOperand())),
	})
	cm.Commit([]relay.Relay{{Bandwidth: 500}})
	require.Equal(t, 500.0, cm.Cost(0))
}

func TestPCF_StringRoundTrips(t *testing.T) {
	pcf := costmap.NewPCF(costmap.FieldFlagged("Exit"), costmap.MulEffect(costmap.LiteralOperand(0.5)))
	require.Contains(t, pcf.String(), "FLAGGED(Exit)")
	require.Contains(t, pcf.String(), "MUL 0.5")
}
