package worstcase_test

import (
	"testing"
	"time"

	"github.com/relaynet/mator/adversary"
	"github.com/relaynet/mator/costmap"
	"github.com/relaynet/mator/pathselect"
	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
	"github.com/relaynet/mator/workpool"
	"github.com/relaynet/mator/worstcase"
	"github.com/stretchr/testify/require"
)

func smallNetwork(t *testing.T) *snapshot.NetworkSnapshot {
	t.Helper()
	base := relay.FlagSet(0).With(relay.Valid).With(relay.Running)
	relays := []relay.Relay{
		{Fingerprint: "G0", Bandwidth: 100, Flags: base.With(relay.Guard)},
		{Fingerprint: "G1", Bandwidth: 120, Flags: base.With(relay.Guard)},
		{Fingerprint: "X0", Bandwidth: 200, Flags: base.With(relay.Exit), Policy: relay.RoutingPolicy{{Action: relay.Accept, Ports: relay.PortRange{Low: 1, High: 65535}}}},
		{Fingerprint: "X1", Bandwidth: 180, Flags: base.With(relay.Exit), Policy: relay.RoutingPolicy{{Action: relay.Accept, Ports: relay.PortRange{Low: 1, High: 65535}}}},
		{Fingerprint: "M0", Bandwidth: 80, Flags: base},
	}
	related := make([][]bool, len(relays))
	for i := range related {
		related[i] = make([]bool, len(relays))
	}
	snap, err := snapshot.Build(relays, related, snapshot.NewRoleWeightTable(nil), time.Now(), nil)
	require.NoError(t, err)
	return snap
}

func noopPolicy() relation.Policy {
	return relation.NewSubnetPolicy(func(i, j int) bool { return false })
}

func buildCorners(t *testing.T, snap *snapshot.NetworkSnapshot) worstcase.Corners {
	t.Helper()
	mk := func() *pathselect.PathSelection {
		ps, err := pathselect.NewVanilla(snap, noopPolicy(), pathselect.DefaultEligibilityParams([]uint16{80}))
		require.NoError(t, err)
		return ps
	}
	return worstcase.Corners{A1: mk(), A2: mk(), B1: mk(), B2: mk()}
}

func TestEngine_Run_IdenticalCornersYieldZeroDeltas(t *testing.T) {
	snap := smallNetwork(t)
	corners := buildCorners(t, snap)

	pool, err := workpool.New(2)
	require.NoError(t, err)
	engine, err := worstcase.New(pool, corners)
	require.NoError(t, err)

	deltas, err := engine.Run()
	require.NoError(t, err)

	for i, v := range deltas.DeltaSA1 {
		require.Zero(t, v, "node %d", i)
	}
	require.Zero(t, deltas.DeltaServer1)
	require.Zero(t, deltas.DeltaISP1)
}

func TestGuarantee_BoundedByOne(t *testing.T) {
	snap := smallNetwork(t)
	corners := buildCorners(t, snap)
	pool, err := workpool.New(2)
	require.NoError(t, err)
	engine, err := worstcase.New(pool, corners)
	require.NoError(t, err)
	deltas, err := engine.Run()
	require.NoError(t, err)

	n := snap.N()
	rows1 := worstcase.NewRowSummer(n, func(i, j int) float64 {
		v, _ := deltas.PairSA1.Get(i, j)
		return v
	})
	rows2 := worstcase.NewRowSummer(n, func(i, j int) float64 {
		v, _ := deltas.PairSA2.Get(i, j)
		return v
	})

	adv, err := adversary.New(2, costmap.NewCostMap(nil))
	require.NoError(t, err)
	relays := make([]relay.Relay, n)
	for i := 0; i < n; i++ {
		r, err := snap.Relay(i)
		require.NoError(t, err)
		relays[i] = r
	}

	g, err := worstcase.Guarantee(deltas.DeltaSA1, deltas.DeltaSA2, rows1, rows2, adv, relays, 0, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, g, 0.0)
	require.LessOrEqual(t, g, 1.0)
}

func TestNew_RejectsMismatchedSnapshotSize(t *testing.T) {
	snap1 := smallNetwork(t)
	corners := buildCorners(t, snap1)

	base := relay.FlagSet(0).With(relay.Valid).With(relay.Running).With(relay.Exit)
	relays2 := []relay.Relay{
		{Fingerprint: "A", Bandwidth: 10, Flags: base, Policy: relay.RoutingPolicy{{Action: relay.Accept, Ports: relay.PortRange{Low: 1, High: 65535}}}},
		{Fingerprint: "B", Bandwidth: 10, Flags: base, Policy: relay.RoutingPolicy{{Action: relay.Accept, Ports: relay.PortRange{Low: 1, High: 65535}}}},
	}
	related2 := [][]bool{{false, false}, {false, false}}
	snap2, err := snapshot.Build(relays2, related2, snapshot.NewRoleWeightTable(nil), time.Now(), nil)
	require.NoError(t, err)
	ps2, err := pathselect.NewVanilla(snap2, noopPolicy(), pathselect.DefaultEligibilityParams([]uint16{80}))
	require.NoError(t, err)
	corners.B2 = ps2

	pool, err := workpool.New(1)
	require.NoError(t, err)
	_, err = worstcase.New(pool, corners)
	require.ErrorIs(t, err, worstcase.ErrMismatchedSnapshotSize)
}

func TestGreedySelect_IncludesFreeRelaysAlways(t *testing.T) {
	n := 3
	deltaPerNode := []float64{0.5, 0.3, 0.1}
	rows := worstcase.NewRowSummer(n, func(i, j int) float64 { return 0 })
	relays := []relay.Relay{{Bandwidth: 1}, {Bandwidth: 1}, {Bandwidth: 1}}

	alwaysTrue := costmap.FieldCompareNumber(costmap.FieldBandwidth, costmap.OpGreater, -1)
	zeroCost := costmap.NewCostMap([]costmap.PCF{costmap.NewPCF(alwaysTrue, costmap.SetEffect(costmap.LiteralOperand(0)))})
	adv, err := adversary.New(0, zeroCost)
	require.NoError(t, err)

	selected, err := worstcase.GreedySelect(deltaPerNode, rows, adv, relays)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{0, 1, 2}, selected, "zero-cost relays are always free and thus always selected")
}
