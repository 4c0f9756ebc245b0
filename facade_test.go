package mator_test

import (
	"testing"
	"time"

	"github.com/relaynet/mator"
	"github.com/relaynet/mator/adversary"
	"github.com/relaynet/mator/costmap"
	"github.com/relaynet/mator/pathselect"
	"github.com/relaynet/mator/precise"
	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
	"github.com/relaynet/mator/workpool"
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

func vanilla(t *testing.T, snap *snapshot.NetworkSnapshot) *pathselect.PathSelection {
	t.Helper()
	ps, err := pathselect.NewVanilla(snap, noopPolicy(), pathselect.DefaultEligibilityParams([]uint16{80}))
	require.NoError(t, err)
	return ps
}

func freeAdversary(t *testing.T, budget float64) *adversary.Adversary {
	t.Helper()
	pred := costmap.FieldCompareNumber(costmap.FieldBandwidth, costmap.OpGreater, -1)
	cm := costmap.NewCostMap([]costmap.PCF{costmap.NewPCF(pred, costmap.SetEffect(costmap.LiteralOperand(0)))})
	adv, err := adversary.New(budget, cm)
	require.NoError(t, err)
	return adv
}

func emptyObservation(n int) precise.Observation {
	nodes := make([][]bool, n)
	for i := range nodes {
		nodes[i] = make([]bool, n)
	}
	return precise.Observation{
		ObsNodes:      nodes,
		ObsSenderA:    make([]bool, n),
		ObsSenderB:    make([]bool, n),
		ObsRecipient1: make([]bool, n),
		ObsRecipient2: make([]bool, n),
	}
}

func buildFacade(t *testing.T, snap *snapshot.NetworkSnapshot, budget float64) *mator.AnonymityFacade {
	t.Helper()
	pool, err := workpool.New(2)
	require.NoError(t, err)
	f := mator.New(snap, pool, freeAdversary(t, budget))
	f.SetPathSelection(mator.CornerA1, vanilla(t, snap))
	f.SetPathSelection(mator.CornerA2, vanilla(t, snap))
	f.SetPathSelection(mator.CornerB1, vanilla(t, snap))
	f.SetPathSelection(mator.CornerB2, vanilla(t, snap))
	f.Commit()
	return f
}

func TestAnonymityFacade_IdenticalCornersYieldZeroUpperBounds(t *testing.T) {
	snap := smallNetwork(t)
	f := buildFacade(t, snap, 1.0)

	sa, err := f.SenderUpperBound(0, 0)
	require.NoError(t, err)
	require.Zero(t, sa)

	ra, err := f.RecipientUpperBound(0, 0)
	require.NoError(t, err)
	require.Zero(t, ra)

	rel, err := f.RelationshipUpperBound(0, 0)
	require.NoError(t, err)
	require.Zero(t, rel)
}

func TestAnonymityFacade_UpperBoundsAreBoundedByOne(t *testing.T) {
	snap := smallNetwork(t)
	f := buildFacade(t, snap, 5.0)

	sa, err := f.SenderUpperBound(0.5, 0.5)
	require.NoError(t, err)
	require.GreaterOrEqual(t, sa, 0.0)
	require.LessOrEqual(t, sa, 1.0)
}

func TestAnonymityFacade_LowerBoundsMatchPreciseEngine(t *testing.T) {
	snap := smallNetwork(t)
	f := buildFacade(t, snap, 1.0)
	f.SetCompromised(emptyObservation(snap.N()), nil)

	sa, err := f.SenderLowerBound()
	require.NoError(t, err)
	require.Zero(t, sa)

	rel, err := f.RelationshipLowerBound()
	require.NoError(t, err)
	require.GreaterOrEqual(t, rel, 0.0)
}

func TestAnonymityFacade_GreedyListSenderIncludesFreeRelays(t *testing.T) {
	snap := smallNetwork(t)
	f := buildFacade(t, snap, 0.0)

	selected, err := f.GreedyListSender()
	require.NoError(t, err)
	require.ElementsMatch(t, []int{0, 1, 2, 3, 4}, selected)
}

func TestAnonymityFacade_SetPathSelectionInvalidatesWorstCaseCache(t *testing.T) {
	snap := smallNetwork(t)
	f := buildFacade(t, snap, 1.0)

	_, err := f.SenderUpperBound(0, 0)
	require.NoError(t, err)

	f.SetPathSelection(mator.CornerB1, vanilla(t, snap))
	f.Commit()

	sa, err := f.SenderUpperBound(0, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, sa, 0.0)
}
