package precise_test

import (
	"testing"
	"time"

	"github.com/relaynet/mator/pathselect"
	"github.com/relaynet/mator/precise"
	"github.com/relaynet/mator/relation"
	"github.com/relaynet/mator/relay"
	"github.com/relaynet/mator/snapshot"
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

func buildCorners(t *testing.T, snap *snapshot.NetworkSnapshot) precise.Corners {
	t.Helper()
	mk := func() *pathselect.PathSelection {
		ps, err := pathselect.NewVanilla(snap, noopPolicy(), pathselect.DefaultEligibilityParams([]uint16{80}))
		require.NoError(t, err)
		return ps
	}
	return precise.Corners{A1: mk(), A2: mk(), B1: mk(), B2: mk()}
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

func TestEngine_Run_IdenticalCornersYieldZeroSAandRA(t *testing.T) {
	snap := smallNetwork(t)
	corners := buildCorners(t, snap)
	obs := emptyObservation(snap.N())
	for i := range obs.ObsSenderA {
		obs.ObsSenderA[i] = true
		obs.ObsSenderB[i] = true
	}

	engine, err := precise.New(corners, obs)
	require.NoError(t, err)
	result, err := engine.Run()
	require.NoError(t, err)

	require.Zero(t, result.DeltaSA, "identical corners give the adversary nothing to distinguish")
	require.Zero(t, result.DeltaRA)
}

func TestNew_RejectsMismatchedObservationSize(t *testing.T) {
	snap := smallNetwork(t)
	corners := buildCorners(t, snap)
	obs := emptyObservation(snap.N() - 1)

	_, err := precise.New(corners, obs)
	require.ErrorIs(t, err, precise.ErrMismatchedSnapshotSize)
}

func TestEngine_Run_FullyOpaqueObservationFoldsIntoRelationship(t *testing.T) {
	snap := smallNetwork(t)
	corners := buildCorners(t, snap)
	obs := emptyObservation(snap.N()) // adversary observes nothing anywhere

	engine, err := precise.New(corners, obs)
	require.NoError(t, err)
	result, err := engine.Run()
	require.NoError(t, err)

	require.Zero(t, result.DeltaSA)
	require.GreaterOrEqual(t, result.DeltaREL, 0.0)
}
