package relation_test

import (
	"testing"

	"github.com/relaynet/mator/relation"
	"github.com/stretchr/testify/require"
)

func relatedPairs(pairs map[[2]int]bool) func(i, j int) bool {
	return func(i, j int) bool {
		if i > j {
			i, j = j, i
		}
		return pairs[[2]int{i, j}]
	}
}

func TestSubnetPolicy_LooksUpAllThreePairs(t *testing.T) {
	rel := relatedPairs(map[[2]int]bool{{0, 1}: true})
	p := relation.NewSubnetPolicy(rel)

	require.True(t, p.ExitEntryRelated(0, 1))
	require.True(t, p.ExitEntryRelated(1, 0))
	require.False(t, p.ExitMiddleRelated(0, 2))
	require.False(t, p.EntryMiddleRelated(1, 2))
}

func TestEmptyASPathOracle_AlwaysEmpty(t *testing.T) {
	var oracle relation.EmptyASPathOracle
	require.Empty(t, oracle.ASNumbers("1.2.3.4", "5.6.7.8"))
}

type stubOracle struct {
	routes map[[2]string]map[uint32]struct{}
}

func (s stubOracle) ASNumbers(from, to string) map[uint32]struct{} {
	return s.routes[[2]string{from, to}]
}

func TestASPolicy_FallsBackToSubnetWhenOracleEmpty(t *testing.T) {
	rel := relatedPairs(nil)
	addr := func(i int) string { return []string{"sender-side", "entry-addr", "exit-addr", "recipient-side"}[i] }
	p := relation.NewASPolicy(rel, addr, relation.EmptyASPathOracle{}, "sender", "recipient")
	require.False(t, p.ExitEntryRelated(2, 1))
}

func TestASPolicy_RelatedWhenASPathsShare(t *testing.T) {
	rel := relatedPairs(nil)
	addr := func(i int) string { return []string{"entry-addr", "exit-addr"}[i] }
	oracle := stubOracle{routes: map[[2]string]map[uint32]struct{}{
		{"sender", "entry-addr"}:    {64500: {}},
		{"exit-addr", "recipient"}: {64500: {}},
	}}
	p := relation.NewASPolicy(rel, addr, oracle, "sender", "recipient")
	require.True(t, p.ExitEntryRelated(1, 0))
}

func TestCombine_ORsTwoPolicies(t *testing.T) {
	a := relation.NewSubnetPolicy(relatedPairs(map[[2]int]bool{{0, 1}: true}))
	b := relation.NewSubnetPolicy(relatedPairs(map[[2]int]bool{{2, 3}: true}))
	c := relation.Combine(a, b)

	require.True(t, c.ExitEntryRelated(0, 1))
	require.True(t, c.ExitMiddleRelated(2, 3))
	require.False(t, c.EntryMiddleRelated(0, 3))
}
