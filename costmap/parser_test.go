package costmap_test

import (
	"testing"

	"github.com/relaynet/mator/costmap"
	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func TestParsePCFList_SimpleCondition(t *testing.T) {
	pcfs, err := costmap.ParsePCFList(`BANDWIDTH>1000 ? MUL 0.5`)
	require.NoError(t, err)
	require.Len(t, pcfs, 1)

	cm := costmap.NewCostMap(pcfs)
	cm.Commit([]relay.Relay{{Bandwidth: 2000}, {Bandwidth: 10}})
	require.Equal(t, 0.5, cm.Cost(0))
	require.Equal(t, 1.0, cm.Cost(1))
}

func TestParsePCFList_MultipleEntriesSeparatedBySemicolon(t *testing.T) {
	pcfs, err := costmap.ParsePCFList(`FLAGGED(Guard) ? SET 0; FLAGGED(Exit) ? ADD 5`)
	require.NoError(t, err)
	require.Len(t, pcfs, 2)
}

func TestParsePCFList_LogicalPrecedence(t *testing.T) {
	// AND binds tighter than XOR, which binds tighter than OR:
	// Guard OR Exit AND BadExit  ==  Guard OR (Exit AND BadExit)
	pcfs, err := costmap.ParsePCFList(`FLAGGED(Guard) OR FLAGGED(Exit) AND FLAGGED(BadExit) ? SET 9`)
	require.NoError(t, err)
	require.Len(t, pcfs, 1)

	cm := costmap.NewCostMap(pcfs)
	guardOnly := relay.Relay{Flags: relay.FlagSet(0).With(relay.Guard)}
	exitOnly := relay.Relay{Flags: relay.FlagSet(0).With(relay.Exit)}
	cm.Commit([]relay.Relay{guardOnly, exitOnly})

	require.Equal(t, 9.0, cm.Cost(0), "Guard alone satisfies the OR")
	require.Equal(t, 1.0, cm.Cost(1), "Exit without BadExit must not satisfy Exit AND BadExit")
}

func TestParsePCFList_NotAndParentheses(t *testing.T) {
	pcfs, err := costmap.ParsePCFList(`NOT (FLAGGED(BadExit)) ? SET 2`)
	require.NoError(t, err)

	cm := costmap.NewCostMap(pcfs)
	cm.Commit([]relay.Relay{{Flags: relay.FlagSet(0)}, {Flags: relay.FlagSet(0).With(relay.BadExit)}})
	require.Equal(t, 2.0, cm.Cost(0))
	require.Equal(t, 1.0, cm.Cost(1))
}

func TestParsePCFList_StringFieldEquality(t *testing.T) {
	pcfs, err := costmap.ParsePCFList(`COUNTRY="US" ? SET 3`)
	require.NoError(t, err)

	cm := costmap.NewCostMap(pcfs)
	cm.Commit([]relay.Relay{{Geo: relay.Geolocation{Country: "US"}}, {Geo: relay.Geolocation{Country: "DE"}}})
	require.Equal(t, 3.0, cm.Cost(0))
	require.Equal(t, 1.0, cm.Cost(1))
}

func TestParsePCFList_MalformedExpressionReportsPosition(t *testing.T) {
	_, err := costmap.ParsePCFList(`BANDWIDTH>>5 ? SET 1`)
	require.Error(t, err)
	var parseErr *costmap.PCFParseError
	require.ErrorAs(t, err, &parseErr)
	require.Greater(t, parseErr.Pos, 0)
}

func TestParsePCFList_MissingQMarkReportsError(t *testing.T) {
	_, err := costmap.ParsePCFList(`BANDWIDTH>5 SET 1`)
	require.Error(t, err)
}

func TestParsePCFList_UnknownFieldReportsError(t *testing.T) {
	_, err := costmap.ParsePCFList(`NOTAFIELD=1 ? SET 1`)
	require.Error(t, err)
}
