package relay_test

import (
	"testing"

	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func TestFlagSet_HasAndWith(t *testing.T) {
	var fs relay.FlagSet
	require.False(t, fs.Has(relay.Guard))

	fs = fs.With(relay.Guard).With(relay.Fast)
	require.True(t, fs.Has(relay.Guard))
	require.True(t, fs.Has(relay.Fast))
	require.False(t, fs.Has(relay.Exit))
}

func TestFlagSet_Without(t *testing.T) {
	fs := relay.FlagSet(0).With(relay.Guard).With(relay.Exit)
	fs = fs.Without(relay.Guard)
	require.False(t, fs.Has(relay.Guard))
	require.True(t, fs.Has(relay.Exit))
}

func TestFlagSet_HasAny(t *testing.T) {
	fs := relay.FlagSet(0).With(relay.Guard)
	require.True(t, fs.HasAny(relay.FlagSet(relay.Guard).With(relay.Exit)))
	require.False(t, fs.HasAny(relay.FlagSet(0).With(relay.Exit)))
}

func TestFlagSet_String(t *testing.T) {
	fs := relay.FlagSet(0).With(relay.Fast).With(relay.Guard).With(relay.Valid)
	require.Equal(t, "Fast|Guard|Valid", fs.String())
	require.Equal(t, "", relay.FlagSet(0).String())
}
