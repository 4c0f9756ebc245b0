package relay_test

import (
	"testing"

	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func TestRelay_ValidateRejectsNegativeBandwidth(t *testing.T) {
	r := relay.Relay{Bandwidth: -1}
	require.ErrorIs(t, r.Validate(), relay.ErrNegativeBandwidth)
}

func TestRelay_ValidateAcceptsZeroBandwidth(t *testing.T) {
	r := relay.Relay{Bandwidth: 0}
	require.NoError(t, r.Validate())
}
