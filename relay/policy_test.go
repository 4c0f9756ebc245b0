package relay_test

import (
	"net"
	"testing"

	"github.com/relaynet/mator/relay"
	"github.com/stretchr/testify/require"
)

func mustCIDR(t *testing.T, s string) *net.IPNet {
	t.Helper()
	_, n, err := net.ParseCIDR(s)
	require.NoError(t, err)
	return n
}

func TestRoutingPolicy_FirstMatchWins(t *testing.T) {
	policy := relay.RoutingPolicy{
		{Action: relay.Reject, Subnet: mustCIDR(t, "10.0.0.0/8"), Ports: relay.PortRange{Low: 0, High: 65535}},
		{Action: relay.Accept, Subnet: nil, Ports: relay.PortRange{Low: 0, High: 65535}},
	}

	require.False(t, policy.Allows(net.ParseIP("10.1.2.3"), 443))
	require.True(t, policy.Allows(net.ParseIP("8.8.8.8"), 443))
}

func TestRoutingPolicy_EmptyRejectsEverything(t *testing.T) {
	var policy relay.RoutingPolicy
	require.False(t, policy.Allows(net.ParseIP("1.1.1.1"), 80))
}

func TestRoutingPolicy_PortRangeBoundaries(t *testing.T) {
	policy := relay.RoutingPolicy{
		{Action: relay.Accept, Ports: relay.PortRange{Low: 80, High: 443}},
	}
	require.True(t, policy.Allows(net.ParseIP("1.1.1.1"), 80))
	require.True(t, policy.Allows(net.ParseIP("1.1.1.1"), 443))
	require.False(t, policy.Allows(net.ParseIP("1.1.1.1"), 79))
	require.False(t, policy.Allows(net.ParseIP("1.1.1.1"), 444))
}

func TestRoutingPolicy_SupportedPortCount(t *testing.T) {
	policy := relay.RoutingPolicy{
		{Action: relay.Accept, Ports: relay.PortRange{Low: 443, High: 443}},
		{Action: relay.Accept, Ports: relay.PortRange{Low: 80, High: 80}},
		{Action: relay.Reject, Ports: relay.PortRange{Low: 0, High: 65535}},
	}
	n := policy.SupportedPortCount([]uint16{80, 443, 22})
	require.Equal(t, 2, n)
}
