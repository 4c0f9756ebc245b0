package pathselect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaterFillCap_ReachesGoalExactly(t *testing.T) {
	bandwidths := []float64{10, 20, 30, 100}
	eligible := []bool{true, true, true, true}

	out := waterFillCap(bandwidths, eligible, 45)

	var sum float64
	for _, w := range out {
		sum += w
	}
	require.InDelta(t, 45, sum, 1e-9)

	// Only the smallest relay is under the cap and keeps its full
	// bandwidth; the other three are capped at (45-10)/3.
	require.Equal(t, 10.0, out[0])
	require.InDelta(t, 35.0/3, out[1], 1e-9)
	require.LessOrEqual(t, out[2], 30.0)
	require.LessOrEqual(t, out[3], 100.0)
}

func TestWaterFillCap_GoalExceedsTotal(t *testing.T) {
	bandwidths := []float64{10, 20}
	eligible := []bool{true, true}

	out := waterFillCap(bandwidths, eligible, 1000)
	require.Equal(t, []float64{10, 20}, out)
}

func TestWaterFillCap_ZeroGoal(t *testing.T) {
	bandwidths := []float64{10, 20}
	eligible := []bool{true, true}

	out := waterFillCap(bandwidths, eligible, 0)
	require.Equal(t, []float64{0, 0}, out)
}

func TestWaterFillCap_IgnoresIneligible(t *testing.T) {
	bandwidths := []float64{10, 1000}
	eligible := []bool{true, false}

	out := waterFillCap(bandwidths, eligible, 5)
	require.Equal(t, 5.0, out[0])
	require.Equal(t, 0.0, out[1])
}
