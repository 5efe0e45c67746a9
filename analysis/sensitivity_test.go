package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantworks/mcpricer/models"
)

func TestSweep_MonotoneInVolatility(t *testing.T) {
	base := models.MarketParameters{Symbol: "X", S0: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2}
	cfg := models.SimulationConfig{NumPaths: 20000, Seed: 11}

	sigmaAxis := Axis{Name: AxisSigma, Values: []float64{0.10, 0.15, 0.20, 0.25, 0.30, 0.35, 0.40}}
	strikeAxis := Axis{Name: AxisStrike, Values: []float64{100}}

	grid, err := Sweep(base, cfg, sigmaAxis, strikeAxis)
	require.NoError(t, err)
	require.Len(t, grid.Prices, len(sigmaAxis.Values))

	for i := 1; i < len(sigmaAxis.Values); i++ {
		require.GreaterOrEqual(t, grid.Prices[i][0], grid.Prices[i-1][0],
			"price must not decrease as sigma grows")
	}
}

func TestSweep_MonotoneInStrike(t *testing.T) {
	base := models.MarketParameters{Symbol: "X", S0: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2}
	cfg := models.SimulationConfig{NumPaths: 20000, Seed: 11}

	strikeAxis := Axis{Name: AxisStrike, Values: []float64{80, 90, 100, 110, 120}}
	expiryAxis := Axis{Name: AxisExpiry, Values: []float64{1}}

	grid, err := Sweep(base, cfg, strikeAxis, expiryAxis)
	require.NoError(t, err)

	// With matched draws the call payoff is pointwise non-increasing in
	// the strike, so the estimates are monotone exactly.
	for i := 1; i < len(strikeAxis.Values); i++ {
		require.LessOrEqual(t, grid.Prices[i][0], grid.Prices[i-1][0],
			"price must not increase with strike")
	}
}

func TestSweep_GridShapeAndDeterminism(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 5000, Seed: 3}
	axisA := Axis{Name: AxisSigma, Values: []float64{0.2, 0.3}}
	axisB := Axis{Name: AxisExpiry, Values: []float64{0.25, 0.5, 1}}

	a, err := Sweep(baseParams, cfg, axisA, axisB)
	require.NoError(t, err)
	require.Len(t, a.Prices, 2)
	for _, row := range a.Prices {
		require.Len(t, row, 3)
	}

	b, err := Sweep(baseParams, cfg, axisA, axisB)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSweep_DuplicateAxes(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 100, Seed: 1}
	axis := Axis{Name: AxisSigma, Values: []float64{0.1, 0.2}}

	_, err := Sweep(baseParams, cfg, axis, axis)
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestSweep_InvalidSweptValue(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 100, Seed: 1}
	sigmaAxis := Axis{Name: AxisSigma, Values: []float64{0.1, -0.2}}
	strikeAxis := Axis{Name: AxisStrike, Values: []float64{100}}

	_, err := Sweep(baseParams, cfg, sigmaAxis, strikeAxis)
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestSweep_UnknownAxisName(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 100, Seed: 1}
	axisA := Axis{Name: "spot", Values: []float64{90}}
	axisB := Axis{Name: AxisStrike, Values: []float64{100}}

	_, err := Sweep(baseParams, cfg, axisA, axisB)
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestSweep_EmptyAxis(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 100, Seed: 1}
	axisA := Axis{Name: AxisSigma, Values: nil}
	axisB := Axis{Name: AxisStrike, Values: []float64{100}}

	_, err := Sweep(baseParams, cfg, axisA, axisB)
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}
