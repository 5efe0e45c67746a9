package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantworks/mcpricer/models"
)

// syntheticQuotes prices four strikes bracketing the base strike with the
// closed form, so the model error is pure sampling noise.
func syntheticQuotes(t *testing.T, base models.MarketParameters) []Quote {
	t.Helper()
	quotes := make([]Quote, 0, 4)
	for _, strike := range []float64{266, 270, 278, 282} {
		p, err := base.WithStrike(strike)
		require.NoError(t, err)
		quotes = append(quotes, Quote{Strike: strike, MarketPrice: models.BSCall(p)})
	}
	return quotes
}

func TestValidate_RecordPerQuote(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 50000, Seed: 42}
	quotes := syntheticQuotes(t, baseParams)

	rep, err := Validate(baseParams, cfg, quotes)
	require.NoError(t, err)
	require.Len(t, rep.Records, len(quotes))

	for i, rec := range rep.Records {
		require.NoError(t, rec.Err)
		require.Equal(t, quotes[i].Strike, rec.Strike)
		require.Equal(t, quotes[i].MarketPrice, rec.MarketPrice)
		require.False(t, math.IsNaN(rec.ErrorPct) || math.IsInf(rec.ErrorPct, 0))
		// Quotes are synthetic, so the only gap is Monte Carlo noise.
		require.Less(t, math.Abs(rec.ErrorPct), 5.0)
	}
}

func TestValidate_RMSEAggregation(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 20000, Seed: 7}
	quotes := syntheticQuotes(t, baseParams)

	rep, err := Validate(baseParams, cfg, quotes)
	require.NoError(t, err)

	sumSq := 0.0
	for _, rec := range rep.Records {
		sumSq += rec.ErrorPct * rec.ErrorPct
	}
	require.InDelta(t, math.Sqrt(sumSq/float64(len(rep.Records))), rep.RMSE, 1e-12)
}

func TestValidate_MatchedRandomnessAcrossStrikes(t *testing.T) {
	// Two validation runs with the same config must agree exactly.
	cfg := models.SimulationConfig{NumPaths: 10000, Seed: 11}
	quotes := syntheticQuotes(t, baseParams)

	a, err := Validate(baseParams, cfg, quotes)
	require.NoError(t, err)
	b, err := Validate(baseParams, cfg, quotes)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestValidate_BadQuoteIsolated(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 10000, Seed: 11}
	quotes := syntheticQuotes(t, baseParams)
	quotes[1].MarketPrice = 0 // unusable observation

	rep, err := Validate(baseParams, cfg, quotes)
	require.NoError(t, err)
	require.Len(t, rep.Records, 4)

	require.ErrorIs(t, rep.Records[1].Err, models.ErrInvalidQuote)
	for i, rec := range rep.Records {
		if i == 1 {
			continue
		}
		require.NoError(t, rec.Err)
	}

	// RMSE is computed over the three valid records only.
	sumSq := 0.0
	for i, rec := range rep.Records {
		if i == 1 {
			continue
		}
		sumSq += rec.ErrorPct * rec.ErrorPct
	}
	require.InDelta(t, math.Sqrt(sumSq/3), rep.RMSE, 1e-12)
}

func TestValidate_NoScorableQuotes(t *testing.T) {
	cfg := models.SimulationConfig{NumPaths: 1000, Seed: 1}

	_, err := Validate(baseParams, cfg, []Quote{{Strike: 100, MarketPrice: -1}})
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = Validate(baseParams, cfg, nil)
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestCalibrateSigma_RecoversFlatVol(t *testing.T) {
	truth := baseParams
	truth.Sigma = 0.25

	var quotes []Quote
	for _, strike := range []float64{260, 270, 280, 290} {
		p, err := truth.WithStrike(strike)
		require.NoError(t, err)
		quotes = append(quotes, Quote{Strike: strike, MarketPrice: models.BSCall(p)})
	}

	// Start the fit from a deliberately wrong volatility.
	start := baseParams
	start.Sigma = 0.45

	result, err := CalibrateSigma(start, quotes)
	require.NoError(t, err)
	require.InDelta(t, 0.25, result.Sigma, 5e-3)
	require.Less(t, result.RMSE, 0.05)
}

func TestCalibrateSigma_NoUsableQuotes(t *testing.T) {
	_, err := CalibrateSigma(baseParams, []Quote{{Strike: 100, MarketPrice: 0}})
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}
