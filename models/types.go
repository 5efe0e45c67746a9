package models

import "math"

// MarketParameters describes a European call on a single underlying.
// Symbol is carried for reporting only and never interpreted.
// Values are validated once at construction and treated as immutable.
type MarketParameters struct {
	Symbol string
	S0     float64 // Spot price
	K      float64 // Strike price
	T      float64 // Years to expiry
	R      float64 // Risk-free rate, may be zero or negative
	Sigma  float64 // Annualized volatility
}

func NewMarketParameters(symbol string, s0, k, t, r, sigma float64) (MarketParameters, error) {
	p := MarketParameters{Symbol: symbol, S0: s0, K: k, T: t, R: r, Sigma: sigma}
	if err := p.Validate(); err != nil {
		return MarketParameters{}, err
	}
	return p, nil
}

func (p MarketParameters) Validate() error {
	switch {
	case math.IsNaN(p.S0) || p.S0 <= 0:
		return &ConfigurationError{Field: "S0", Reason: "must be positive"}
	case math.IsNaN(p.K) || p.K <= 0:
		return &ConfigurationError{Field: "K", Reason: "must be positive"}
	case math.IsNaN(p.T) || p.T <= 0:
		return &ConfigurationError{Field: "T", Reason: "must be positive"}
	case math.IsNaN(p.R):
		return &ConfigurationError{Field: "R", Reason: "must be a number"}
	case math.IsNaN(p.Sigma) || p.Sigma < 0:
		return &ConfigurationError{Field: "Sigma", Reason: "must be non-negative"}
	}
	return nil
}

// WithStrike returns a copy priced at a different strike, all other
// parameters unchanged. The validator uses this to re-run the pipeline
// per observed quote.
func (p MarketParameters) WithStrike(k float64) (MarketParameters, error) {
	p.K = k
	if err := p.Validate(); err != nil {
		return MarketParameters{}, err
	}
	return p, nil
}

// SimulationConfig fixes the sample size and the random stream.
type SimulationConfig struct {
	NumPaths int
	Seed     uint64
}

func (c SimulationConfig) Validate() error {
	if c.NumPaths <= 0 {
		return &ConfigurationError{Field: "NumPaths", Reason: "must be positive"}
	}
	return nil
}
