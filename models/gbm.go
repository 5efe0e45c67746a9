package models

import "math"

// TerminalPrices maps standard-normal draws to terminal prices under the
// geometric growth model:
//
//	S_T = S0 * exp((r - 0.5*sigma^2)*T + sigma*sqrt(T)*Z)
//
// This samples the exact terminal distribution. There is no time stepping
// and therefore no discretization error; only the terminal price matters
// for a European payoff.
func TerminalPrices(p MarketParameters, z []float64) []float64 {
	drift := (p.R - 0.5*p.Sigma*p.Sigma) * p.T
	vol := p.Sigma * math.Sqrt(p.T)

	prices := make([]float64, len(z))
	for i, zi := range z {
		prices[i] = p.S0 * math.Exp(drift+vol*zi)
	}
	return prices
}

// TerminalPricesInto is TerminalPrices writing into a caller-owned slice,
// used by the estimator so each worker fills its own disjoint chunk.
func TerminalPricesInto(dst []float64, p MarketParameters, z []float64) {
	drift := (p.R - 0.5*p.Sigma*p.Sigma) * p.T
	vol := p.Sigma * math.Sqrt(p.T)

	for i, zi := range z {
		dst[i] = p.S0 * math.Exp(drift+vol*zi)
	}
}

// CallPayoff is the European call payoff max(S_T - K, 0).
func CallPayoff(terminal, k float64) float64 {
	return math.Max(terminal-k, 0)
}

// CallPayoffs evaluates the call payoff over a terminal-price batch.
// Payoffs are non-negative for every path by construction.
func CallPayoffs(prices []float64, k float64) []float64 {
	payoffs := make([]float64, len(prices))
	for i, s := range prices {
		payoffs[i] = CallPayoff(s, k)
	}
	return payoffs
}
