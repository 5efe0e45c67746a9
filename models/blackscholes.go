package models

import "math"

// BSCall is the closed-form Black-Scholes price of a European call.
// It serves as the analytic reference for validation and calibration;
// the Monte Carlo estimate converges to it as the sample count grows.
func BSCall(p MarketParameters) float64 {
	if p.Sigma == 0 {
		// Deterministic forward: price is the discounted intrinsic value.
		return math.Max(p.S0-p.K*math.Exp(-p.R*p.T), 0)
	}

	sqrtT := math.Sqrt(p.T)
	d1 := (math.Log(p.S0/p.K) + (p.R+0.5*p.Sigma*p.Sigma)*p.T) / (p.Sigma * sqrtT)
	d2 := d1 - p.Sigma*sqrtT

	return p.S0*normCDF(d1) - p.K*math.Exp(-p.R*p.T)*normCDF(d2)
}

// AnalyticProbITM is the log-normal probability P(S_T > K), i.e. N(d2).
// Note this is the probability of finishing in-the-money, not the
// probability of profit; the latter nets the premium and differs.
func AnalyticProbITM(p MarketParameters) float64 {
	if p.Sigma == 0 {
		forward := p.S0 * math.Exp(p.R*p.T)
		if forward > p.K {
			return 1
		}
		return 0
	}

	sqrtT := math.Sqrt(p.T)
	d2 := (math.Log(p.S0/p.K) + (p.R-0.5*p.Sigma*p.Sigma)*p.T) / (p.Sigma * sqrtT)
	return normCDF(d2)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
