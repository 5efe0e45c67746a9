package models

import (
	"math"
	"testing"
)

func TestBSCall_ReferenceCase(t *testing.T) {
	// Classic parameters: S=100, K=100, r=0.05, sigma=0.2, T=1.
	// Expected value (regression): Call = 10.4505835722
	p := MarketParameters{S0: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2}

	call := BSCall(p)
	if !almostEqual(call, 10.450583572185565, 1e-9) {
		t.Fatalf("call price mismatch: got=%v", call)
	}
}

func TestBSCall_Sigma0_Deterministic(t *testing.T) {
	// sigma=0: the call is worth max(S - K*e^{-rT}, 0).
	p := MarketParameters{S0: 100, K: 120, T: 1, R: 0.05, Sigma: 0}

	call := BSCall(p)
	want := math.Max(100-120*math.Exp(-0.05), 0)
	if !almostEqual(call, want, 1e-12) {
		t.Fatalf("sigma0 call mismatch: got=%v want=%v", call, want)
	}
}

func TestBSCall_DecreasingInStrike(t *testing.T) {
	p := MarketParameters{S0: 100, K: 80, T: 1, R: 0.05, Sigma: 0.2}

	prev := math.Inf(1)
	for _, k := range []float64{80, 90, 100, 110, 120} {
		p.K = k
		call := BSCall(p)
		if call > prev {
			t.Fatalf("price increased with strike: K=%v price=%v prev=%v", k, call, prev)
		}
		prev = call
	}
}

func TestAnalyticProbITM_ReferenceCase(t *testing.T) {
	// N(d2) with S=K=100, r=0.05, sigma=0.2, T=1: d2 = 0.15.
	p := MarketParameters{S0: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2}

	prob := AnalyticProbITM(p)
	if !almostEqual(prob, 0.55962, 1e-4) {
		t.Fatalf("probITM mismatch: got=%v", prob)
	}
}

func TestAnalyticProbITM_Sigma0(t *testing.T) {
	p := MarketParameters{S0: 100, K: 104, T: 1, R: 0.05, Sigma: 0}

	// Forward 100*e^{0.05} = 105.13 exceeds 104: certain to finish ITM.
	if got := AnalyticProbITM(p); got != 1 {
		t.Fatalf("expected certain ITM, got=%v", got)
	}

	p.K = 106
	if got := AnalyticProbITM(p); got != 0 {
		t.Fatalf("expected certain OTM, got=%v", got)
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
