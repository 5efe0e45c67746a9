package probability

import (
	"math"
	"runtime"
	"sync"

	"github.com/quantworks/mcpricer/models"
)

// Worker fan-out kicks in above this batch size; below it the chunking
// overhead costs more than it saves.
const minParallelPaths = 4096

// overflowLimit flags terminal prices close enough to the float64 ceiling
// that downstream aggregation is suspect (very large sigma*sqrt(T)).
const overflowLimit = math.MaxFloat64 / 4

// PriceEstimate is the aggregated result of one simulation run. A bare
// point estimate is not acceptable output: the standard error quantifies
// sampling uncertainty and always accompanies the price.
type PriceEstimate struct {
	Price         float64 // Discounted fair value
	MeanFinal     float64 // Mean of the terminal-price batch
	StdFinal      float64 // Std dev of the terminal-price batch
	ProbITM       float64 // Fraction of paths with terminal price above the strike
	ProbProfit    float64 // Fraction of paths above strike plus forward premium
	StandardError float64 // Sampling dispersion of Price, shrinks as 1/sqrt(n)
	Overflowed    bool    // Terminal prices neared floating-point limits; estimate still usable
}

// partial holds one worker's associative sums over its disjoint chunk of
// the draw batch. Partials combine in worker-index order so the result
// does not depend on goroutine scheduling.
type partial struct {
	n           int
	sumPayoff   float64
	sumSqPayoff float64
	sumFinal    float64
	sumSqFinal  float64
	itm         int
	overflow    bool
}

// Estimate prices a European call by simulating cfg.NumPaths terminal
// prices and discounting the mean payoff:
//
//	price         = exp(-r*T) * mean(payoffs)
//	standardError = exp(-r*T) * std(payoffs) / sqrt(n)
//
// MeanFinal and StdFinal are computed over the terminal-price batch before
// the payoff is applied, and ProbITM counts terminal prices strictly above
// the strike. The terminal batch is owned by this invocation and discarded
// on return.
func Estimate(p models.MarketParameters, cfg models.SimulationConfig) (PriceEstimate, error) {
	return EstimateAt(p, cfg, 0)
}

// EstimateAt is Estimate on the substream (cfg.Seed, offset). Concurrent
// callers pass distinct offsets to keep their randomness independent.
func EstimateAt(p models.MarketParameters, cfg models.SimulationConfig, offset uint64) (PriceEstimate, error) {
	if err := p.Validate(); err != nil {
		return PriceEstimate{}, err
	}
	if err := cfg.Validate(); err != nil {
		return PriceEstimate{}, err
	}

	z, err := NewNormalStreamAt(cfg.Seed, offset).Draw(cfg.NumPaths)
	if err != nil {
		return PriceEstimate{}, err
	}

	n := cfg.NumPaths
	finals := make([]float64, n)

	numWorkers := runtime.GOMAXPROCS(0)
	if n < minParallelPaths {
		numWorkers = 1
	}
	chunk := (n + numWorkers - 1) / numWorkers

	parts := make([]partial, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			models.TerminalPricesInto(finals[lo:hi], p, z[lo:hi])
			parts[w] = accumulate(finals[lo:hi], p.K)
		}(w, lo, hi)
	}
	wg.Wait()

	var total partial
	for _, pt := range parts {
		total.n += pt.n
		total.sumPayoff += pt.sumPayoff
		total.sumSqPayoff += pt.sumSqPayoff
		total.sumFinal += pt.sumFinal
		total.sumSqFinal += pt.sumSqFinal
		total.itm += pt.itm
		total.overflow = total.overflow || pt.overflow
	}

	fn := float64(total.n)
	discount := math.Exp(-p.R * p.T)

	meanPayoff := total.sumPayoff / fn
	meanFinal := total.sumFinal / fn
	stdFinal := math.Sqrt(math.Max(0, total.sumSqFinal/fn-meanFinal*meanFinal))

	// n=1 has no defined dispersion; the standard error is zero by
	// convention rather than NaN.
	stdErr := 0.0
	if n >= 2 {
		stdPayoff := math.Sqrt(math.Max(0, total.sumSqPayoff/fn-meanPayoff*meanPayoff))
		stdErr = discount * stdPayoff / math.Sqrt(fn)
	}

	price := discount * meanPayoff

	// Probability of profit nets the forward-valued premium against the
	// payoff. It is deliberately distinct from ProbITM.
	breakeven := p.K + price/discount
	profit := 0
	for _, s := range finals {
		if s > breakeven {
			profit++
		}
	}

	return PriceEstimate{
		Price:         price,
		MeanFinal:     meanFinal,
		StdFinal:      stdFinal,
		ProbITM:       float64(total.itm) / fn,
		ProbProfit:    float64(profit) / fn,
		StandardError: stdErr,
		Overflowed:    total.overflow,
	}, nil
}

func accumulate(finals []float64, k float64) partial {
	var pt partial
	for _, s := range finals {
		payoff := models.CallPayoff(s, k)
		pt.sumPayoff += payoff
		pt.sumSqPayoff += payoff * payoff
		pt.sumFinal += s
		pt.sumSqFinal += s * s
		if s > k {
			pt.itm++
		}
		if s > overflowLimit || math.IsInf(s, 1) {
			pt.overflow = true
		}
	}
	pt.n = len(finals)
	return pt
}
