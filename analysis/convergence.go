package analysis

import (
	"sync"

	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
)

// ConvergencePoint records the price estimate at one checkpoint sample count.
type ConvergencePoint struct {
	SampleCount int
	Price       float64
}

// TrackConvergence runs an independent single-shot estimate at each
// checkpoint sample count and records how the price evolves. Checkpoints
// are not nested: each draws its own fresh batch from the same seed, so
// the sequence shows independent point estimates stabilizing as n grows
// rather than a running average smoothing over the sampling noise.
//
// Checkpoints must be strictly increasing and positive.
func TrackConvergence(p models.MarketParameters, seed uint64, checkpoints []int) ([]ConvergencePoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		return nil, &models.ConfigurationError{Field: "checkpoints", Reason: "must not be empty"}
	}
	prev := 0
	for _, c := range checkpoints {
		if c <= prev {
			return nil, &models.ConfigurationError{Field: "checkpoints", Reason: "must be strictly increasing and positive"}
		}
		prev = c
	}

	points := make([]ConvergencePoint, len(checkpoints))
	errs := make([]error, len(checkpoints))

	var wg sync.WaitGroup
	for i, n := range checkpoints {
		wg.Add(1)
		go func(i, n int) {
			defer wg.Done()
			est, err := probability.Estimate(p, models.SimulationConfig{NumPaths: n, Seed: seed})
			if err != nil {
				errs[i] = err
				return
			}
			points[i] = ConvergencePoint{SampleCount: n, Price: est.Price}
		}(i, n)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// GeometricCheckpoints returns the standard ascending checkpoint schedule
// capped at maxPaths, always ending at maxPaths itself.
func GeometricCheckpoints(maxPaths int) []int {
	base := []int{100, 500, 1000, 2000, 5000, 10000, 20000, 50000}

	var checkpoints []int
	for _, c := range base {
		if c < maxPaths {
			checkpoints = append(checkpoints, c)
		}
	}
	return append(checkpoints, maxPaths)
}
