package analysis

import (
	"runtime"
	"sync"

	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
)

// Sweepable parameter names.
const (
	AxisSigma  = "sigma"
	AxisStrike = "K"
	AxisExpiry = "T"
)

// Axis is one swept parameter and its ordered set of values.
type Axis struct {
	Name   string
	Values []float64
}

// SensitivityGrid maps every (axisA value, axisB value) combination to the
// estimated price. Prices is indexed [i][j] for AxisA.Values[i] and
// AxisB.Values[j].
type SensitivityGrid struct {
	AxisA  Axis
	AxisB  Axis
	Prices [][]float64
}

// Sweep prices the option at every grid point, holding all parameters
// fixed except the two swept axes. Every grid point shares the simulation
// config, so the surface is internally consistent under matched
// randomness. Axis names must differ and every swept value must satisfy
// the parameter constraints; both are checked up front so a bad grid
// fails fast with no partial results.
func Sweep(base models.MarketParameters, cfg models.SimulationConfig, axisA, axisB Axis) (SensitivityGrid, error) {
	if err := base.Validate(); err != nil {
		return SensitivityGrid{}, err
	}
	if err := cfg.Validate(); err != nil {
		return SensitivityGrid{}, err
	}
	if axisA.Name == axisB.Name {
		return SensitivityGrid{}, &models.ConfigurationError{Field: "axes", Reason: "must sweep two distinct parameters"}
	}
	if len(axisA.Values) == 0 || len(axisB.Values) == 0 {
		return SensitivityGrid{}, &models.ConfigurationError{Field: "axes", Reason: "must have at least one value each"}
	}

	for _, va := range axisA.Values {
		for _, vb := range axisB.Values {
			if _, err := applyAxes(base, axisA.Name, va, axisB.Name, vb); err != nil {
				return SensitivityGrid{}, err
			}
		}
	}

	prices := make([][]float64, len(axisA.Values))
	for i := range prices {
		prices[i] = make([]float64, len(axisB.Values))
	}

	type cell struct{ i, j int }
	jobs := make(chan cell, len(axisA.Values)*len(axisB.Values))
	errs := make([]error, len(axisA.Values)*len(axisB.Values))

	var wg sync.WaitGroup
	for w := 0; w < runtime.GOMAXPROCS(0); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				params, _ := applyAxes(base, axisA.Name, axisA.Values[c.i], axisB.Name, axisB.Values[c.j])
				est, err := probability.Estimate(params, cfg)
				if err != nil {
					errs[c.i*len(axisB.Values)+c.j] = err
					continue
				}
				prices[c.i][c.j] = est.Price
			}
		}()
	}

	for i := range axisA.Values {
		for j := range axisB.Values {
			jobs <- cell{i, j}
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return SensitivityGrid{}, err
		}
	}

	return SensitivityGrid{AxisA: axisA, AxisB: axisB, Prices: prices}, nil
}

func applyAxes(base models.MarketParameters, nameA string, va float64, nameB string, vb float64) (models.MarketParameters, error) {
	p, err := applyAxis(base, nameA, va)
	if err != nil {
		return models.MarketParameters{}, err
	}
	return applyAxis(p, nameB, vb)
}

func applyAxis(p models.MarketParameters, name string, v float64) (models.MarketParameters, error) {
	switch name {
	case AxisSigma:
		p.Sigma = v
	case AxisStrike:
		p.K = v
	case AxisExpiry:
		p.T = v
	default:
		return models.MarketParameters{}, &models.ConfigurationError{Field: "axis", Reason: "unknown parameter " + name}
	}
	if err := p.Validate(); err != nil {
		return models.MarketParameters{}, err
	}
	return p, nil
}
