package analysis

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/optimize"

	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
)

// Quote is one observed market price at a strike.
type Quote struct {
	Strike      float64
	MarketPrice float64
}

// ValidationRecord compares the model price to one observed quote.
// Err is set when the quote itself is unusable; the record is then
// excluded from the aggregate RMSE but does not abort the run.
type ValidationRecord struct {
	Strike      float64
	MarketPrice float64
	ModelPrice  float64
	ErrorPct    float64
	Err         error
}

// ValidationReport is the per-quote comparison plus the aggregate
// root-mean-square percentage error over the valid records.
type ValidationReport struct {
	Records []ValidationRecord
	RMSE    float64
}

// Validate re-runs the pricing pipeline once per observed quote, holding
// (S0, T, r, sigma) fixed and replacing the strike per record. All records
// share the same simulation config, so strikes are compared under matched
// randomness. Validation is diagnostic: large individual errors are
// reported, never fatal.
func Validate(base models.MarketParameters, cfg models.SimulationConfig, quotes []Quote) (ValidationReport, error) {
	if err := base.Validate(); err != nil {
		return ValidationReport{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ValidationReport{}, err
	}
	if len(quotes) == 0 {
		return ValidationReport{}, &models.ConfigurationError{Field: "quotes", Reason: "must not be empty"}
	}

	records := make([]ValidationRecord, len(quotes))

	var wg sync.WaitGroup
	for i, q := range quotes {
		wg.Add(1)
		go func(i int, q Quote) {
			defer wg.Done()
			records[i] = scoreQuote(base, cfg, q)
		}(i, q)
	}
	wg.Wait()

	sumSq := 0.0
	valid := 0
	for _, rec := range records {
		if rec.Err != nil {
			continue
		}
		sumSq += rec.ErrorPct * rec.ErrorPct
		valid++
	}
	if valid == 0 {
		return ValidationReport{}, &models.ConfigurationError{Field: "quotes", Reason: "contains no scorable quotes"}
	}

	return ValidationReport{
		Records: records,
		RMSE:    math.Sqrt(sumSq / float64(valid)),
	}, nil
}

func scoreQuote(base models.MarketParameters, cfg models.SimulationConfig, q Quote) ValidationRecord {
	rec := ValidationRecord{Strike: q.Strike, MarketPrice: q.MarketPrice}

	if q.MarketPrice <= 0 {
		rec.Err = &models.ValidationInputError{Strike: q.Strike, MarketPrice: q.MarketPrice}
		return rec
	}

	params, err := base.WithStrike(q.Strike)
	if err != nil {
		rec.Err = err
		return rec
	}

	est, err := probability.Estimate(params, cfg)
	if err != nil {
		rec.Err = err
		return rec
	}

	rec.ModelPrice = est.Price
	rec.ErrorPct = (est.Price - q.MarketPrice) / q.MarketPrice * 100
	return rec
}

// CalibrationResult is the implied flat volatility fitted to a quote set.
type CalibrationResult struct {
	Sigma float64
	RMSE  float64
}

// CalibrateSigma fits a single volatility to the observed quotes by
// Nelder-Mead over the analytic call price, minimizing the mean squared
// price error. It is a diagnostic companion to Validate: a large gap
// between the fitted and configured sigma usually explains a large RMSE.
func CalibrateSigma(base models.MarketParameters, quotes []Quote) (CalibrationResult, error) {
	if err := base.Validate(); err != nil {
		return CalibrationResult{}, err
	}

	var usable []Quote
	for _, q := range quotes {
		if q.MarketPrice > 0 && q.Strike > 0 {
			usable = append(usable, q)
		}
	}
	if len(usable) == 0 {
		return CalibrationResult{}, &models.ConfigurationError{Field: "quotes", Reason: "contains no scorable quotes"}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sigma := x[0]
			if sigma <= 0 || sigma > 5 {
				return math.Inf(1)
			}
			trial := base
			trial.Sigma = sigma

			mse := 0.0
			for _, q := range usable {
				trial.K = q.Strike
				diff := models.BSCall(trial) - q.MarketPrice
				mse += diff * diff
			}
			return mse / float64(len(usable))
		},
	}

	start := base.Sigma
	if start <= 0 {
		start = 0.2
	}

	result, err := optimize.Minimize(problem, []float64{start}, nil, &optimize.NelderMead{})
	if err != nil {
		return CalibrationResult{}, err
	}

	return CalibrationResult{
		Sigma: result.X[0],
		RMSE:  math.Sqrt(result.F),
	}, nil
}
