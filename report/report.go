// Package report renders the pricing results into the structured tables
// the external persistence and plotting layer consumes. The computational
// packages never serialize anything themselves.
package report

import (
	"github.com/xhhuango/json"

	"github.com/quantworks/mcpricer/analysis"
	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
)

type Summary struct {
	Symbol        string  `json:"symbol"`
	S0            float64 `json:"s0"`
	K             float64 `json:"k"`
	T             float64 `json:"t"`
	R             float64 `json:"r"`
	Sigma         float64 `json:"sigma"`
	NumPaths      int     `json:"num_paths"`
	Price         float64 `json:"price"`
	MeanFinal     float64 `json:"mean_final"`
	StdFinal      float64 `json:"std_final"`
	ProbITM       float64 `json:"prob_itm"`
	ProbProfit    float64 `json:"prob_profit"`
	StandardError float64 `json:"standard_error"`
	Overflowed    bool    `json:"overflowed,omitempty"`
}

type ConvergenceRow struct {
	SampleCount int     `json:"sample_count"`
	Price       float64 `json:"price"`
}

type ValidationRow struct {
	Strike      float64 `json:"strike"`
	MarketPrice float64 `json:"market_price"`
	ModelPrice  float64 `json:"model_price"`
	ErrorPct    float64 `json:"error_pct"`
	Error       string  `json:"error,omitempty"`
}

type ValidationTable struct {
	Rows []ValidationRow `json:"rows"`
	RMSE float64         `json:"rmse"`
}

type SensitivityRow struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Price float64 `json:"price"`
}

type SensitivityTable struct {
	AxisA string           `json:"axis_a"`
	AxisB string           `json:"axis_b"`
	Rows  []SensitivityRow `json:"rows"`
}

type Report struct {
	Summary     Summary           `json:"summary"`
	Convergence []ConvergenceRow  `json:"convergence,omitempty"`
	Validation  *ValidationTable  `json:"validation,omitempty"`
	Sensitivity *SensitivityTable `json:"sensitivity,omitempty"`
}

func NewSummary(p models.MarketParameters, cfg models.SimulationConfig, est probability.PriceEstimate) Summary {
	return Summary{
		Symbol:        p.Symbol,
		S0:            p.S0,
		K:             p.K,
		T:             p.T,
		R:             p.R,
		Sigma:         p.Sigma,
		NumPaths:      cfg.NumPaths,
		Price:         est.Price,
		MeanFinal:     est.MeanFinal,
		StdFinal:      est.StdFinal,
		ProbITM:       est.ProbITM,
		ProbProfit:    est.ProbProfit,
		StandardError: est.StandardError,
		Overflowed:    est.Overflowed,
	}
}

func NewConvergenceTable(points []analysis.ConvergencePoint) []ConvergenceRow {
	rows := make([]ConvergenceRow, len(points))
	for i, pt := range points {
		rows[i] = ConvergenceRow{SampleCount: pt.SampleCount, Price: pt.Price}
	}
	return rows
}

func NewValidationTable(rep analysis.ValidationReport) *ValidationTable {
	table := &ValidationTable{RMSE: rep.RMSE}
	for _, rec := range rep.Records {
		row := ValidationRow{
			Strike:      rec.Strike,
			MarketPrice: rec.MarketPrice,
			ModelPrice:  rec.ModelPrice,
			ErrorPct:    rec.ErrorPct,
		}
		if rec.Err != nil {
			row.Error = rec.Err.Error()
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func NewSensitivityTable(grid analysis.SensitivityGrid) *SensitivityTable {
	table := &SensitivityTable{AxisA: grid.AxisA.Name, AxisB: grid.AxisB.Name}
	for i, va := range grid.AxisA.Values {
		for j, vb := range grid.AxisB.Values {
			table.Rows = append(table.Rows, SensitivityRow{A: va, B: vb, Price: grid.Prices[i][j]})
		}
	}
	return table
}

func (r Report) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
