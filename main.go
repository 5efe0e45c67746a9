package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/quantworks/mcpricer/analysis"
	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
	"github.com/quantworks/mcpricer/report"
	pricebot "github.com/quantworks/mcpricer/slack"
)

type Config struct {
	Symbol     string  `envconfig:"SYMBOL" default:"AAPL"`
	S0         float64 `envconfig:"S0" default:"273.51"`
	K          float64 `envconfig:"K" default:"274.00"`
	T          float64 `envconfig:"T" default:"0.25"`
	R          float64 `envconfig:"R" default:"0.045"`
	Sigma      float64 `envconfig:"SIGMA" default:"0.283"`
	Paths      int     `envconfig:"PATHS" default:"50000"`
	Seed       uint64  `envconfig:"SEED" default:"42"`
	Quotes     string  `envconfig:"QUOTES" default:"266:12.10,270:9.80,278:5.60,282:4.10"`
	ReportFile string  `envconfig:"REPORT_FILE" default:"report.json"`

	SlackAppToken string `envconfig:"SLACK_APP_TOKEN"`
	SlackBotToken string `envconfig:"SLACK_BOT_TOKEN"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Error reading configuration: %s", err)
	}

	// Bot mode: serve slash commands instead of running a one-shot report.
	if cfg.SlackAppToken != "" && cfg.SlackBotToken != "" {
		bot := pricebot.NewSlackBot(cfg.SlackAppToken, cfg.SlackBotToken)
		log.Fatal(bot.Start())
	}

	params, err := models.NewMarketParameters(cfg.Symbol, cfg.S0, cfg.K, cfg.T, cfg.R, cfg.Sigma)
	if err != nil {
		log.Fatalf("Error in market parameters: %s", err)
	}
	simCfg := models.SimulationConfig{NumPaths: cfg.Paths, Seed: cfg.Seed}
	if err := simCfg.Validate(); err != nil {
		log.Fatalf("Error in simulation config: %s", err)
	}

	quotes, err := parseQuotes(cfg.Quotes)
	if err != nil {
		log.Fatalf("Error parsing quotes: %s", err)
	}

	fmt.Printf("Pricing %s call: S0=%.2f K=%.2f T=%.2f r=%.4f sigma=%.4f, %d paths\n",
		params.Symbol, params.S0, params.K, params.T, params.R, params.Sigma, simCfg.NumPaths)

	stop := make(chan struct{})
	go monitorCPUUsage(stop)
	defer close(stop)

	checkpoints := analysis.GeometricCheckpoints(simCfg.NumPaths)
	sigmaAxis := analysis.Axis{Name: analysis.AxisSigma, Values: []float64{0.10, 0.15, 0.20, 0.25, 0.30, 0.35, 0.40}}
	strikeAxis := analysis.Axis{Name: analysis.AxisStrike, Values: strikeGrid(params.K)}

	totalJobs := 1 + len(checkpoints) + len(quotes) + len(sigmaAxis.Values)*len(strikeAxis.Values)
	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(totalJobs),
		mpb.PrependDecorators(
			decor.Name("Progress"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	start := time.Now()

	est, err := probability.Estimate(params, simCfg)
	if err != nil {
		log.Fatalf("Error estimating price: %s", err)
	}
	bar.Increment()

	points, err := analysis.TrackConvergence(params, simCfg.Seed, checkpoints)
	if err != nil {
		log.Fatalf("Error tracking convergence: %s", err)
	}
	bar.IncrBy(len(checkpoints))

	validation, err := analysis.Validate(params, simCfg, quotes)
	if err != nil {
		log.Fatalf("Error validating against quotes: %s", err)
	}
	bar.IncrBy(len(quotes))

	grid, err := analysis.Sweep(params, simCfg, sigmaAxis, strikeAxis)
	if err != nil {
		log.Fatalf("Error sweeping sensitivity grid: %s", err)
	}
	bar.IncrBy(len(sigmaAxis.Values) * len(strikeAxis.Values))
	p.Wait()

	fmt.Printf("\nAnalysis complete. Total time: %v\n", time.Since(start))
	fmt.Printf("Option price: $%.4f (std err %.4f)\n", est.Price, est.StandardError)
	fmt.Printf("Mean final price: $%.2f | Std dev: $%.2f\n", est.MeanFinal, est.StdFinal)
	fmt.Printf("P(ITM): %.1f%% | P(profit): %.1f%%\n", est.ProbITM*100, est.ProbProfit*100)
	fmt.Printf("Validation RMSE: %.2f%%\n", validation.RMSE)

	if calib, err := analysis.CalibrateSigma(params, quotes); err == nil {
		fmt.Printf("Implied flat sigma from quotes: %.4f (fit RMSE $%.4f)\n", calib.Sigma, calib.RMSE)
	}

	rep := report.Report{
		Summary:     report.NewSummary(params, simCfg, est),
		Convergence: report.NewConvergenceTable(points),
		Validation:  report.NewValidationTable(validation),
		Sensitivity: report.NewSensitivityTable(grid),
	}

	out, err := rep.Encode()
	if err != nil {
		log.Fatalf("Error marshalling report: %s", err)
	}
	if err := os.WriteFile(cfg.ReportFile, out, 0644); err != nil {
		log.Fatalf("Error writing report to %s: %s", cfg.ReportFile, err)
	}

	fmt.Printf("Successfully wrote report to %s\n", cfg.ReportFile)
}

// parseQuotes reads "strike:price" pairs separated by commas.
func parseQuotes(s string) ([]analysis.Quote, error) {
	var quotes []analysis.Quote
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed quote %q, want strike:price", pair)
		}
		strike, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed strike in %q: %w", pair, err)
		}
		price, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed price in %q: %w", pair, err)
		}
		quotes = append(quotes, analysis.Quote{Strike: strike, MarketPrice: price})
	}
	return quotes, nil
}

// strikeGrid brackets the base strike the way the sensitivity analysis
// expects: three steps below, the strike itself, three above.
func strikeGrid(k float64) []float64 {
	step := 5.0
	strikes := make([]float64, 0, 7)
	for i := -3; i <= 3; i++ {
		strikes = append(strikes, k+float64(i)*step)
	}
	return strikes
}

func monitorCPUUsage(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				fmt.Printf("\nCPU Usage: %.2f%%\n", percentage[0])
			}
		}
	}
}
