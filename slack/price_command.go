package pricebot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/quantworks/mcpricer/models"
	"github.com/quantworks/mcpricer/probability"
)

type PriceHandler struct{}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

func (h *PriceHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	args := strings.Fields(data.Text)

	if len(args) != 8 {
		_, _, err := client.PostMessage(data.ChannelID,
			slack.MsgOptionText("Invalid number of arguments. Usage: /price <symbol> <S0> <K> <T> <r> <sigma> <paths> <seed>", false))
		return err
	}

	symbol := args[0]
	s0, _ := strconv.ParseFloat(args[1], 64)
	k, _ := strconv.ParseFloat(args[2], 64)
	t, _ := strconv.ParseFloat(args[3], 64)
	r, _ := strconv.ParseFloat(args[4], 64)
	sigma, _ := strconv.ParseFloat(args[5], 64)
	paths, _ := strconv.Atoi(args[6])
	seed, _ := strconv.ParseUint(args[7], 10, 64)

	params, err := models.NewMarketParameters(symbol, s0, k, t, r, sigma)
	if err != nil {
		_, _, perr := client.PostMessage(data.ChannelID,
			slack.MsgOptionText(fmt.Sprintf("Rejected: %s", err.Error()), false))
		if perr != nil {
			return perr
		}
		return nil
	}
	cfg := models.SimulationConfig{NumPaths: paths, Seed: seed}
	if err := cfg.Validate(); err != nil {
		_, _, perr := client.PostMessage(data.ChannelID,
			slack.MsgOptionText(fmt.Sprintf("Rejected: %s", err.Error()), false))
		if perr != nil {
			return perr
		}
		return nil
	}

	_, ts, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Pricing %s call, %d paths...", symbol, paths), false))
	if err != nil {
		return err
	}

	go runEstimate(client, data.ChannelID, ts, params, cfg)
	return nil
}

func runEstimate(client *socketmode.Client, channelID, timestamp string, params models.MarketParameters, cfg models.SimulationConfig) {
	est, err := probability.Estimate(params, cfg)
	if err != nil {
		client.PostMessage(channelID,
			slack.MsgOptionText(fmt.Sprintf("Estimate failed: %s", err.Error()), false),
			slack.MsgOptionTS(timestamp))
		return
	}

	client.PostMessage(channelID,
		slack.MsgOptionText(formatEstimate(params, cfg, est), false),
		slack.MsgOptionTS(timestamp))
}

func formatEstimate(p models.MarketParameters, cfg models.SimulationConfig, est probability.PriceEstimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* European call (%d paths)\n", p.Symbol, cfg.NumPaths)
	fmt.Fprintf(&b, "S0=%.2f K=%.2f T=%.2f r=%.4f sigma=%.4f\n", p.S0, p.K, p.T, p.R, p.Sigma)
	fmt.Fprintf(&b, "Price: $%.4f (std err %.4f)\n", est.Price, est.StandardError)
	fmt.Fprintf(&b, "Mean final: $%.2f | Std final: $%.2f\n", est.MeanFinal, est.StdFinal)
	fmt.Fprintf(&b, "P(ITM): %.1f%% | P(profit): %.1f%%", est.ProbITM*100, est.ProbProfit*100)
	if est.Overflowed {
		b.WriteString("\nWarning: terminal prices neared floating-point limits")
	}
	return b.String()
}
