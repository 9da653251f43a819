package simulation

import (
	"fmt"
	"strings"

	"github.com/leekchan/accounting"
)

// GenerateConsoleReport formats an engine outcome for terminal output.
func GenerateConsoleReport(outcome *Outcome) string {
	ac := accounting.Accounting{Symbol: "$", Precision: 0}
	var builder strings.Builder

	baseline := outcome.Baseline
	builder.WriteString("Retirement Simulation Report\n")
	builder.WriteString("============================\n")
	builder.WriteString(fmt.Sprintf("Run ID: %s\n", baseline.RunID))
	builder.WriteString(fmt.Sprintf("CMA Version: %s\n", baseline.CMAVersion))
	builder.WriteString(fmt.Sprintf("Master Seed: %d\n", baseline.MasterSeed))
	builder.WriteString(fmt.Sprintf("Paths: %d (%.1fms)\n", baseline.PathCount, float64(baseline.Elapsed.Microseconds())/1000.0))
	builder.WriteString(fmt.Sprintf("Probability of Success: %.1f%%\n", baseline.ProbabilityOfSuccess*100))
	builder.WriteString("\nBalance at Retirement\n")
	writeDistribution(&builder, ac, baseline.AtRetirement)
	builder.WriteString("\nBalance at Horizon\n")
	writeDistribution(&builder, ac, baseline.AtHorizon)
	if baseline.MeanDepletionAge > 0 {
		builder.WriteString(fmt.Sprintf("\nMean Depletion Age (failed paths): %.1f\n", baseline.MeanDepletionAge))
	}

	if len(outcome.TradeOffs) > 0 {
		builder.WriteString("\nTrade-off Scenarios\n")
		builder.WriteString("-------------------\n")
		for _, tradeOff := range outcome.TradeOffs {
			builder.WriteString(fmt.Sprintf("%-14s %s: %.1f%% (%+.1fpp)\n",
				tradeOff.Name,
				tradeOff.Description,
				tradeOff.Result.ProbabilityOfSuccess*100,
				tradeOff.ProbabilityDelta*100,
			))
		}
	}

	return builder.String()
}

func writeDistribution(builder *strings.Builder, ac accounting.Accounting, dist BalanceDistribution) {
	builder.WriteString(fmt.Sprintf("  10th percentile: %s\n", ac.FormatMoney(dist.Percentile10)))
	builder.WriteString(fmt.Sprintf("  Median:          %s\n", ac.FormatMoney(dist.Median)))
	builder.WriteString(fmt.Sprintf("  90th percentile: %s\n", ac.FormatMoney(dist.Percentile90)))
	builder.WriteString(fmt.Sprintf("  Mean:            %s\n", ac.FormatMoney(dist.Mean)))
}
