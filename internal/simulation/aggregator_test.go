package simulation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestNearestRank(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	cases := []struct {
		p    float64
		want float64
	}{
		{0.10, 10},
		{0.25, 30},
		{0.50, 50},
		{0.75, 80},
		{0.90, 90},
		{1.00, 100},
	}
	for _, tc := range cases {
		if got := nearestRank(sorted, tc.p); got != tc.want {
			t.Fatalf("nearestRank(%.2f) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if got := nearestRank([]float64{7}, 0.5); got != 7 {
		t.Fatalf("single-element percentile = %v, want 7", got)
	}
	if got := nearestRank(nil, 0.5); got != 0 {
		t.Fatalf("empty slice percentile = %v, want 0", got)
	}
}

func TestDescribeBalancesOrdering(t *testing.T) {
	balances := []float64{55, 3, 97, 41, 12, 88, 60, 29, 74, 5, 66, 19}
	dist := describeBalances(balances)

	ordered := []float64{dist.Percentile10, dist.Percentile25, dist.Median, dist.Percentile75, dist.Percentile90}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] < ordered[i-1] {
			t.Fatalf("percentiles out of order: %v", ordered)
		}
	}
	if dist.StdDev <= 0 {
		t.Fatalf("expected positive std dev, got %v", dist.StdDev)
	}
}

func TestDescribeBalancesConstant(t *testing.T) {
	dist := describeBalances([]float64{100, 100, 100})
	if dist.Mean != 100 || dist.Median != 100 {
		t.Fatalf("constant ensemble summarized as %+v", dist)
	}
	if dist.StdDev != 0 {
		t.Fatalf("constant ensemble std dev %v, want 0", dist.StdDev)
	}
}

func TestAggregateProbabilityAndDepletion(t *testing.T) {
	ensemble := &Ensemble{
		Summaries: []PathSummary{
			{Index: 0, RetirementBalance: 500_000, TerminalBalance: 800_000},
			{Index: 1, RetirementBalance: 450_000, TerminalBalance: 120_000},
			{Index: 2, RetirementBalance: 400_000, TerminalBalance: 0, Depleted: true, DepletionAge: 82},
			{Index: 3, RetirementBalance: 350_000, TerminalBalance: 0, Depleted: true, DepletionAge: 90},
		},
		Elapsed: time.Second,
	}

	result, err := Aggregate(ensemble, "baseline", "reference-2024.1", "abc", 42)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if result.ProbabilityOfSuccess != 0.5 {
		t.Fatalf("probability %v, want 0.5", result.ProbabilityOfSuccess)
	}
	if result.MeanDepletionAge != 86 {
		t.Fatalf("mean depletion age %v, want 86", result.MeanDepletionAge)
	}
	if result.PathCount != 4 || result.Scenario != "baseline" || result.MasterSeed != 42 {
		t.Fatalf("unexpected result metadata: %+v", result)
	}
	if result.CMAVersion != "reference-2024.1" || result.CMAHash != "abc" {
		t.Fatalf("CMA provenance missing: %+v", result)
	}
}

func TestAggregateNoDepletions(t *testing.T) {
	ensemble := &Ensemble{Summaries: []PathSummary{{TerminalBalance: 10}, {TerminalBalance: 20}}}
	result, err := Aggregate(ensemble, "baseline", "v", "h", 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if result.ProbabilityOfSuccess != 1.0 {
		t.Fatalf("probability %v, want 1.0", result.ProbabilityOfSuccess)
	}
	if result.MeanDepletionAge != 0 {
		t.Fatalf("mean depletion age %v, want 0 when no path depletes", result.MeanDepletionAge)
	}
}

func TestAggregateRejectsEmpty(t *testing.T) {
	_, err := Aggregate(nil, "baseline", "v", "h", 1)
	if err == nil {
		t.Fatal("expected error for nil ensemble")
	}
	// An empty ensemble is an internal invariant breach, not a caller input
	// defect, so it must not carry the profile sentinel.
	if errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("empty ensemble must not be reported as a profile error: %v", err)
	}
	if _, err := Aggregate(&Ensemble{}, "baseline", "v", "h", 1); err == nil {
		t.Fatal("expected error for empty ensemble")
	}
}

func TestAggregateFromRun(t *testing.T) {
	orch := NewOrchestrator(quietLogger())
	spec := testRunSpec(t, 2000, 4)

	ensemble, err := orch.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	result, err := Aggregate(ensemble, "baseline", spec.Table.Version, spec.Table.ContentHash, spec.MasterSeed)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if result.ProbabilityOfSuccess < 0 || result.ProbabilityOfSuccess > 1 {
		t.Fatalf("probability %v outside [0,1]", result.ProbabilityOfSuccess)
	}
	if math.IsNaN(result.AtHorizon.Mean) {
		t.Fatal("horizon mean is NaN")
	}
	if result.AtRetirement.Percentile10 > result.AtRetirement.Percentile90 {
		t.Fatal("retirement percentiles inverted")
	}
	if result.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("run ID was not assigned")
	}
}
