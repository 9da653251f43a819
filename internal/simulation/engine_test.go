package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourusername/retiresim/internal/cma"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := cma.NewStore(quietLogger())
	if _, err := store.Register(cma.Default()); err != nil {
		t.Fatalf("failed to register default assumptions: %v", err)
	}
	return NewEngine(store, quietLogger())
}

func TestEngineRunBaseline(t *testing.T) {
	engine := testEngine(t)
	version := cma.Default().Version

	outcome, err := engine.Run(context.Background(), testProfile(), version, Options{
		MasterSeed: 42,
		PathCount:  4000,
		Deadline:   time.Minute,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	baseline := outcome.Baseline
	if baseline.Scenario != "baseline" || baseline.PathCount != 4000 {
		t.Fatalf("unexpected baseline metadata: %+v", baseline)
	}

	// Age 35, retire 65, $50k saved, 15% of $100k income, $60k spending,
	// balanced portfolio: a healthy but not bulletproof plan, around 70%
	// under the reference table.
	if baseline.ProbabilityOfSuccess < 0.60 || baseline.ProbabilityOfSuccess > 0.85 {
		t.Fatalf("probability of success %v outside the reference range for this profile", baseline.ProbabilityOfSuccess)
	}
	if baseline.AtRetirement.Median <= testProfile().CurrentSavings {
		t.Fatalf("median retirement balance %v did not grow past initial savings", baseline.AtRetirement.Median)
	}
	if baseline.CMAVersion != version {
		t.Fatalf("baseline CMA version %q, want %q", baseline.CMAVersion, version)
	}
	if len(outcome.TradeOffs) != 0 {
		t.Fatal("trade-offs produced without being requested")
	}
}

func TestEngineRunReproducible(t *testing.T) {
	engine := testEngine(t)
	version := cma.Default().Version
	opts := Options{MasterSeed: 7, PathCount: 1500, Deadline: time.Minute, Workers: 3}

	first, err := engine.Run(context.Background(), testProfile(), version, opts)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	opts.Workers = 8
	second, err := engine.Run(context.Background(), testProfile(), version, opts)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if first.Baseline.ProbabilityOfSuccess != second.Baseline.ProbabilityOfSuccess {
		t.Fatal("probability of success changed with worker count")
	}
	if first.Baseline.AtHorizon.Median != second.Baseline.AtHorizon.Median {
		t.Fatal("horizon median changed with worker count")
	}
}

func TestEngineGeneratesMasterSeed(t *testing.T) {
	engine := testEngine(t)

	outcome, err := engine.Run(context.Background(), testProfile(), cma.Default().Version, Options{
		PathCount: 200,
		Deadline:  time.Minute,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.MasterSeed == 0 {
		t.Fatal("engine must generate a master seed when none is supplied")
	}
	if outcome.Baseline.MasterSeed != outcome.MasterSeed {
		t.Fatal("baseline result must record the generated master seed")
	}
}

func TestEngineRunWithTradeOffs(t *testing.T) {
	engine := testEngine(t)

	outcome, err := engine.Run(context.Background(), testProfile(), cma.Default().Version, Options{
		MasterSeed: 42,
		PathCount:  1500,
		Deadline:   time.Minute,
		TradeOffs:  true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(outcome.TradeOffs) != len(TradeOffScenarios) {
		t.Fatalf("expected %d trade-offs, got %d", len(TradeOffScenarios), len(outcome.TradeOffs))
	}
}

func TestEngineSaveMoreImprovesOutcome(t *testing.T) {
	// A single seed can go either way on a small ensemble, so the
	// monotonicity claim is checked on the average delta across seeds.
	engine := testEngine(t)
	version := cma.Default().Version

	totalDelta := 0.0
	for _, seed := range []uint64{11, 42, 97, 1234, 8181} {
		outcome, err := engine.Run(context.Background(), testProfile(), version, Options{
			MasterSeed: seed,
			PathCount:  1500,
			Deadline:   time.Minute,
			TradeOffs:  true,
		})
		if err != nil {
			t.Fatalf("Run failed for seed %d: %v", seed, err)
		}
		for _, tradeOff := range outcome.TradeOffs {
			if tradeOff.Name == "save_more" {
				totalDelta += tradeOff.ProbabilityDelta
			}
		}
	}
	if totalDelta < -0.02 {
		t.Fatalf("saving more should not hurt on average, mean delta sum %v", totalDelta)
	}
}

func TestEngineTradeOffsNearHorizon(t *testing.T) {
	engine := testEngine(t)
	profile := testProfile()
	profile.CurrentAge = 60
	profile.TargetRetirementAge = 93
	profile.PlanningHorizonAge = 95

	outcome, err := engine.Run(context.Background(), profile, cma.Default().Version, Options{
		MasterSeed: 42,
		PathCount:  500,
		Deadline:   time.Minute,
		TradeOffs:  true,
	})
	if err != nil {
		t.Fatalf("Run failed for a profile retiring near its horizon: %v", err)
	}
	if outcome.Baseline == nil {
		t.Fatal("baseline result missing")
	}
	if len(outcome.TradeOffs) != len(TradeOffScenarios) {
		t.Fatalf("expected %d trade-offs, got %d", len(TradeOffScenarios), len(outcome.TradeOffs))
	}
}

func TestEngineUnknownCMAVersion(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.Run(context.Background(), testProfile(), "missing-version", Options{PathCount: 10}); !errors.Is(err, cma.ErrInvalidAssumptions) {
		t.Fatalf("expected ErrInvalidAssumptions, got %v", err)
	}
}

func TestEngineInvalidProfile(t *testing.T) {
	engine := testEngine(t)
	profile := testProfile()
	profile.TargetRetirementAge = 30

	if _, err := engine.Run(context.Background(), profile, cma.Default().Version, Options{PathCount: 10}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestEngineTimeout(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Run(context.Background(), testProfile(), cma.Default().Version, Options{
		MasterSeed: 42,
		PathCount:  500_000,
		Deadline:   time.Millisecond,
	})
	if !errors.Is(err, ErrTimeoutExceeded) {
		t.Fatalf("expected ErrTimeoutExceeded, got %v", err)
	}
}
