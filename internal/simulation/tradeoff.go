package simulation

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/retiresim/internal/metrics"
)

// Scenario is a named perturbation of the financial profile.
type Scenario struct {
	Name        string
	Description string
	Apply       func(Profile) Profile
}

// The three fixed trade-off levers, always computed against the baseline's CMA
// version and a per-scenario derived master seed.
var TradeOffScenarios = []Scenario{
	{
		Name:        "save_more",
		Description: "increase savings rate by 3 percentage points",
		Apply: func(p Profile) Profile {
			p.AnnualSavingsRate += 0.03
			if p.AnnualSavingsRate > 1 {
				p.AnnualSavingsRate = 1
			}
			return p
		},
	},
	{
		Name:        "retire_later",
		Description: "delay retirement by 2 years",
		Apply: func(p Profile) Profile {
			p.TargetRetirementAge += 2
			// Keep the perturbed profile valid: retirement must stay below
			// the planning horizon and within the supported age range.
			if limit := p.HorizonAge() - 1; p.TargetRetirementAge > limit {
				p.TargetRetirementAge = limit
			}
			if p.TargetRetirementAge > 100 {
				p.TargetRetirementAge = 100
			}
			return p
		},
	},
	{
		Name:        "spend_less",
		Description: "reduce desired retirement spending by 10%",
		Apply: func(p Profile) Profile {
			p.RetirementSpending *= 0.90
			return p
		},
	},
}

// TradeOff pairs a scenario with its own result and the probability-of-success
// delta relative to the baseline.
type TradeOff struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Result           *Result `json:"result"`
	ProbabilityDelta float64 `json:"probability_delta"`
}

// Analyzer re-runs the full pipeline under each perturbed profile.
type Analyzer struct {
	orchestrator *Orchestrator
	logger       *logrus.Logger
}

// NewAnalyzer creates a trade-off analyzer sharing the baseline orchestrator.
func NewAnalyzer(orchestrator *Orchestrator, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{orchestrator: orchestrator, logger: logger}
}

// Analyze runs every fixed scenario concurrently against the baseline spec.
// Each scenario gets its own deterministically derived master seed, the same
// assumption table and the same deadline policy; results come back in scenario
// order regardless of completion order.
func (a *Analyzer) Analyze(ctx context.Context, base RunSpec, baseline *Result) ([]TradeOff, error) {
	tradeOffs := make([]TradeOff, len(TradeOffScenarios))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, scenario := range TradeOffScenarios {
		i, scenario := i, scenario
		group.Go(func() error {
			spec := base
			spec.Profile = scenario.Apply(base.Profile)
			spec.MasterSeed = DeriveScenarioSeed(base.MasterSeed, scenario.Name)

			ensemble, err := a.orchestrator.Run(groupCtx, spec)
			if err != nil {
				return err
			}
			result, err := Aggregate(ensemble, scenario.Name, spec.Table.Version, spec.Table.ContentHash, spec.MasterSeed)
			if err != nil {
				return err
			}
			delta := result.ProbabilityOfSuccess - baseline.ProbabilityOfSuccess
			metrics.UpdateProbabilityOfSuccess(scenario.Name, result.ProbabilityOfSuccess)

			a.logger.WithFields(logrus.Fields{
				"scenario":          scenario.Name,
				"probability":       result.ProbabilityOfSuccess,
				"probability_delta": delta,
				"master_seed":       spec.MasterSeed,
			}).Info("Trade-off scenario completed")

			tradeOffs[i] = TradeOff{
				Name:             scenario.Name,
				Description:      scenario.Description,
				Result:           result,
				ProbabilityDelta: delta,
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return tradeOffs, nil
}
