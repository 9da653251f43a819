package simulation

import (
	"fmt"
	"math"

	"github.com/yourusername/retiresim/internal/cma"
)

// Share of post-interest debt that must be serviced from contributions each
// year before anything is invested.
const minimumDebtServiceRate = 0.10

// TrajectoryPoint records one simulated year of a path.
type TrajectoryPoint struct {
	Year           int     `json:"year"`
	Age            int     `json:"age"`
	Balance        float64 `json:"balance"`
	CashFlow       float64 `json:"cash_flow"`
	InflationIndex float64 `json:"inflation_index"`
}

// Path is one Monte Carlo trial. Full trajectories are kept only for sampled
// paths; the orchestrator reduces the rest to PathSummary.
type Path struct {
	Index             int               `json:"index"`
	Seed              uint64            `json:"seed"`
	Trajectory        []TrajectoryPoint `json:"trajectory,omitempty"`
	RetirementBalance float64           `json:"retirement_balance"`
	TerminalBalance   float64           `json:"terminal_balance"`
	Depleted          bool              `json:"depleted_before_horizon"`
	DepletionAge      int               `json:"depletion_age,omitempty"`
}

// Summary reduces the path to the fields the aggregator needs.
func (p *Path) Summary() PathSummary {
	return PathSummary{
		Index:             p.Index,
		RetirementBalance: p.RetirementBalance,
		TerminalBalance:   p.TerminalBalance,
		Depleted:          p.Depleted,
		DepletionAge:      p.DepletionAge,
	}
}

// PathSummary is the compact per-path record retained for aggregation.
type PathSummary struct {
	Index             int
	RetirementBalance float64
	TerminalBalance   float64
	Depleted          bool
	DepletionAge      int
}

// Projector advances one account balance through the simulated horizon. It is
// immutable after construction and shared read-only across workers.
type Projector struct {
	profile    Profile
	weights    []float64
	masterSeed uint64
}

// NewProjector validates the profile against the assumption table and resolves
// the portfolio weight vector once.
func NewProjector(profile Profile, portfolio Portfolio, table *cma.Prepared, masterSeed uint64) (*Projector, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	weights, err := portfolio.WeightVector(table.Assumptions)
	if err != nil {
		return nil, err
	}
	return &Projector{profile: profile, weights: weights, masterSeed: masterSeed}, nil
}

// Project runs one path through accumulation and decumulation.
//
// Accumulation: the annual contribution starts at income times savings rate
// and tracks the co-simulated inflation factor, income being assumed to keep
// pace with prices. Debt interest accrues first, the minimum debt service is
// deducted from the year's contribution, the remainder is invested after the
// market return is applied to the running balance.
//
// Decumulation: spending starts at the profile's desired annual amount in the
// first retirement year and grows with the co-simulated inflation factor each
// year after. A balance that would go negative is clamped to zero, the path is
// marked depleted and keeps projecting at zero.
func (pr *Projector) Project(pathIndex int, steps []StepReturns, keepTrajectory bool) (*Path, error) {
	profile := pr.profile
	path := &Path{
		Index:             pathIndex,
		Seed:              DerivePathSeed(pr.masterSeed, pathIndex),
		RetirementBalance: profile.CurrentSavings,
	}
	if keepTrajectory {
		path.Trajectory = make([]TrajectoryPoint, 0, len(steps))
	}

	balance := profile.CurrentSavings
	debt := profile.DebtBalance
	grossContribution := profile.IncomeLevel * profile.AnnualSavingsRate
	spending := profile.RetirementSpending
	inflationIndex := 1.0
	accumulationYears := profile.AccumulationYears()

	for year, step := range steps {
		age := profile.CurrentAge + year
		portfolioReturn := 0.0
		for i, w := range pr.weights {
			portfolioReturn += w * step.Assets[i]
		}
		// A year cannot lose more than the whole portfolio.
		growth := math.Max(0, 1.0+portfolioReturn)
		inflationIndex *= 1.0 + step.Inflation

		cashFlow := 0.0
		if year < accumulationYears {
			contribution := grossContribution
			grossContribution *= 1.0 + step.Inflation
			if debt > 0 {
				debt *= 1.0 + profile.DebtRate
				service := math.Min(debt, debt*minimumDebtServiceRate)
				service = math.Min(service, contribution)
				debt -= service
				contribution -= service
			}
			balance = balance*growth + contribution
			cashFlow = contribution
		} else {
			balance = balance*growth - spending
			cashFlow = -spending
			spending *= 1.0 + step.Inflation
			if balance < 0 {
				balance = 0
				if !path.Depleted {
					path.Depleted = true
					path.DepletionAge = age + 1
				}
			}
		}

		if math.IsNaN(balance) || math.IsInf(balance, 0) || math.IsNaN(inflationIndex) || math.IsInf(inflationIndex, 0) {
			return nil, fmt.Errorf("%w: path %d year %d produced non-finite balance", ErrNumericInstability, pathIndex, year)
		}

		if year == accumulationYears-1 {
			path.RetirementBalance = balance
		}
		if keepTrajectory {
			path.Trajectory = append(path.Trajectory, TrajectoryPoint{
				Year:           year + 1,
				Age:            age + 1,
				Balance:        balance,
				CashFlow:       cashFlow,
				InflationIndex: inflationIndex,
			})
		}
	}

	path.TerminalBalance = balance
	return path, nil
}
