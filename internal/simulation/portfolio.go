package simulation

import (
	"fmt"

	"github.com/yourusername/retiresim/internal/cma"
)

// Portfolio is a fixed asset-class weight vector. Weights sum to 1.
type Portfolio struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
}

// Model portfolio lookup per risk tier. The cash sleeve is fixed at 5%.
var modelPortfolios = map[RiskPreference]Portfolio{
	RiskConservative: {
		Name:    string(RiskConservative),
		Weights: map[string]float64{"stocks": 0.40, "bonds": 0.55, "cash": 0.05},
	},
	RiskBalanced: {
		Name:    string(RiskBalanced),
		Weights: map[string]float64{"stocks": 0.60, "bonds": 0.35, "cash": 0.05},
	},
	RiskAggressive: {
		Name:    string(RiskAggressive),
		Weights: map[string]float64{"stocks": 0.80, "bonds": 0.15, "cash": 0.05},
	},
}

// Allocate maps a risk preference to its model portfolio. Pure lookup, no
// randomness; anything outside the three tiers fails with
// ErrUnknownRiskPreference.
func Allocate(pref RiskPreference) (Portfolio, error) {
	portfolio, ok := modelPortfolios[pref]
	if !ok {
		return Portfolio{}, fmt.Errorf("%w: %q", ErrUnknownRiskPreference, pref)
	}
	// Return a copy so callers can never mutate the lookup table.
	weights := make(map[string]float64, len(portfolio.Weights))
	for name, w := range portfolio.Weights {
		weights[name] = w
	}
	return Portfolio{Name: portfolio.Name, Weights: weights}, nil
}

// WeightVector resolves the weight map into a vector ordered like the
// assumption table's asset classes. Every weighted class must exist in the
// table.
func (p Portfolio) WeightVector(a cma.Assumptions) ([]float64, error) {
	vector := make([]float64, len(a.AssetClasses))
	matched := 0
	for i, class := range a.AssetClasses {
		if w, ok := p.Weights[class.Name]; ok {
			vector[i] = w
			matched++
		}
	}
	if matched != len(p.Weights) {
		return nil, fmt.Errorf("%w: portfolio references asset classes missing from assumptions %q", cma.ErrInvalidAssumptions, a.Version)
	}
	return vector, nil
}
