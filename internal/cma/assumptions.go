// Package cma provides versioned capital market assumption tables used to
// drive simulated asset-class returns.
package cma

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAssumptions indicates a malformed or non-factorizable assumption set.
var ErrInvalidAssumptions = errors.New("invalid capital market assumptions")

// ReturnConvention declares how per-step returns are generated from the
// expected return and volatility of an asset class.
type ReturnConvention string

const (
	// ReturnSimple generates simple annual returns: r = mu + sigma*z.
	ReturnSimple ReturnConvention = "simple"
	// ReturnLognormal generates continuously compounded returns converted to
	// simple growth: r = exp(mu - sigma^2/2 + sigma*z) - 1.
	ReturnLognormal ReturnConvention = "lognormal"
)

// AssetClass holds annualized nominal assumptions for one investable class.
type AssetClass struct {
	Name           string  `mapstructure:"name" json:"name"`
	ExpectedReturn float64 `mapstructure:"expected_return" json:"expected_return"`
	Volatility     float64 `mapstructure:"volatility" json:"volatility"`
}

// Assumptions is an immutable capital market assumption set. Correlation covers
// the asset classes plus one trailing inflation factor, so its dimension is
// len(AssetClasses)+1.
type Assumptions struct {
	Version          string           `mapstructure:"version" json:"version"`
	ReturnConvention ReturnConvention `mapstructure:"return_convention" json:"return_convention"`
	AssetClasses     []AssetClass     `mapstructure:"asset_classes" json:"asset_classes"`
	InflationMean    float64          `mapstructure:"inflation_mean" json:"inflation_mean"`
	InflationVol     float64          `mapstructure:"inflation_vol" json:"inflation_vol"`
	Correlation      [][]float64      `mapstructure:"correlation" json:"correlation"`
}

// Factors returns the dimension of the correlated draw: asset classes plus inflation.
func (a Assumptions) Factors() int {
	return len(a.AssetClasses) + 1
}

// Validate checks structural invariants. Positive semi-definiteness is checked
// separately during factorization; see Prepare.
func (a Assumptions) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidAssumptions)
	}
	switch a.ReturnConvention {
	case ReturnSimple, ReturnLognormal:
	default:
		return fmt.Errorf("%w: unknown return convention %q", ErrInvalidAssumptions, a.ReturnConvention)
	}
	if len(a.AssetClasses) == 0 {
		return fmt.Errorf("%w: at least one asset class is required", ErrInvalidAssumptions)
	}
	seen := make(map[string]bool, len(a.AssetClasses))
	for _, class := range a.AssetClasses {
		if class.Name == "" {
			return fmt.Errorf("%w: asset class name is required", ErrInvalidAssumptions)
		}
		if seen[class.Name] {
			return fmt.Errorf("%w: duplicate asset class %q", ErrInvalidAssumptions, class.Name)
		}
		seen[class.Name] = true
		if class.Volatility < 0 || !isFinite(class.Volatility) || !isFinite(class.ExpectedReturn) {
			return fmt.Errorf("%w: asset class %q has invalid return/volatility", ErrInvalidAssumptions, class.Name)
		}
	}
	if a.InflationVol < 0 || !isFinite(a.InflationVol) || !isFinite(a.InflationMean) {
		return fmt.Errorf("%w: invalid inflation assumptions", ErrInvalidAssumptions)
	}

	n := a.Factors()
	if len(a.Correlation) != n {
		return fmt.Errorf("%w: correlation matrix has %d rows, expected %d", ErrInvalidAssumptions, len(a.Correlation), n)
	}
	for i, row := range a.Correlation {
		if len(row) != n {
			return fmt.Errorf("%w: correlation row %d has %d columns, expected %d", ErrInvalidAssumptions, i, len(row), n)
		}
		if math.Abs(row[i]-1.0) > 1e-12 {
			return fmt.Errorf("%w: correlation diagonal must be 1.0", ErrInvalidAssumptions)
		}
		for j, v := range row {
			if !isFinite(v) || v < -1 || v > 1 {
				return fmt.Errorf("%w: correlation[%d][%d] out of range", ErrInvalidAssumptions, i, j)
			}
			if math.Abs(v-a.Correlation[j][i]) > 1e-12 {
				return fmt.Errorf("%w: correlation matrix is not symmetric", ErrInvalidAssumptions)
			}
		}
	}
	return nil
}

// Hash returns a stable content hash of the assumption set, carried through
// simulation results for audit logging.
func (a Assumptions) Hash() string {
	data, _ := json.Marshal(a)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// ClassIndex returns the position of the named asset class.
func (a Assumptions) ClassIndex(name string) (int, bool) {
	for i, class := range a.AssetClasses {
		if class.Name == name {
			return i, true
		}
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Default returns the built-in reference assumption table: nominal simple
// annual returns for stocks, bonds and cash with a co-simulated inflation factor.
func Default() Assumptions {
	return Assumptions{
		Version:          "reference-2024.1",
		ReturnConvention: ReturnSimple,
		AssetClasses: []AssetClass{
			{Name: "stocks", ExpectedReturn: 0.07, Volatility: 0.15},
			{Name: "bonds", ExpectedReturn: 0.03, Volatility: 0.06},
			{Name: "cash", ExpectedReturn: 0.015, Volatility: 0.01},
		},
		InflationMean: 0.025,
		InflationVol:  0.015,
		// Order: stocks, bonds, cash, inflation.
		Correlation: [][]float64{
			{1.0, -0.1, 0.0, 0.1},
			{-0.1, 1.0, 0.2, -0.2},
			{0.0, 0.2, 1.0, 0.3},
			{0.1, -0.2, 0.3, 1.0},
		},
	}
}
