// Package simulation implements the Monte Carlo retirement projection engine:
// correlated return generation, per-path balance projection, parallel
// orchestration, outcome aggregation and trade-off analysis.
package simulation

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RiskPreference selects one of the three model portfolios.
type RiskPreference string

const (
	RiskConservative RiskPreference = "conservative"
	RiskBalanced     RiskPreference = "balanced"
	RiskAggressive   RiskPreference = "aggressive"
)

// DefaultPlanningHorizonAge is the age at which projection stops when the
// profile does not specify one.
const DefaultPlanningHorizonAge = 95

// AccountAllocation splits savings across tax treatments, in percent.
type AccountAllocation struct {
	Taxable     float64 `mapstructure:"taxable" json:"taxable" validate:"gte=0,lte=100"`
	TaxDeferred float64 `mapstructure:"tax_deferred" json:"tax_deferred" validate:"gte=0,lte=100"`
	TaxFree     float64 `mapstructure:"tax_free" json:"tax_free" validate:"gte=0,lte=100"`
}

// Sum returns the total allocated percentage.
func (a AccountAllocation) Sum() float64 {
	return a.Taxable + a.TaxDeferred + a.TaxFree
}

// Profile holds one user's inputs for a single simulation run. It is
// constructed once per run and never mutated; trade-off scenarios copy it.
type Profile struct {
	CurrentAge          int               `mapstructure:"current_age" json:"current_age" validate:"required,gte=18,lte=100"`
	TargetRetirementAge int               `mapstructure:"target_retirement_age" json:"target_retirement_age" validate:"required,gte=18,lte=100"`
	CurrentSavings      float64           `mapstructure:"current_savings" json:"current_savings" validate:"gte=0"`
	AnnualSavingsRate   float64           `mapstructure:"annual_savings_rate" json:"annual_savings_rate" validate:"gte=0,lte=1"`
	IncomeLevel         float64           `mapstructure:"income_level" json:"income_level" validate:"gte=0"`
	DebtBalance         float64           `mapstructure:"debt_balance" json:"debt_balance" validate:"gte=0"`
	DebtRate            float64           `mapstructure:"debt_rate" json:"debt_rate" validate:"gte=0,lte=1"`
	AccountAllocation   AccountAllocation `mapstructure:"account_allocation" json:"account_allocation"`
	RiskPreference      RiskPreference    `mapstructure:"risk_preference" json:"risk_preference" validate:"required"`
	RetirementSpending  float64           `mapstructure:"retirement_spending" json:"retirement_spending" validate:"gte=0"`
	PlanningHorizonAge  int               `mapstructure:"planning_horizon_age" json:"planning_horizon_age"`
}

// HorizonAge returns the planning horizon age, applying the default.
func (p Profile) HorizonAge() int {
	if p.PlanningHorizonAge > 0 {
		return p.PlanningHorizonAge
	}
	return DefaultPlanningHorizonAge
}

// AccumulationYears is the number of contribution years before retirement.
// Zero when the profile retires immediately.
func (p Profile) AccumulationYears() int {
	return p.TargetRetirementAge - p.CurrentAge
}

// HorizonYears is the total number of simulated years.
func (p Profile) HorizonYears() int {
	return p.HorizonAge() - p.CurrentAge
}

// Validate re-checks all profile invariants defensively; upstream form
// validation is not trusted. Violations wrap ErrInvalidProfile.
func (p Profile) Validate() error {
	v := validator.New()
	if err := v.Struct(p); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			return fmt.Errorf("%w: field %s failed %q constraint", ErrInvalidProfile, first.StructField(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	if p.TargetRetirementAge < p.CurrentAge {
		return fmt.Errorf("%w: target retirement age %d precedes current age %d", ErrInvalidProfile, p.TargetRetirementAge, p.CurrentAge)
	}
	if p.HorizonAge() <= p.TargetRetirementAge {
		return fmt.Errorf("%w: planning horizon age %d must exceed retirement age %d", ErrInvalidProfile, p.HorizonAge(), p.TargetRetirementAge)
	}
	if math.Abs(p.AccountAllocation.Sum()-100.0) > 1e-6 {
		return fmt.Errorf("%w: account allocation sums to %.4f%%, expected 100%%", ErrInvalidProfile, p.AccountAllocation.Sum())
	}
	switch p.RiskPreference {
	case RiskConservative, RiskBalanced, RiskAggressive:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRiskPreference, p.RiskPreference)
	}
	return nil
}

// LoadProfileFile reads a financial profile from a YAML file and validates it.
func LoadProfileFile(path string) (Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
