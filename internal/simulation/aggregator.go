package simulation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// BalanceDistribution summarizes one balance cross-section of the ensemble.
type BalanceDistribution struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Percentile10 float64 `json:"percentile_10"`
	Percentile25 float64 `json:"percentile_25"`
	Median       float64 `json:"median"`
	Percentile75 float64 `json:"percentile_75"`
	Percentile90 float64 `json:"percentile_90"`
}

// Result is the reduced outcome of one scenario run. It carries the inputs
// needed for the external audit log: path count, CMA version and content hash,
// and the master seed.
type Result struct {
	RunID                uuid.UUID           `json:"run_id"`
	Scenario             string              `json:"scenario"`
	ProbabilityOfSuccess float64             `json:"probability_of_success"`
	AtRetirement         BalanceDistribution `json:"at_retirement"`
	AtHorizon            BalanceDistribution `json:"at_horizon"`
	MeanDepletionAge     float64             `json:"mean_depletion_age,omitempty"`
	PathCount            int                 `json:"path_count"`
	CMAVersion           string              `json:"cma_version"`
	CMAHash              string              `json:"cma_hash"`
	MasterSeed           uint64              `json:"master_seed"`
	Elapsed              time.Duration       `json:"elapsed_ns"`
	SampledPaths         []*Path             `json:"sampled_paths,omitempty"`
}

// Aggregate reduces an ensemble to a Result. PathCount is validated upstream,
// but an empty ensemble is still rejected rather than dividing by zero.
func Aggregate(ensemble *Ensemble, scenario string, cmaVersion, cmaHash string, masterSeed uint64) (*Result, error) {
	if ensemble == nil || len(ensemble.Summaries) == 0 {
		return nil, fmt.Errorf("cannot aggregate an empty path ensemble")
	}

	pathCount := len(ensemble.Summaries)
	retirement := make([]float64, pathCount)
	terminal := make([]float64, pathCount)
	successes := 0
	depletionAgeSum := 0.0
	depletions := 0
	for i, summary := range ensemble.Summaries {
		retirement[i] = summary.RetirementBalance
		terminal[i] = summary.TerminalBalance
		if !summary.Depleted {
			successes++
		} else {
			depletionAgeSum += float64(summary.DepletionAge)
			depletions++
		}
	}

	result := &Result{
		RunID:                uuid.New(),
		Scenario:             scenario,
		ProbabilityOfSuccess: float64(successes) / float64(pathCount),
		AtRetirement:         describeBalances(retirement),
		AtHorizon:            describeBalances(terminal),
		PathCount:            pathCount,
		CMAVersion:           cmaVersion,
		CMAHash:              cmaHash,
		MasterSeed:           masterSeed,
		Elapsed:              ensemble.Elapsed,
		SampledPaths:         ensemble.Sampled,
	}
	if depletions > 0 {
		result.MeanDepletionAge = depletionAgeSum / float64(depletions)
	}
	return result, nil
}

func describeBalances(balances []float64) BalanceDistribution {
	sorted := append([]float64{}, balances...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return BalanceDistribution{
		Mean:         mean,
		StdDev:       std,
		Percentile10: nearestRank(sorted, 0.10),
		Percentile25: nearestRank(sorted, 0.25),
		Median:       nearestRank(sorted, 0.50),
		Percentile75: nearestRank(sorted, 0.75),
		Percentile90: nearestRank(sorted, 0.90),
	}
}

// nearestRank picks percentile p from an ascending-sorted slice using the
// nearest-rank method: rank = ceil(p*n), 1-based.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
