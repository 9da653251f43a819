package simulation

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"

	"github.com/yourusername/retiresim/internal/cma"
)

// StepReturns holds one simulated year: a simple growth-rate return per asset
// class plus the co-simulated inflation rate for the same step.
type StepReturns struct {
	Assets    []float64
	Inflation float64
}

// ReturnGenerator produces correlated per-step return vectors for individual
// paths. All draws are a pure function of (master seed, path index, step
// order); the generator holds no mutable state and is safe for concurrent use.
type ReturnGenerator struct {
	table      *cma.Prepared
	masterSeed uint64
}

// NewReturnGenerator creates a generator bound to one prepared assumption set
// and one master seed.
func NewReturnGenerator(table *cma.Prepared, masterSeed uint64) *ReturnGenerator {
	return &ReturnGenerator{table: table, masterSeed: masterSeed}
}

// PathReturns generates the full return sequence for one path. Each step draws
// independent standard normals, correlates them through the cached Cholesky
// factor and applies the declared return convention. The trailing factor is
// inflation.
func (g *ReturnGenerator) PathReturns(pathIndex, steps int) []StepReturns {
	rng := rand.New(rand.NewSource(int64(DerivePathSeed(g.masterSeed, pathIndex))))
	n := g.table.Factors()
	classes := g.table.AssetClasses

	sequence := make([]StepReturns, steps)
	draws := make([]float64, n)
	for step := 0; step < steps; step++ {
		for i := range draws {
			draws[i] = rng.NormFloat64()
		}
		g.table.Correlate(draws, draws)

		assets := make([]float64, len(classes))
		for i, class := range classes {
			assets[i] = applyConvention(g.table.ReturnConvention, class.ExpectedReturn, class.Volatility, draws[i])
		}
		inflation := applyConvention(g.table.ReturnConvention, g.table.InflationMean, g.table.InflationVol, draws[n-1])

		sequence[step] = StepReturns{Assets: assets, Inflation: inflation}
	}
	return sequence
}

// applyConvention converts a correlated standard normal draw into a simple
// period return under the table's declared convention, so the projector always
// compounds multiplicatively regardless of convention.
func applyConvention(convention cma.ReturnConvention, mean, vol, z float64) float64 {
	switch convention {
	case cma.ReturnLognormal:
		return math.Expm1(mean - 0.5*vol*vol + vol*z)
	default:
		return mean + vol*z
	}
}

// DerivePathSeed derives the per-path seed from the master seed and path
// index using a splitmix64 finalizer. The derivation never involves worker or
// partition identity, so results are identical for any degree of parallelism.
func DerivePathSeed(masterSeed uint64, pathIndex int) uint64 {
	z := masterSeed + (uint64(pathIndex)+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// DeriveScenarioSeed derives a distinct but deterministic master seed for a
// named trade-off scenario.
func DeriveScenarioSeed(masterSeed uint64, scenario string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(scenario))
	h.Write([]byte(strconv.FormatUint(masterSeed, 10)))
	return h.Sum64()
}
