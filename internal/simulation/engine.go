package simulation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/retiresim/internal/cma"
	"github.com/yourusername/retiresim/internal/logger"
)

// Options configures one engine invocation. Zero values fall back to the
// engine defaults; a zero MasterSeed asks the engine to generate one, which is
// returned in the result for reproducibility logging.
type Options struct {
	// MasterSeed of 0 means "generate one"; an explicit seed of 0 cannot be
	// requested. The seed actually used is reported in Outcome.MasterSeed.
	MasterSeed        uint64
	PathCount         int
	Deadline          time.Duration
	Workers           int
	TrajectorySamples int
	TradeOffs         bool
}

// Outcome is the full engine output for one invocation: the baseline result
// plus any trade-off scenarios, all under one CMA version and master seed
// lineage.
type Outcome struct {
	Baseline   *Result    `json:"baseline"`
	TradeOffs  []TradeOff `json:"trade_offs,omitempty"`
	MasterSeed uint64     `json:"master_seed"`
}

// Engine ties the pipeline together: allocation, correlated generation,
// projection, orchestration, aggregation and trade-off analysis. It holds no
// per-run state and is safe for concurrent invocations.
type Engine struct {
	store    *cma.Store
	orch     *Orchestrator
	analyzer *Analyzer
	audit    *logger.AuditLogger
	logger   *logrus.Logger
}

// NewEngine creates an engine over a prepared assumption store.
func NewEngine(store *cma.Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	orch := NewOrchestrator(log)
	return &Engine{
		store:    store,
		orch:     orch,
		analyzer: NewAnalyzer(orch, log),
		audit:    logger.NewAuditLogger(log),
		logger:   log,
	}
}

// Store exposes the assumption store for callers that register tables.
func (e *Engine) Store() *cma.Store {
	return e.store
}

// Run executes the baseline scenario and, when requested, the trade-off
// scenarios against the named CMA version. The profile is re-validated
// defensively before any path is projected.
func (e *Engine) Run(ctx context.Context, profile Profile, cmaVersion string, opts Options) (*Outcome, error) {
	table, err := e.store.Load(cmaVersion)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	portfolio, err := Allocate(profile.RiskPreference)
	if err != nil {
		return nil, err
	}

	masterSeed := opts.MasterSeed
	if masterSeed == 0 {
		masterSeed = uint64(time.Now().UnixNano())
		e.logger.WithField("master_seed", masterSeed).Info("No master seed supplied, generated one")
	}

	spec := RunSpec{
		Profile:           profile,
		Table:             table,
		Portfolio:         portfolio,
		MasterSeed:        masterSeed,
		PathCount:         opts.PathCount,
		Deadline:          opts.Deadline,
		Workers:           opts.Workers,
		TrajectorySamples: opts.TrajectorySamples,
	}

	ensemble, err := e.orch.Run(ctx, spec)
	if err != nil {
		e.audit.LogRunFailure(table.Version, masterSeed, err.Error())
		return nil, err
	}
	baseline, err := Aggregate(ensemble, "baseline", table.Version, table.ContentHash, masterSeed)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Baseline: baseline, MasterSeed: masterSeed}
	if opts.TradeOffs {
		tradeOffs, err := e.analyzer.Analyze(ctx, spec, baseline)
		if err != nil {
			return nil, err
		}
		outcome.TradeOffs = tradeOffs
	}

	e.audit.LogSimulationRun(
		baseline.RunID.String(),
		table.Version,
		table.ContentHash,
		masterSeed,
		profile,
		baseline.PathCount,
		baseline.ProbabilityOfSuccess,
		baseline.AtHorizon.Median,
	)
	return outcome, nil
}
