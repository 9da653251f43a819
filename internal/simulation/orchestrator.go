package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/retiresim/internal/cma"
	"github.com/yourusername/retiresim/internal/metrics"
)

const (
	// DefaultPathCount is the number of Monte Carlo trials per scenario.
	DefaultPathCount = 50_000
	// DefaultDeadline bounds one scenario's wall-clock time.
	DefaultDeadline = 30 * time.Second
	// DefaultTrajectorySamples is how many paths retain full trajectories.
	DefaultTrajectorySamples = 100

	// Paths claimed per worker between deadline checks.
	pathBatchSize = 256
)

// RunSpec describes one scenario run. Every field is read-only during the run.
type RunSpec struct {
	Profile           Profile
	Table             *cma.Prepared
	Portfolio         Portfolio
	MasterSeed        uint64
	PathCount         int
	Deadline          time.Duration
	Workers           int
	TrajectorySamples int
}

func (s *RunSpec) applyDefaults() {
	if s.PathCount <= 0 {
		s.PathCount = DefaultPathCount
	}
	if s.Deadline <= 0 {
		s.Deadline = DefaultDeadline
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.TrajectorySamples < 0 {
		s.TrajectorySamples = 0
	}
}

// Ensemble is the complete set of projected paths for one scenario.
type Ensemble struct {
	Summaries []PathSummary
	Sampled   []*Path
	Elapsed   time.Duration
}

// Orchestrator fans path projection out across workers. Paths are pure
// functions of their index, so workers share nothing mutable; each writes only
// its own slots of the pre-allocated result slices.
type Orchestrator struct {
	logger *logrus.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Orchestrator{logger: logger}
}

// Run projects spec.PathCount independent paths and returns the ensemble.
// Workers claim fixed-size batches from an atomic cursor and check the
// deadline between batches; when it expires the run fails with
// ErrTimeoutExceeded and no partial ensemble is returned. Worker count never
// influences the produced paths.
func (o *Orchestrator) Run(ctx context.Context, spec RunSpec) (*Ensemble, error) {
	spec.applyDefaults()
	if spec.Table == nil {
		return nil, fmt.Errorf("%w: assumption table is required", cma.ErrInvalidAssumptions)
	}

	projector, err := NewProjector(spec.Profile, spec.Portfolio, spec.Table, spec.MasterSeed)
	if err != nil {
		return nil, err
	}
	generator := NewReturnGenerator(spec.Table, spec.MasterSeed)
	horizon := spec.Profile.HorizonYears()

	summaries := make([]PathSummary, spec.PathCount)
	sampleCount := spec.TrajectorySamples
	if sampleCount > spec.PathCount {
		sampleCount = spec.PathCount
	}
	sampled := make([]*Path, sampleCount)

	start := time.Now()
	var cursor atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	for worker := 0; worker < spec.Workers; worker++ {
		group.Go(func() error {
			for {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				if time.Since(start) > spec.Deadline {
					return fmt.Errorf("%w: %d paths requested, deadline %s", ErrTimeoutExceeded, spec.PathCount, spec.Deadline)
				}

				begin := int(cursor.Add(pathBatchSize)) - pathBatchSize
				if begin >= spec.PathCount {
					return nil
				}
				end := begin + pathBatchSize
				if end > spec.PathCount {
					end = spec.PathCount
				}

				for idx := begin; idx < end; idx++ {
					steps := generator.PathReturns(idx, horizon)
					path, err := projector.Project(idx, steps, idx < sampleCount)
					if err != nil {
						return err
					}
					summaries[idx] = path.Summary()
					if idx < sampleCount {
						sampled[idx] = path
					}
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		metrics.RecordSimulationRun(statusLabel(err))
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordSimulationRun("success")
	metrics.ObserveRunDuration(elapsed.Seconds())
	metrics.AddPathsSimulated(spec.PathCount)

	o.logger.WithFields(logrus.Fields{
		"path_count":  spec.PathCount,
		"workers":     spec.Workers,
		"horizon":     horizon,
		"master_seed": spec.MasterSeed,
		"elapsed_ms":  elapsed.Milliseconds(),
	}).Debug("Path ensemble completed")

	return &Ensemble{Summaries: summaries, Sampled: sampled, Elapsed: elapsed}, nil
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case isTimeout(err):
		return "timeout"
	default:
		return "failure"
	}
}
