// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides the dedicated audit trail required for reproducibility:
// every simulation run is recorded with its CMA version and content hash,
// master seed and full input profile snapshot.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSimulationRun records a completed baseline simulation run.
func (al *AuditLogger) LogSimulationRun(runID, cmaVersion, cmaHash string, masterSeed uint64, profile interface{}, pathCount int, probabilityOfSuccess, medianHorizonBalance float64) {
	al.WithFields(logrus.Fields{
		"run_id":                 runID,
		"cma_version":            cmaVersion,
		"cma_hash":               cmaHash,
		"master_seed":            masterSeed,
		"profile":                profile,
		"path_count":             pathCount,
		"probability_of_success": probabilityOfSuccess,
		"median_horizon_balance": medianHorizonBalance,
	}).Info("Simulation run recorded")
}

// LogAssumptionsRegistered records a new CMA version entering the store.
func (al *AuditLogger) LogAssumptionsRegistered(version, hash string, assetClasses int) {
	al.WithFields(logrus.Fields{
		"cma_version":   version,
		"cma_hash":      hash,
		"asset_classes": assetClasses,
	}).Info("Capital market assumptions registered")
}

// LogRunFailure records a failed run so the audit trail never has silent gaps.
func (al *AuditLogger) LogRunFailure(cmaVersion string, masterSeed uint64, reason string) {
	al.WithFields(logrus.Fields{
		"cma_version": cmaVersion,
		"master_seed": masterSeed,
		"reason":      reason,
	}).Warn("Simulation run failed")
}
