package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Export is the envelope written for external collaborators: the persistence
// layer's audit record and the narrative generator's input. It carries the
// full input snapshot alongside the outputs so a run can be reproduced
// exactly.
type Export struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Profile     Profile    `json:"profile"`
	CMAVersion  string     `json:"cma_version"`
	CMAHash     string     `json:"cma_hash"`
	MasterSeed  uint64     `json:"master_seed"`
	Baseline    *Result    `json:"baseline"`
	TradeOffs   []TradeOff `json:"trade_offs,omitempty"`
}

// NewExport builds the export envelope for one outcome.
func NewExport(profile Profile, outcome *Outcome) Export {
	return Export{
		GeneratedAt: time.Now().UTC(),
		Profile:     profile,
		CMAVersion:  outcome.Baseline.CMAVersion,
		CMAHash:     outcome.Baseline.CMAHash,
		MasterSeed:  outcome.MasterSeed,
		Baseline:    outcome.Baseline,
		TradeOffs:   outcome.TradeOffs,
	}
}

// ToJSON serializes the export envelope.
func (e Export) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}
	return string(data), nil
}

// WriteFile writes the export envelope to a JSON file, creating parent
// directories as needed.
func (e Export) WriteFile(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := e.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
