/*
PURPOSE:
  High-level runner that orchestrates the reporting pipeline.
  Load -> Normalize -> Detect anomalies -> write report artifacts.

REQUIREMENTS:
  User-specified:
  - Consolidate every telemetry snapshot into Specs/Summary/Digits tables.
  - Flag mode collapse per machine/model.
  - Save CSV sidecars and a JSON manifest per run.

  Implementation-discovered:
  - The CLI needs the in-memory report without writing files (anomalies cmd),
    so Build and Write are separate steps.
  - Each run writes to its own report_YYYYMMDD_HHMMSS folder.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/loader, internal/normalize, internal/anomaly, internal/output

ERROR HANDLING:
  - Unreadable files are skipped by the loader (resilience).
  - loader.ErrNoInputData is fatal and returned wrapped.
  - Output write failures are returned.

IMPLEMENTATION RULES:
  - Stages run strictly one after another; no shared mutable state.

USAGE:
  dir, err := engine.Run(ctx, cfg)

RELATED FILES:
  - internal/engine/manifest.go
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/anomaly"
	"github.com/daryltucker/telemetry-report/internal/config"
	"github.com/daryltucker/telemetry-report/internal/loader"
	"github.com/daryltucker/telemetry-report/internal/model"
	"github.com/daryltucker/telemetry-report/internal/normalize"
	"github.com/daryltucker/telemetry-report/internal/output"
)

// Report is the in-memory result of one pipeline run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	InputDirs   []string

	Load      *loader.Result
	Tables    normalize.Tables
	Anomalies []model.Anomaly
}

// Machines counts distinct machine ids across loaded snapshots.
func (r *Report) Machines() int {
	return len(lo.Uniq(lo.Map(r.Tables.Specs, func(s model.SpecRow, _ int) string { return s.MachineID })))
}

// Build runs load, normalize and anomaly detection without writing anything.
func Build(ctx context.Context, cfg *config.Config) (*Report, error) {
	res, err := loader.Load(ctx, loader.Options{
		Dirs:    cfg.InputDirs,
		Pattern: cfg.FilePattern,
		Workers: cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry: %w", err)
	}

	tables := normalize.Normalize(res.Snapshots)
	anomalies := anomaly.Detect(tables.Digits)

	for _, a := range anomalies {
		output.Logger.Warn("Anomaly detected",
			"machine", a.MachineName,
			"model", a.ModelFile,
			"kind", a.Kind,
			"snapshot", a.Snapshot,
		)
	}

	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		InputDirs:   cfg.InputDirs,
		Load:        res,
		Tables:      tables,
		Anomalies:   anomalies,
	}, nil
}

// Run executes the full pipeline and writes the report folder.
// It returns the folder path.
func Run(ctx context.Context, cfg *config.Config) (string, error) {
	rep, err := Build(ctx, cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(cfg.OutputDir, "report_"+rep.GeneratedAt.Format("20060102_150405"))
	if err := Write(rep, dir, cfg.WriteJSONL); err != nil {
		return "", err
	}

	output.Logger.Info("Report generated",
		"dir", dir,
		"files", rep.Load.Loaded(),
		"skipped", len(rep.Load.Skipped),
		"machines", rep.Machines(),
		"summary_rows", len(rep.Tables.Summary),
		"anomalies", len(rep.Anomalies),
	)
	return dir, nil
}

// Write saves every report artifact into dir, creating it if needed.
func Write(rep *Report, dir string, jsonl bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	t := rep.Tables
	tables := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{"specs.csv", output.SpecColumns, lo.Map(t.Specs, func(r model.SpecRow, _ int) []string { return output.SpecRecord(r) })},
		{"summary.csv", output.SummaryColumns, lo.Map(t.Summary, func(r model.SummaryRow, _ int) []string { return output.SummaryRecord(r) })},
		{"digits.csv", output.DigitColumns, lo.Map(t.Digits, func(r model.DigitRow, _ int) []string { return output.DigitRecord(r) })},
		{"anomalies.csv", output.AnomalyColumns, lo.Map(rep.Anomalies, func(a model.Anomaly, _ int) []string { return output.AnomalyRecord(a) })},
		{"all_rows.csv", output.AllRowsColumns, output.AllRowsRecords(t.Summary, t.Digits)},
	}
	for _, tbl := range tables {
		if err := output.WriteTable(filepath.Join(dir, tbl.name), tbl.header, tbl.records); err != nil {
			return err
		}
	}

	if jsonl {
		if err := writeSummaryJSONL(filepath.Join(dir, "summary.jsonl"), t.Summary); err != nil {
			return err
		}
	}

	return output.WriteJSONFile(filepath.Join(dir, "report.json"), NewManifest(rep))
}

func writeSummaryJSONL(path string, rows []model.SummaryRow) (err error) {
	w, err := output.NewJSONWriter(path)
	if err != nil {
		return fmt.Errorf("failed to init JSON writer at %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
