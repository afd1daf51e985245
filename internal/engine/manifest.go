package engine

import (
	"time"

	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/loader"
	"github.com/daryltucker/telemetry-report/internal/model"
)

// Manifest is the report.json document describing one run.
type Manifest struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	InputDirs   []string        `json:"input_dirs"`
	Files       []string        `json:"files"`
	Skipped     []SkippedFile   `json:"skipped"`
	Machines    int             `json:"machines"`
	SummaryRows int             `json:"summary_rows"`
	DigitRows   int             `json:"digit_rows"`
	Anomalies   []model.Anomaly `json:"anomalies"`
}

// SkippedFile records why a file was left out.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// NewManifest summarizes rep for report.json.
func NewManifest(rep *Report) Manifest {
	return Manifest{
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt.UTC(),
		InputDirs:   rep.InputDirs,
		Files:       lo.Map(rep.Load.Files, func(f loader.File, _ int) string { return f.Path }),
		Skipped: lo.Map(rep.Load.Skipped, func(e *loader.UnreadableFileError, _ int) SkippedFile {
			return SkippedFile{Path: e.Path, Reason: e.Err.Error()}
		}),
		Machines:    rep.Machines(),
		SummaryRows: len(rep.Tables.Summary),
		DigitRows:   len(rep.Tables.Digits),
		Anomalies:   rep.Anomalies,
	}
}
