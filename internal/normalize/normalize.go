/*
PURPOSE:
  Flattens loaded snapshots into the three report tables:
  Specs (per machine), Summary (per model) and Digits (per sample).

REQUIREMENTS:
  User-specified:
  - One SummaryRow per ModelRun, one DigitRow per CPU sample.
  - GPU fields are absent whenever WebGPU failed to initialize.
  - Model size bucket comes from the file name, "UNK" when unknown.

  Implementation-discovered:
  - Rows carry the snapshot stem so several runs of the same machine
    stay apart in later grouping.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Uses: internal/metrics
  - Consumes: model.Snapshot; produces model.SpecRow/SummaryRow/DigitRow

ERROR HANDLING:
  - None. Missing data was already resolved to defaults by the loader.

IMPLEMENTATION RULES:
  - Pure projection; no I/O, no logging.
  - Output order follows input order.
*/

package normalize

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/metrics"
	"github.com/daryltucker/telemetry-report/internal/model"
)

const (
	// UnknownSize is the bucket for model files without a size token.
	UnknownSize = "UNK"
	// UnknownMachine is used when no device or CPU model is known.
	UnknownMachine = "unknown"

	bytesPerGiB = 1 << 30
)

var sizeBucketRe = regexp.MustCompile(`(?i)_(S|M|L|XL)\d*\.json$`)

// Tables holds the normalized output.
type Tables struct {
	Specs   []model.SpecRow
	Summary []model.SummaryRow
	Digits  []model.DigitRow
}

// Normalize builds all three tables from snaps.
func Normalize(snaps []model.Snapshot) Tables {
	t := Tables{
		Specs:   make([]model.SpecRow, 0, len(snaps)),
		Summary: []model.SummaryRow{},
		Digits:  []model.DigitRow{},
	}
	for _, s := range snaps {
		spec := Spec(s)
		t.Specs = append(t.Specs, spec)

		for _, run := range s.PerModel {
			t.Summary = append(t.Summary, Summary(s, spec.MachineName, run))
			t.Digits = append(t.Digits, Digits(s, spec.MachineName, run)...)
		}
	}
	return t
}

// SizeBucket extracts S/M/L/XL from names like "mnist_XL2.json".
func SizeBucket(modelFile string) string {
	m := sizeBucketRe.FindStringSubmatch(modelFile)
	if m == nil {
		return UnknownSize
	}
	return strings.ToUpper(m[1])
}

// MachineName prefers the device model, then the CPU model up to " CPU".
func MachineName(si model.SystemInfo) string {
	if si.DeviceModel != "" {
		return si.DeviceModel
	}
	name, _, _ := strings.Cut(si.CPUModel, " CPU")
	if name == "" {
		return UnknownMachine
	}
	return name
}

// Spec builds the specification row for one snapshot.
func Spec(s model.Snapshot) model.SpecRow {
	return model.SpecRow{
		MachineID:     s.MachineID,
		MachineName:   MachineName(s.System),
		Architecture:  s.System.Architecture,
		OS:            s.System.OS,
		OSVersion:     s.System.OSVersion,
		CPUModel:      s.System.CPUModel,
		GPUModel:      s.System.GPUModel,
		RAMGB:         lo.FromPtrOr(s.System.RAMBytes, 0) / bytesPerGiB,
		StartedAt:     s.StartedAt,
		ModelsTested:  len(s.PerModel),
		Source:        s.Source,
		SchemaVersion: s.Version,
	}
}

// Summary builds the per-model row with derived metrics.
func Summary(s model.Snapshot, machineName string, run model.ModelRun) model.SummaryRow {
	cpu := metrics.Summarize(run.CPU, true)
	gpu := metrics.Summarize(run.GPU, run.WebGPUInitOK)

	return model.SummaryRow{
		Snapshot:    s.Stem,
		MachineID:   s.MachineID,
		MachineName: machineName,
		ModelFile:   run.ModelFile,
		ModelSize:   SizeBucket(run.ModelFile),

		WebGPUInitOK:     run.WebGPUInitOK,
		WebGPUInitTimeMS: run.WebGPUInitTimeMS,

		CPUTop1Accuracy:    run.ADHD10.Top1AccuracyCPU,
		GPUTop1Accuracy:    run.ADHD10.Top1AccuracyGPU,
		CPUvsGPUAgreeCount: run.ADHD10.CPUvsGPUAgreeCount,
		AvgDriftMAE:        run.ADHD10.AvgDriftMAE,
		MaxDriftMaxAbs:     run.ADHD10.MaxDriftMaxAbs,

		CPUElapsedAvgMS:   cpu.MeanMS,
		GPUElapsedAvgMS:   gpu.MeanMS,
		SpeedupGPUOverCPU: metrics.Speedup(cpu.MeanMS, gpu.MeanMS),
		CPUSamplesPerSec:  cpu.SamplesPerSec,
		GPUSamplesPerSec:  gpu.SamplesPerSec,

		LatP50CPUMS: cpu.P50MS,
		LatP90CPUMS: cpu.P90MS,
		LatP99CPUMS: cpu.P99MS,
		LatP50GPUMS: gpu.P50MS,
		LatP90GPUMS: gpu.P90MS,
		LatP99GPUMS: gpu.P99MS,
	}
}

// Digits pairs every CPU sample with the GPU and drift record at the same
// index. The CPU sequence decides the row count.
func Digits(s model.Snapshot, machineName string, run model.ModelRun) []model.DigitRow {
	size := SizeBucket(run.ModelFile)
	rows := make([]model.DigitRow, 0, len(run.CPU))

	for i, c := range run.CPU {
		row := model.DigitRow{
			Snapshot:     s.Stem,
			MachineID:    s.MachineID,
			MachineName:  machineName,
			ModelFile:    run.ModelFile,
			ModelSize:    size,
			Digit:        c.Digit,
			Idx:          c.Idx,
			CPUPred:      c.Pred,
			CPUTop1Score: c.Top1Score,
			CPUElapsedMS: c.ElapsedMS,
			IsDigit:      true,
		}
		if run.WebGPUInitOK && i < len(run.GPU) {
			g := run.GPU[i]
			row.GPUPred = g.Pred
			row.GPUTop1Score = g.Top1Score
			row.GPUElapsedMS = g.ElapsedMS
		}
		if i < len(run.Drift) {
			row.DriftMAE = run.Drift[i].MAE
			row.DriftMaxAbs = run.Drift[i].MaxAbs
		}
		rows = append(rows, row)
	}
	return rows
}
