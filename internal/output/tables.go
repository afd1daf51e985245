package output

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/model"
)

// Column sets for each CSV table.
var (
	SpecColumns = []string{
		"machine_id", "machine_name", "architecture", "os", "os_version",
		"cpu_model", "gpu_model", "ram_gb", "started_at", "models_tested",
		"source", "schema_version",
	}

	SummaryColumns = []string{
		"snapshot", "machine_id", "machine_name", "model_file", "model_size",
		"webgpu_init_ok", "webgpu_init_time_ms",
		"cpu_top1_accuracy", "gpu_top1_accuracy", "cpu_vs_gpu_agree_count",
		"avg_drift_mae", "max_drift_max_abs",
		"cpu_elapsed_avg_ms", "gpu_elapsed_avg_ms", "speedup_gpu_over_cpu",
		"cpu_samples_per_sec", "gpu_samples_per_sec",
		"lat_p50_cpu_ms", "lat_p90_cpu_ms", "lat_p99_cpu_ms",
		"lat_p50_gpu_ms", "lat_p90_gpu_ms", "lat_p99_gpu_ms",
		"is_digit",
	}

	DigitColumns = []string{
		"snapshot", "machine_id", "machine_name", "model_file", "model_size",
		"is_digit", "digit", "idx", "cpu_pred", "gpu_pred",
		"cpu_top1_score", "gpu_top1_score", "cpu_elapsed_ms", "gpu_elapsed_ms",
		"drift_mae", "drift_max_abs",
	}

	AnomalyColumns = []string{"snapshot", "machine_id", "machine_name", "model_file", "kind"}

	// AllRowsColumns is the union of summary and digit columns.
	AllRowsColumns = append(append([]string{}, SummaryColumns...), lo.Without(DigitColumns, SummaryColumns...)...)
)

// FormatFloat renders an optional float; absent is an empty cell.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatInt renders an optional int; absent is an empty cell.
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatBool uses the capitalized spelling of the historical CSVs.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func SpecRecord(r model.SpecRow) []string {
	return []string{
		r.MachineID, r.MachineName, r.Architecture, r.OS, r.OSVersion,
		r.CPUModel, r.GPUModel, FormatFloat(&r.RAMGB), r.StartedAt,
		strconv.Itoa(r.ModelsTested), string(r.Source), r.SchemaVersion,
	}
}

func SummaryRecord(r model.SummaryRow) []string {
	return []string{
		r.Snapshot, r.MachineID, r.MachineName, r.ModelFile, r.ModelSize,
		FormatBool(r.WebGPUInitOK), FormatFloat(r.WebGPUInitTimeMS),
		FormatFloat(r.CPUTop1Accuracy), FormatFloat(r.GPUTop1Accuracy), FormatFloat(r.CPUvsGPUAgreeCount),
		FormatFloat(r.AvgDriftMAE), FormatFloat(r.MaxDriftMaxAbs),
		FormatFloat(r.CPUElapsedAvgMS), FormatFloat(r.GPUElapsedAvgMS), FormatFloat(r.SpeedupGPUOverCPU),
		FormatFloat(r.CPUSamplesPerSec), FormatFloat(r.GPUSamplesPerSec),
		FormatFloat(r.LatP50CPUMS), FormatFloat(r.LatP90CPUMS), FormatFloat(r.LatP99CPUMS),
		FormatFloat(r.LatP50GPUMS), FormatFloat(r.LatP90GPUMS), FormatFloat(r.LatP99GPUMS),
		FormatBool(r.IsDigit),
	}
}

func DigitRecord(r model.DigitRow) []string {
	return []string{
		r.Snapshot, r.MachineID, r.MachineName, r.ModelFile, r.ModelSize,
		FormatBool(r.IsDigit), FormatInt(r.Digit), FormatInt(r.Idx), FormatInt(r.CPUPred), FormatInt(r.GPUPred),
		FormatFloat(r.CPUTop1Score), FormatFloat(r.GPUTop1Score), FormatFloat(r.CPUElapsedMS), FormatFloat(r.GPUElapsedMS),
		FormatFloat(r.DriftMAE), FormatFloat(r.DriftMaxAbs),
	}
}

func AnomalyRecord(a model.Anomaly) []string {
	return []string{a.Snapshot, a.MachineID, a.MachineName, a.ModelFile, string(a.Kind)}
}

// AllRowsRecords projects summary rows followed by digit rows onto
// AllRowsColumns, leaving columns a row does not have empty.
func AllRowsRecords(summary []model.SummaryRow, digits []model.DigitRow) [][]string {
	out := make([][]string, 0, len(summary)+len(digits))
	for _, r := range summary {
		out = append(out, project(SummaryColumns, SummaryRecord(r)))
	}
	for _, r := range digits {
		out = append(out, project(DigitColumns, DigitRecord(r)))
	}
	return out
}

func project(columns, record []string) []string {
	byName := lo.SliceToMap(lo.Zip2(columns, record), func(t lo.Tuple2[string, string]) (string, string) {
		return t.A, t.B
	})
	return lo.Map(AllRowsColumns, func(c string, _ int) string { return byName[c] })
}
