package model

// SpecRow is one machine specification row (one per snapshot).
type SpecRow struct {
	MachineID     string  `json:"machine_id"`
	MachineName   string  `json:"machine_name"`
	Architecture  string  `json:"architecture"`
	OS            string  `json:"os"`
	OSVersion     string  `json:"os_version"`
	CPUModel      string  `json:"cpu_model"`
	GPUModel      string  `json:"gpu_model"`
	RAMGB         float64 `json:"ram_gb"`
	StartedAt     string  `json:"started_at"`
	ModelsTested  int     `json:"models_tested"`
	Source        Source  `json:"source"`
	SchemaVersion string  `json:"schema_version"`
}

// SummaryRow is one row per (snapshot, model) with derived metrics.
type SummaryRow struct {
	Snapshot    string `json:"snapshot"`
	MachineID   string `json:"machine_id"`
	MachineName string `json:"machine_name"`
	ModelFile   string `json:"model_file"`
	ModelSize   string `json:"model_size"`

	WebGPUInitOK     bool     `json:"webgpu_init_ok"`
	WebGPUInitTimeMS *float64 `json:"webgpu_init_time_ms"`

	CPUTop1Accuracy    *float64 `json:"cpu_top1_accuracy"`
	GPUTop1Accuracy    *float64 `json:"gpu_top1_accuracy"`
	CPUvsGPUAgreeCount *float64 `json:"cpu_vs_gpu_agree_count"`
	AvgDriftMAE        *float64 `json:"avg_drift_mae"`
	MaxDriftMaxAbs     *float64 `json:"max_drift_max_abs"`

	CPUElapsedAvgMS   *float64 `json:"cpu_elapsed_avg_ms"`
	GPUElapsedAvgMS   *float64 `json:"gpu_elapsed_avg_ms"`
	SpeedupGPUOverCPU *float64 `json:"speedup_gpu_over_cpu"`
	CPUSamplesPerSec  *float64 `json:"cpu_samples_per_sec"`
	GPUSamplesPerSec  *float64 `json:"gpu_samples_per_sec"`

	LatP50CPUMS *float64 `json:"lat_p50_cpu_ms"`
	LatP90CPUMS *float64 `json:"lat_p90_cpu_ms"`
	LatP99CPUMS *float64 `json:"lat_p99_cpu_ms"`
	LatP50GPUMS *float64 `json:"lat_p50_gpu_ms"`
	LatP90GPUMS *float64 `json:"lat_p90_gpu_ms"`
	LatP99GPUMS *float64 `json:"lat_p99_gpu_ms"`

	IsDigit bool `json:"is_digit"`
}

// DigitRow is one row per (snapshot, model, CPU sample index).
type DigitRow struct {
	Snapshot    string `json:"snapshot"`
	MachineID   string `json:"machine_id"`
	MachineName string `json:"machine_name"`
	ModelFile   string `json:"model_file"`
	ModelSize   string `json:"model_size"`

	Digit   *int `json:"digit"`
	Idx     *int `json:"idx"`
	CPUPred *int `json:"cpu_pred"`
	GPUPred *int `json:"gpu_pred"`

	CPUTop1Score *float64 `json:"cpu_top1_score"`
	GPUTop1Score *float64 `json:"gpu_top1_score"`
	CPUElapsedMS *float64 `json:"cpu_elapsed_ms"`
	GPUElapsedMS *float64 `json:"gpu_elapsed_ms"`
	DriftMAE     *float64 `json:"drift_mae"`
	DriftMaxAbs  *float64 `json:"drift_max_abs"`

	IsDigit bool `json:"is_digit"`
}

// AnomalyKind names a detected behavior.
type AnomalyKind string

const (
	CPUModeCollapse AnomalyKind = "cpu_mode_collapse"
	GPUModeCollapse AnomalyKind = "gpu_mode_collapse"
)

// Anomaly flags one (snapshot, model) pair.
type Anomaly struct {
	Snapshot    string      `json:"snapshot"`
	MachineID   string      `json:"machine_id"`
	MachineName string      `json:"machine_name"`
	ModelFile   string      `json:"model_file"`
	Kind        AnomalyKind `json:"kind"`
}
