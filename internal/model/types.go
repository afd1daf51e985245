/*
PURPOSE:
  Defines the core data structures used throughout Telemetry Report.
  Snapshot/ModelRun/SampleRecord mirror one telemetry_*.json file after
  parsing; the row types in rows.go are the flattened report tables.

REQUIREMENTS:
  User-specified:
  - Record machine specs, per-model timings, per-digit predictions and drift.
  - Missing numbers must stay missing (never zero).

  Implementation-discovered:
  - Optional numbers are pointers; nil means absent.
  - Defaults are applied once by the loader, not at every read site.

ARCHITECTURE INTEGRATION:
  - Produced by: internal/loader
  - Used by: internal/normalize, internal/metrics, internal/anomaly, internal/output

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Treat a loaded Snapshot as read-only.

RELATED FILES:
  - internal/loader/decode.go
  - internal/model/rows.go
*/

package model

// Source identifies the runtime that produced a snapshot.
type Source string

const (
	SourceNative    Source = "native"
	SourceWASMBun   Source = "wasm-bun"
	SourceWASMIonic Source = "wasm-ionic"
)

// SystemInfo describes the machine a snapshot was captured on.
type SystemInfo struct {
	Architecture string
	OS           string
	OSVersion    string
	CPUModel     string
	GPUModel     string
	DeviceModel  string
	RAMBytes     *float64
}

// Snapshot is one telemetry file: one machine's run across several models.
type Snapshot struct {
	// Stem is the file name without extension; it is the dedup identity.
	Stem       string
	SourcePath string

	Version   string
	Source    Source
	MachineID string
	StartedAt string
	EndedAt   string
	System    SystemInfo
	PerModel  []ModelRun
}

// ModelRun is one model evaluated on one machine.
// CPU, GPU and Drift are index-aligned: position i is the same input sample.
type ModelRun struct {
	ModelFile        string
	WebGPUInitOK     bool
	WebGPUInitTimeMS *float64
	CPU              []SampleRecord
	GPU              []SampleRecord
	Drift            []DriftRecord
	ADHD10           ADHDScore
}

// SampleRecord is one digit classification trial on one device.
type SampleRecord struct {
	Digit     *int
	Idx       *int
	Pred      *int
	Top1Score *float64
	ElapsedMS *float64
}

// DriftRecord is the CPU/GPU output difference for one sample.
type DriftRecord struct {
	Digit  *int
	Idx    *int
	MAE    *float64
	MaxAbs *float64
}

// ADHDScore holds the aggregates precomputed by the benchmark client.
type ADHDScore struct {
	Top1AccuracyCPU    *float64
	Top1AccuracyGPU    *float64
	CPUvsGPUAgreeCount *float64
	AvgDriftMAE        *float64
	MaxDriftMaxAbs     *float64
}
