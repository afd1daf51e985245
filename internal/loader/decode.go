package loader

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/daryltucker/telemetry-report/internal/model"
)

// Telemetry files come from several clients (native, wasm) and older
// schema versions, so scalar fields are decoded leniently: a value of the
// wrong shape becomes "absent" instead of failing the whole file.

type optFloat struct{ v *float64 }

func (f *optFloat) UnmarshalJSON(b []byte) error {
	f.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == 't' || b[0] == 'f' || b[0] == '{' || b[0] == '[' {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.v = &v
	return nil
}

// optInt accepts only integral JSON numbers; 3.0 is 3, 3.5 and "3" are absent.
type optInt struct{ v *int }

func (i *optInt) UnmarshalJSON(b []byte) error {
	i.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !(b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return nil
	}
	n := int(v)
	i.v = &n
	return nil
}

type optString string

func (s *optString) UnmarshalJSON(b []byte) error {
	*s = ""
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = optString(str)
	}
	return nil
}

// optBool follows truthiness: non-zero numbers and non-empty strings are true.
type optBool bool

func (o *optBool) UnmarshalJSON(b []byte) error {
	*o = false
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case bool:
		*o = optBool(v)
	case float64:
		*o = v != 0
	case string:
		*o = v != ""
	}
	return nil
}

type snapshotJSON struct {
	Version   optString      `json:"version"`
	Source    optString      `json:"source"`
	MachineID *optString     `json:"machine_id"`
	StartedAt optString      `json:"started_at"`
	EndedAt   optString      `json:"ended_at"`
	System    systemInfoJSON `json:"system_info"`
	PerModel  []modelRunJSON `json:"per_model"`
}

type systemInfoJSON struct {
	Architecture optString `json:"architecture"`
	OS           optString `json:"os"`
	OSVersion    optString `json:"os_version"`
	CPUModel     optString `json:"cpu_model"`
	GPUModel     optString `json:"gpu_model"`
	DeviceModel  optString `json:"device_model"`
	RAMBytes     optFloat  `json:"ram_bytes"`
}

type modelRunJSON struct {
	ModelFile        optString    `json:"model_file"`
	WebGPUInitOK     optBool      `json:"webgpu_init_ok"`
	WebGPUInitTimeMS optFloat     `json:"webgpu_init_time_ms"`
	CPU              []sampleJSON `json:"cpu"`
	GPU              []sampleJSON `json:"gpu"`
	Drift            []driftJSON  `json:"drift"`
	ADHD10           adhdJSON     `json:"adhd10"`
}

type sampleJSON struct {
	Digit     optInt   `json:"digit"`
	Idx       optInt   `json:"idx"`
	Pred      optInt   `json:"pred"`
	Top1Score optFloat `json:"top1_score"`
	ElapsedMS optFloat `json:"elapsed_ms"`
}

type driftJSON struct {
	Digit  optInt   `json:"digit"`
	Idx    optInt   `json:"idx"`
	MAE    optFloat `json:"mae"`
	MaxAbs optFloat `json:"max_abs"`
}

type adhdJSON struct {
	Top1AccuracyCPU    optFloat `json:"top1_accuracy_cpu"`
	Top1AccuracyGPU    optFloat `json:"top1_accuracy_gpu"`
	CPUvsGPUAgreeCount optFloat `json:"cpu_vs_gpu_agree_count"`
	AvgDriftMAE        optFloat `json:"avg_drift_mae"`
	MaxDriftMaxAbs     optFloat `json:"max_drift_max_abs"`
}

// decodeSnapshot parses one telemetry document. stem is used as the
// machine id when the document carries none.
func decodeSnapshot(data []byte, stem string) (model.Snapshot, error) {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, err
	}

	machineID := stem
	if raw.MachineID != nil && *raw.MachineID != "" {
		machineID = string(*raw.MachineID)
	}

	snap := model.Snapshot{
		Stem:      stem,
		Version:   string(raw.Version),
		Source:    model.Source(raw.Source),
		MachineID: machineID,
		StartedAt: string(raw.StartedAt),
		EndedAt:   string(raw.EndedAt),
		System: model.SystemInfo{
			Architecture: string(raw.System.Architecture),
			OS:           string(raw.System.OS),
			OSVersion:    string(raw.System.OSVersion),
			CPUModel:     string(raw.System.CPUModel),
			GPUModel:     string(raw.System.GPUModel),
			DeviceModel:  string(raw.System.DeviceModel),
			RAMBytes:     raw.System.RAMBytes.v,
		},
		PerModel: make([]model.ModelRun, 0, len(raw.PerModel)),
	}

	for _, m := range raw.PerModel {
		snap.PerModel = append(snap.PerModel, model.ModelRun{
			ModelFile:        string(m.ModelFile),
			WebGPUInitOK:     bool(m.WebGPUInitOK),
			WebGPUInitTimeMS: m.WebGPUInitTimeMS.v,
			CPU:              convertSamples(m.CPU),
			GPU:              convertSamples(m.GPU),
			Drift:            convertDrift(m.Drift),
			ADHD10: model.ADHDScore{
				Top1AccuracyCPU:    m.ADHD10.Top1AccuracyCPU.v,
				Top1AccuracyGPU:    m.ADHD10.Top1AccuracyGPU.v,
				CPUvsGPUAgreeCount: m.ADHD10.CPUvsGPUAgreeCount.v,
				AvgDriftMAE:        m.ADHD10.AvgDriftMAE.v,
				MaxDriftMaxAbs:     m.ADHD10.MaxDriftMaxAbs.v,
			},
		})
	}
	return snap, nil
}

func convertSamples(in []sampleJSON) []model.SampleRecord {
	out := make([]model.SampleRecord, len(in))
	for i, s := range in {
		out[i] = model.SampleRecord{
			Digit:     s.Digit.v,
			Idx:       s.Idx.v,
			Pred:      s.Pred.v,
			Top1Score: s.Top1Score.v,
			ElapsedMS: s.ElapsedMS.v,
		}
	}
	return out
}

func convertDrift(in []driftJSON) []model.DriftRecord {
	out := make([]model.DriftRecord, len(in))
	for i, d := range in {
		out[i] = model.DriftRecord{
			Digit:  d.Digit.v,
			Idx:    d.Idx.v,
			MAE:    d.MAE.v,
			MaxAbs: d.MaxAbs.v,
		}
	}
	return out
}
