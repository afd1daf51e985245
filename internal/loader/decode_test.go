package loader

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_LenientScalars(t *testing.T) {
	doc := `{
	  "machine_id": null,
	  "system_info": {"cpu_model": 42, "ram_bytes": "1073741824"},
	  "per_model": [{
	    "model_file": "mnist_S1.json",
	    "webgpu_init_ok": 1,
	    "webgpu_init_time_ms": "n/a",
	    "cpu": [
	      {"pred": 3.0, "elapsed_ms": "2.5"},
	      {"pred": 3.5, "elapsed_ms": null},
	      {"pred": "3", "elapsed_ms": true},
	      {}
	    ],
	    "adhd10": {"top1_accuracy_cpu": {"nested": 1}}
	  }]
	}`

	snap, err := decodeSnapshot([]byte(doc), "telemetry_x")
	require.NoError(t, err)

	assert.Equal(t, "telemetry_x", snap.MachineID)
	assert.Equal(t, "", snap.System.CPUModel)
	assert.Equal(t, lo.ToPtr(1073741824.0), snap.System.RAMBytes)

	run := snap.PerModel[0]
	assert.True(t, run.WebGPUInitOK)
	assert.Nil(t, run.WebGPUInitTimeMS)
	assert.Nil(t, run.ADHD10.Top1AccuracyCPU)

	assert.Equal(t, lo.ToPtr(3), run.CPU[0].Pred)
	assert.Equal(t, lo.ToPtr(2.5), run.CPU[0].ElapsedMS)
	assert.Nil(t, run.CPU[1].Pred, "non-integral prediction")
	assert.Nil(t, run.CPU[1].ElapsedMS)
	assert.Nil(t, run.CPU[2].Pred, "string prediction")
	assert.Nil(t, run.CPU[2].ElapsedMS)
	assert.Nil(t, run.CPU[3].Pred)
	assert.Nil(t, run.CPU[3].Digit)
}

func TestDecode_MissingFieldsUseDefaults(t *testing.T) {
	snap, err := decodeSnapshot([]byte(`{"per_model": [{}]}`), "telemetry_y")
	require.NoError(t, err)

	assert.Equal(t, "telemetry_y", snap.MachineID)
	assert.Nil(t, snap.System.RAMBytes)
	require.Len(t, snap.PerModel, 1)
	assert.False(t, snap.PerModel[0].WebGPUInitOK)
	assert.Empty(t, snap.PerModel[0].CPU)
	assert.Empty(t, snap.PerModel[0].GPU)
	assert.Empty(t, snap.PerModel[0].Drift)
}

func TestDecode_RejectsNonObject(t *testing.T) {
	_, err := decodeSnapshot([]byte(`"telemetry"`), "s")
	assert.Error(t, err)
}

func TestProperty_OptFloatRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("finite numbers decode to themselves, bare or quoted", prop.ForAll(
		func(v float64) bool {
			text := strconv.FormatFloat(v, 'g', -1, 64)
			var bare, quoted optFloat
			_ = bare.UnmarshalJSON([]byte(text))
			_ = quoted.UnmarshalJSON([]byte(strconv.Quote(text)))
			return bare.v != nil && *bare.v == v && quoted.v != nil && *quoted.v == v
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("integral values decode as ints, fractional ones are absent", prop.ForAll(
		func(n int, frac bool) bool {
			var i optInt
			if frac {
				_ = i.UnmarshalJSON([]byte(strconv.Itoa(n) + ".5"))
				return i.v == nil
			}
			_ = i.UnmarshalJSON([]byte(strconv.Itoa(n)))
			return i.v != nil && *i.v == n
		},
		gen.IntRange(-1000, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
