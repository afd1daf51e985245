package anomaly

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/telemetry-report/internal/model"
)

func TestIsModeCollapse(t *testing.T) {
	assert.True(t, IsModeCollapse([]int{3, 3, 3, 3, 3, 3, 3, 1, 2, 0}), "seven 3s")
	assert.False(t, IsModeCollapse([]int{3, 3, 3, 3, 3, 3, 1, 1, 2, 0}), "six 3s")
	assert.False(t, IsModeCollapse(nil))
	assert.False(t, IsModeCollapse([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
}

// digitRows builds one group of rows for snapshot/model with the given
// CPU and GPU predictions. A negative prediction means absent.
func digitRows(snapshot, machine, modelFile string, cpu, gpu []int) []model.DigitRow {
	rows := make([]model.DigitRow, len(cpu))
	for i := range cpu {
		rows[i] = model.DigitRow{
			Snapshot:    snapshot,
			MachineID:   "id-" + snapshot,
			MachineName: machine,
			ModelFile:   modelFile,
			Digit:       lo.ToPtr(i),
			IsDigit:     true,
		}
		if cpu[i] >= 0 {
			rows[i].CPUPred = lo.ToPtr(cpu[i])
		}
		if i < len(gpu) && gpu[i] >= 0 {
			rows[i].GPUPred = lo.ToPtr(gpu[i])
		}
	}
	return rows
}

func TestDetect(t *testing.T) {
	collapsed := []int{3, 3, 3, 3, 3, 3, 3, 1, 2, 0}
	healthy := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	var rows []model.DigitRow
	rows = append(rows, digitRows("telemetry_b", "Zeta", "mnist_S1.json", collapsed, healthy)...)
	rows = append(rows, digitRows("telemetry_a", "Alpha", "mnist_M1.json", healthy, collapsed)...)
	rows = append(rows, digitRows("telemetry_a", "Alpha", "mnist_L1.json", collapsed, collapsed)...)
	rows = append(rows, digitRows("telemetry_a", "Alpha", "mnist_XL1.json", healthy, nil)...)

	got := Detect(rows)

	require.Len(t, got, 4)
	assert.Equal(t, model.Anomaly{Snapshot: "telemetry_a", MachineID: "id-telemetry_a", MachineName: "Alpha", ModelFile: "mnist_L1.json", Kind: model.CPUModeCollapse}, got[0])
	assert.Equal(t, model.GPUModeCollapse, got[1].Kind)
	assert.Equal(t, "mnist_L1.json", got[1].ModelFile)
	assert.Equal(t, model.Anomaly{Snapshot: "telemetry_a", MachineID: "id-telemetry_a", MachineName: "Alpha", ModelFile: "mnist_M1.json", Kind: model.GPUModeCollapse}, got[2])
	assert.Equal(t, model.Anomaly{Snapshot: "telemetry_b", MachineID: "id-telemetry_b", MachineName: "Zeta", ModelFile: "mnist_S1.json", Kind: model.CPUModeCollapse}, got[3])
}

func TestDetect_IgnoresAbsentPredictions(t *testing.T) {
	// six real 3s plus four absent values must not count as a collapse
	cpu := []int{3, 3, 3, 3, 3, 3, -1, -1, -1, -1}
	got := Detect(digitRows("telemetry_x", "M", "mnist.json", cpu, nil))
	assert.Empty(t, got)
}

func TestDetect_SeparatesSnapshotsOfSameMachine(t *testing.T) {
	// four 3s in each of two runs: collapse only if the runs were merged
	preds := []int{3, 3, 3, 3, 0, 1, 2, 4, 5, 6}
	rows := append(
		digitRows("telemetry_run1", "M", "mnist_S1.json", preds, nil),
		digitRows("telemetry_run2", "M", "mnist_S1.json", preds, nil)...,
	)
	assert.Empty(t, Detect(rows))
}

func TestDetect_EmptyInput(t *testing.T) {
	got := Detect(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProperty_ModeCollapseMatchesMaxCount(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("flagged iff some class appears at least seven times", prop.ForAll(
		func(preds []int) bool {
			counts := make(map[int]int)
			most := 0
			for _, p := range preds {
				counts[p]++
				most = max(most, counts[p])
			}
			return IsModeCollapse(preds) == (most >= ModeCollapseThreshold)
		},
		gen.SliceOfN(10, gen.IntRange(0, 2)),
	))

	properties.Property("detector never flags a balanced run", prop.ForAll(
		func(offset int) bool {
			preds := make([]int, 10)
			for i := range preds {
				preds[i] = (i + offset) % 10
			}
			return len(Detect(digitRows("s", "m", "f", preds, preds))) == 0
		},
		gen.IntRange(0, 9),
	))

	properties.TestingRun(t)
}
