// Package anomaly flags suspicious prediction behavior in digit rows.
package anomaly

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/model"
)

// ModeCollapseThreshold is the number of identical predictions (out of the
// ten balanced digits) that marks a model as collapsed.
const ModeCollapseThreshold = 7

// IsModeCollapse reports whether any single class occurs at least
// ModeCollapseThreshold times in preds.
func IsModeCollapse(preds []int) bool {
	for _, n := range lo.CountValues(preds) {
		if n >= ModeCollapseThreshold {
			return true
		}
	}
	return false
}

type groupKey struct {
	Snapshot  string
	ModelFile string
}

// Detect groups digit rows per (snapshot, model) and checks CPU and GPU
// predictions independently. Rows without a prediction are ignored.
func Detect(digits []model.DigitRow) []model.Anomaly {
	groups := lo.GroupBy(digits, func(r model.DigitRow) groupKey {
		return groupKey{Snapshot: r.Snapshot, ModelFile: r.ModelFile}
	})

	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b groupKey) int {
		ra, rb := groups[a][0], groups[b][0]
		return cmp.Or(
			cmp.Compare(ra.MachineName, rb.MachineName),
			cmp.Compare(a.ModelFile, b.ModelFile),
			cmp.Compare(a.Snapshot, b.Snapshot),
		)
	})

	anomalies := []model.Anomaly{}
	for _, k := range keys {
		rows := groups[k]
		flag := func(kind model.AnomalyKind) {
			anomalies = append(anomalies, model.Anomaly{
				Snapshot:    k.Snapshot,
				MachineID:   rows[0].MachineID,
				MachineName: rows[0].MachineName,
				ModelFile:   k.ModelFile,
				Kind:        kind,
			})
		}

		if IsModeCollapse(preds(rows, func(r model.DigitRow) *int { return r.CPUPred })) {
			flag(model.CPUModeCollapse)
		}
		if IsModeCollapse(preds(rows, func(r model.DigitRow) *int { return r.GPUPred })) {
			flag(model.GPUModeCollapse)
		}
	}
	return anomalies
}

func preds(rows []model.DigitRow, pick func(model.DigitRow) *int) []int {
	return lo.FilterMap(rows, func(r model.DigitRow, _ int) (int, bool) {
		p := pick(r)
		if p == nil {
			return 0, false
		}
		return *p, true
	})
}
