/*
PURPOSE:
  Derived performance statistics for one model on one device:
  mean latency, GPU-over-CPU speedup, throughput and P50/P90/P99.

REQUIREMENTS:
  User-specified:
  - Absent samples are excluded from every aggregate, never read as zero.
  - Speedup/throughput are absent instead of Inf or a division fault.
  - Percentile index is round(q/100 * (n-1)) on the sorted values.

  Implementation-discovered:
  - Historical reports were produced with round-half-to-even, so the
    index uses math.RoundToEven to keep them reproducible.

ARCHITECTURE INTEGRATION:
  - Called by: internal/normalize
  - Consumes: model.SampleRecord

ERROR HANDLING:
  - None. Every function is total; "no answer" is a nil result.

IMPLEMENTATION RULES:
  - Never mutate the caller's slices.
*/

package metrics

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/daryltucker/telemetry-report/internal/model"
)

// Standard percentiles reported per device.
const (
	P50 = 50.0
	P90 = 90.0
	P99 = 99.0
)

// Present returns the non-nil, finite values of xs in their original order.
func Present(xs []*float64) []float64 {
	return lo.FilterMap(xs, func(x *float64, _ int) (float64, bool) {
		if x == nil || math.IsNaN(*x) || math.IsInf(*x, 0) {
			return 0, false
		}
		return *x, true
	})
}

// Mean is the arithmetic mean of the present values, or nil if there are none.
func Mean(xs []*float64) *float64 {
	vals := Present(xs)
	if len(vals) == 0 {
		return nil
	}
	return finite(lo.Sum(vals) / float64(len(vals)))
}

// Speedup is cpuMS/gpuMS when both are present and gpuMS is non-zero.
func Speedup(cpuMS, gpuMS *float64) *float64 {
	if cpuMS == nil || gpuMS == nil || *gpuMS == 0 {
		return nil
	}
	return finite(*cpuMS / *gpuMS)
}

// Throughput converts a mean latency in milliseconds to samples per second.
func Throughput(meanMS *float64) *float64 {
	if meanMS == nil || *meanMS == 0 {
		return nil
	}
	return finite(1000.0 / *meanMS)
}

// Percentile selects the element at round(q/100*(n-1)) of the sorted present
// values. It does not interpolate. nil when no value is present.
func Percentile(xs []*float64, q float64) *float64 {
	vals := Present(xs)
	if len(vals) == 0 {
		return nil
	}
	slices.Sort(vals)

	idx := int(math.RoundToEven(q / 100.0 * float64(len(vals)-1)))
	idx = min(max(idx, 0), len(vals)-1)
	return lo.ToPtr(vals[idx])
}

// DeviceStats are the latency figures for one device.
type DeviceStats struct {
	MeanMS        *float64
	SamplesPerSec *float64
	P50MS         *float64
	P90MS         *float64
	P99MS         *float64
}

// Latencies extracts elapsed_ms from samples, keeping absent entries as nil.
func Latencies(samples []model.SampleRecord) []*float64 {
	return lo.Map(samples, func(s model.SampleRecord, _ int) *float64 { return s.ElapsedMS })
}

// Summarize computes DeviceStats over samples. A disabled device (GPU that
// failed to initialize) yields all-absent stats.
func Summarize(samples []model.SampleRecord, enabled bool) DeviceStats {
	if !enabled {
		return DeviceStats{}
	}
	lat := Latencies(samples)
	mean := Mean(lat)
	return DeviceStats{
		MeanMS:        mean,
		SamplesPerSec: Throughput(mean),
		P50MS:         Percentile(lat, P50),
		P90MS:         Percentile(lat, P90),
		P99MS:         Percentile(lat, P99),
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
