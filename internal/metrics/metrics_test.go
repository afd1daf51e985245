package metrics

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/telemetry-report/internal/model"
)

func ptrs(xs ...float64) []*float64 {
	return lo.Map(xs, func(x float64, _ int) *float64 { return lo.ToPtr(x) })
}

func TestPercentile_Examples(t *testing.T) {
	tests := []struct {
		name string
		in   []*float64
		q    float64
		want *float64
	}{
		{"empty", nil, 50, nil},
		{"all absent", []*float64{nil, nil}, 90, nil},
		{"single", ptrs(5), 50, lo.ToPtr(5.0)},
		{"odd middle", ptrs(1, 2, 3, 4, 5), 50, lo.ToPtr(3.0)},
		{"p90 of four rounds up", ptrs(1, 2, 3, 4), 90, lo.ToPtr(4.0)},
		{"unsorted input", ptrs(4, 1, 3, 2), 90, lo.ToPtr(4.0)},
		{"absent skipped", append(ptrs(10, 30), nil, lo.ToPtr(20.0)), 50, lo.ToPtr(20.0)},
		{"p0 is min", ptrs(7, 3, 9), 0, lo.ToPtr(3.0)},
		{"p100 is max", ptrs(7, 3, 9), 100, lo.ToPtr(9.0)},
		// index 0.5*(4-1)=1.5 rounds half to even -> 2
		{"half rounds to even up", ptrs(1, 2, 3, 4), 50, lo.ToPtr(3.0)},
		// index 0.5*(6-1)=2.5 rounds half to even -> 2
		{"half rounds to even down", ptrs(1, 2, 3, 4, 5, 6), 50, lo.ToPtr(3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.in, tt.q)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	in := ptrs(3, 1, 2)
	Percentile(in, 50)
	assert.Equal(t, []float64{3, 1, 2}, Present(in))
}

func TestMean(t *testing.T) {
	assert.Nil(t, Mean(nil))
	assert.Nil(t, Mean([]*float64{nil}))

	got := Mean(append(ptrs(2, 4), nil))
	require.NotNil(t, got)
	assert.Equal(t, 3.0, *got)
}

func TestSpeedup(t *testing.T) {
	got := Speedup(lo.ToPtr(10.0), lo.ToPtr(2.0))
	require.NotNil(t, got)
	assert.Equal(t, 5.0, *got)

	assert.Nil(t, Speedup(lo.ToPtr(10.0), nil), "missing GPU mean")
	assert.Nil(t, Speedup(lo.ToPtr(10.0), lo.ToPtr(0.0)), "zero GPU mean")
	assert.Nil(t, Speedup(nil, lo.ToPtr(2.0)), "missing CPU mean")
}

func TestThroughput(t *testing.T) {
	got := Throughput(lo.ToPtr(4.0))
	require.NotNil(t, got)
	assert.Equal(t, 250.0, *got)

	assert.Nil(t, Throughput(nil))
	assert.Nil(t, Throughput(lo.ToPtr(0.0)))
}

func TestSummarize(t *testing.T) {
	samples := []model.SampleRecord{
		{ElapsedMS: lo.ToPtr(1.0)},
		{ElapsedMS: lo.ToPtr(3.0)},
		{ElapsedMS: nil},
	}

	stats := Summarize(samples, true)
	require.NotNil(t, stats.MeanMS)
	assert.Equal(t, 2.0, *stats.MeanMS)
	require.NotNil(t, stats.SamplesPerSec)
	assert.Equal(t, 500.0, *stats.SamplesPerSec)
	require.NotNil(t, stats.P99MS)
	assert.Equal(t, 3.0, *stats.P99MS)

	assert.Equal(t, DeviceStats{}, Summarize(samples, false))
}

func TestProperty_Percentile(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("percentile is one of the input values", prop.ForAll(
		func(xs []float64, q float64) bool {
			got := Percentile(ptrs(xs...), q)
			if len(xs) == 0 {
				return got == nil
			}
			return got != nil && slices.Contains(xs, *got)
		},
		gen.SliceOf(gen.Float64Range(0, 1e4)),
		gen.Float64Range(0, 100),
	))

	properties.Property("percentile is monotone in q", prop.ForAll(
		func(xs []float64) bool {
			if len(xs) == 0 {
				return true
			}
			in := ptrs(xs...)
			p50, p90, p99 := Percentile(in, P50), Percentile(in, P90), Percentile(in, P99)
			return *p50 <= *p90 && *p90 <= *p99
		},
		gen.SliceOfN(10, gen.Float64Range(0.01, 500)),
	))

	properties.Property("speedup of positive means is finite and positive", prop.ForAll(
		func(cpu, gpu float64) bool {
			s := Speedup(&cpu, &gpu)
			return s != nil && *s > 0
		},
		gen.Float64Range(0.001, 1e5),
		gen.Float64Range(0.001, 1e5),
	))

	properties.TestingRun(t)
}
