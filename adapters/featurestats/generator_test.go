package featurestats

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gofacets/domain/core"
	"gofacets/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(opts Options) *Generator {
	return NewGenerator(opts, nil)
}

func computeOne(t *testing.T, g *Generator, table *dataset.Table) *DatasetFeatureStatistics {
	t.Helper()
	list, err := g.Compute(context.Background(), []dataset.Entry{{Name: "train", Table: table}})
	require.NoError(t, err)
	require.Len(t, list.Datasets, 1)
	return list.Datasets[0]
}

func TestCompute_NumericColumn(t *testing.T) {
	values := make([]any, 0, 12)
	for i := 1; i <= 10; i++ {
		values = append(values, int64(i))
	}
	values = append(values, nil, int64(0))

	ds := computeOne(t, newTestGenerator(DefaultOptions()), dataset.NewTable(dataset.Column{Name: "count", Values: values}))

	assert.Equal(t, uint64(12), ds.NumExamples)
	require.Len(t, ds.Features, 1)
	f := ds.Features[0]
	assert.Equal(t, TypeInt, f.Type)
	require.NotNil(t, f.NumStats)

	num := f.NumStats
	assert.Equal(t, uint64(11), num.CommonStats.NumNonMissing)
	assert.Equal(t, uint64(1), num.CommonStats.NumMissing)
	assert.Equal(t, uint64(1), num.CommonStats.MinNumValues)
	assert.Equal(t, uint64(1), num.CommonStats.MaxNumValues)
	assert.Equal(t, uint64(11), num.CommonStats.TotNumValues)
	assert.Equal(t, uint64(1), num.NumZeros)
	assert.Equal(t, 0.0, num.Min)
	assert.Equal(t, 10.0, num.Max)
	assert.InDelta(t, 5.0, num.Mean, 1e-9)
	assert.InDelta(t, 5.0, num.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(10), num.StdDev, 1e-9)

	require.Len(t, num.Histograms, 2)
	standard, quantiles := num.Histograms[0], num.Histograms[1]
	assert.Equal(t, HistogramStandard, standard.Type)
	require.Len(t, standard.Buckets, 10)
	total := 0.0
	for _, b := range standard.Buckets {
		total += b.SampleCount
	}
	assert.Equal(t, 11.0, total)
	assert.Equal(t, 0.0, standard.Buckets[0].LowValue)
	assert.Equal(t, 10.0, standard.Buckets[9].HighValue)
	assert.GreaterOrEqual(t, standard.Buckets[9].SampleCount, 1.0)

	assert.Equal(t, HistogramQuantiles, quantiles.Type)
	require.Len(t, quantiles.Buckets, 10)
	assert.InDelta(t, 0.0, quantiles.Buckets[0].LowValue, 1e-9)
	assert.InDelta(t, 10.0, quantiles.Buckets[9].HighValue, 1e-9)
	assert.InDelta(t, 1.1, quantiles.Buckets[0].SampleCount, 1e-9)
}

func TestCompute_ConstantColumnHistogram(t *testing.T) {
	table := dataset.NewTable(dataset.Column{Name: "c", Values: []any{3.0, 3.0, 3.0}})
	ds := computeOne(t, newTestGenerator(DefaultOptions()), table)

	standard := ds.Features[0].NumStats.Histograms[0]
	total := 0.0
	for _, b := range standard.Buckets {
		total += b.SampleCount
	}
	assert.Equal(t, 3.0, total)
	assert.Equal(t, 2.5, standard.Buckets[0].LowValue)
	assert.Equal(t, 3.5, standard.Buckets[len(standard.Buckets)-1].HighValue)
	assert.Equal(t, 0.0, ds.Features[0].NumStats.StdDev)
}

func TestCompute_FloatNaNAndInf(t *testing.T) {
	table := dataset.NewTable(dataset.Column{Name: "x", Values: []any{1.0, math.NaN(), math.Inf(1), 3.0}})
	ds := computeOne(t, newTestGenerator(DefaultOptions()), table)

	f := ds.Features[0]
	assert.Equal(t, TypeFloat, f.Type)
	assert.Equal(t, uint64(1), f.NumStats.CommonStats.NumMissing)
	assert.Equal(t, uint64(3), f.NumStats.CommonStats.NumNonMissing)
	assert.True(t, math.IsInf(f.NumStats.Max, 1))
	assert.InDelta(t, 2.0, f.NumStats.Mean, 1e-9)
	assert.Equal(t, uint64(1), f.NumStats.Histograms[0].NumNaN)
	assert.Equal(t, uint64(1), f.NumStats.Histograms[0].NumUndefined)
}

func TestCompute_StringColumn(t *testing.T) {
	table := dataset.NewTable(dataset.Column{
		Name:   "city",
		Values: []any{"a", "b", "a", nil, "c", "a", "b"},
	})
	ds := computeOne(t, newTestGenerator(DefaultOptions()), table)

	f := ds.Features[0]
	assert.Equal(t, TypeString, f.Type)
	require.NotNil(t, f.StringStats)
	s := f.StringStats
	assert.Equal(t, uint64(6), s.CommonStats.NumNonMissing)
	assert.Equal(t, uint64(1), s.CommonStats.NumMissing)
	assert.Equal(t, uint64(3), s.Unique)
	assert.Equal(t, float32(1), s.AvgLength)
	assert.Equal(t, []FreqAndValue{{Value: "a", Frequency: 3}, {Value: "b", Frequency: 2}}, s.TopValues)

	require.Len(t, s.RankHistogram.Buckets, 3)
	assert.Equal(t, RankBucket{LowRank: 2, HighRank: 2, Label: "c", SampleCount: 1}, s.RankHistogram.Buckets[2])
}

func TestCompute_MaxCategoricalLevels(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCategoricalLevels = 2
	table := dataset.NewTable(dataset.Column{Name: "k", Values: []any{"x", "y", "z", "x"}})

	ds := computeOne(t, newTestGenerator(opts), table)
	assert.Len(t, ds.Features[0].StringStats.RankHistogram.Buckets, 2)
	assert.Equal(t, uint64(3), ds.Features[0].StringStats.Unique)
}

func TestCompute_TypeMapping(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := dataset.NewTable(
		dataset.Column{Name: "flag", Values: []any{true, false}},
		dataset.Column{Name: "when", Values: []any{now, now.Add(time.Hour)}},
		dataset.Column{Name: "mixed", Values: []any{int64(1), 2.5}},
		dataset.Column{Name: "text", Values: []any{int64(1), "one"}},
		dataset.Column{Name: "raw", Values: []any{[]byte("ab"), []byte("abcd")}},
		dataset.Column{Name: "empty", Values: []any{nil, nil}},
	)
	ds := computeOne(t, newTestGenerator(DefaultOptions()), table)

	got := make(map[string]FeatureType)
	for _, f := range ds.Features {
		got[f.Name] = f.Type
	}
	assert.Equal(t, map[string]FeatureType{
		"flag":  TypeInt,
		"when":  TypeInt,
		"mixed": TypeFloat,
		"text":  TypeString,
		"raw":   TypeBytes,
		"empty": TypeString,
	}, got)

	for _, f := range ds.Features {
		if f.Name == "raw" {
			assert.Equal(t, float32(3), f.BytesStats.AvgNumBytes)
			assert.Equal(t, float32(2), f.BytesStats.MinNumBytes)
			assert.Equal(t, float32(4), f.BytesStats.MaxNumBytes)
		}
		if f.Name == "flag" {
			assert.Equal(t, 0.5, f.NumStats.Mean)
		}
	}
}

func TestCompute_RejectsRaggedTable(t *testing.T) {
	table := dataset.NewTable(
		dataset.Column{Name: "a", Values: []any{1, 2, 3}},
		dataset.Column{Name: "b", Values: []any{1}},
	)
	_, err := newTestGenerator(DefaultOptions()).Compute(context.Background(), []dataset.Entry{{Name: "bad", Table: table}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedShape))
	assert.True(t, core.IsGeneratorError(err))
}

func TestCompute_RejectsUnsupportedCell(t *testing.T) {
	table := dataset.NewTable(dataset.Column{Name: "a", Values: []any{struct{}{}}})
	_, err := newTestGenerator(DefaultOptions()).Compute(context.Background(), []dataset.Entry{{Name: "bad", Table: table}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedCell))
}

func TestCompute_DuplicateNamesKept(t *testing.T) {
	first := dataset.NewTable(dataset.Column{Name: "v", Values: []any{1.0, 2.0}})
	second := dataset.NewTable(dataset.Column{Name: "v", Values: []any{10.0, 20.0, 30.0}})

	list, err := newTestGenerator(DefaultOptions()).Compute(context.Background(), []dataset.Entry{
		{Name: "split", Table: first},
		{Name: "split", Table: second},
	})
	require.NoError(t, err)
	require.Len(t, list.Datasets, 2)
	assert.Equal(t, "split", list.Datasets[0].Name)
	assert.Equal(t, "split", list.Datasets[1].Name)
	assert.Equal(t, uint64(2), list.Datasets[0].NumExamples)
	assert.Equal(t, uint64(3), list.Datasets[1].NumExamples)
	assert.InDelta(t, 1.5, list.Datasets[0].Features[0].NumStats.Mean, 1e-9)
	assert.InDelta(t, 20.0, list.Datasets[1].Features[0].NumStats.Mean, 1e-9)
}

func TestCompute_FillsFeaturesMissingFromADataset(t *testing.T) {
	train := dataset.NewTable(
		dataset.Column{Name: "age", Values: []any{1.0, 2.0}},
		dataset.Column{Name: "label", Values: []any{"y", "n"}},
	)
	eval := dataset.NewTable(dataset.Column{Name: "age", Values: []any{3.0, 4.0, 5.0}})

	list, err := newTestGenerator(DefaultOptions()).Compute(context.Background(), []dataset.Entry{
		{Name: "train", Table: train},
		{Name: "eval", Table: eval},
	})
	require.NoError(t, err)

	evalStats := list.Datasets[1]
	require.Len(t, evalStats.Features, 2)
	label := evalStats.Features[1]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, TypeString, label.Type)
	assert.Equal(t, uint64(3), label.Common().NumMissing)
	assert.Equal(t, uint64(0), label.Common().NumNonMissing)
}

func TestGenerate_EmptyInput(t *testing.T) {
	b, err := newTestGenerator(DefaultOptions()).Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestGenerate_Deterministic(t *testing.T) {
	table := dataset.NewTable(
		dataset.Column{Name: "n", Values: []any{1.5, 2.5, nil, 7.0}},
		dataset.Column{Name: "s", Values: []any{"x", "y", "y", "z"}},
	)
	in := []dataset.Entry{{Name: "train", Table: table}}
	g := newTestGenerator(DefaultOptions())

	first, err := g.Generate(context.Background(), in)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestGenerate_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := dataset.NewTable(dataset.Column{Name: "n", Values: []any{1.0}})
	_, err := newTestGenerator(DefaultOptions()).Generate(ctx, []dataset.Entry{{Name: "t", Table: table}})
	assert.ErrorIs(t, err, context.Canceled)
}
