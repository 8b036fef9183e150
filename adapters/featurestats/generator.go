package featurestats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"gofacets/domain/core"
	"gofacets/domain/dataset"
	"gofacets/internal"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultHistogramBuckets = 10
	defaultQuantileBuckets  = 10
	defaultTopValues        = 2
)

// Options tunes the generated statistics
type Options struct {
	HistogramBuckets int
	QuantileBuckets  int
	TopValues        int
	// MaxCategoricalLevels caps the rank histogram; zero keeps every level
	MaxCategoricalLevels int
}

// DefaultOptions returns the Facets Overview defaults
func DefaultOptions() Options {
	return Options{
		HistogramBuckets: defaultHistogramBuckets,
		QuantileBuckets:  defaultQuantileBuckets,
		TopValues:        defaultTopValues,
	}
}

// Generator computes Facets feature statistics for named tables
type Generator struct {
	opts   Options
	logger *internal.Logger
}

// NewGenerator creates a generator. Non-positive bucket counts fall back to defaults.
func NewGenerator(opts Options, logger *internal.Logger) *Generator {
	if opts.HistogramBuckets <= 0 {
		opts.HistogramBuckets = defaultHistogramBuckets
	}
	if opts.QuantileBuckets <= 0 {
		opts.QuantileBuckets = defaultQuantileBuckets
	}
	if opts.TopValues <= 0 {
		opts.TopValues = defaultTopValues
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{opts: opts, logger: logger}
}

// Generate implements ports.StatisticsGenerator
func (g *Generator) Generate(ctx context.Context, datasets []dataset.Entry) ([]byte, error) {
	list, err := g.Compute(ctx, datasets)
	if err != nil {
		return nil, err
	}
	return list.Marshal()
}

// Compute builds the statistics list. Datasets keep their input order and
// duplicate names are kept as separate entries.
func (g *Generator) Compute(ctx context.Context, datasets []dataset.Entry) (*DatasetFeatureStatisticsList, error) {
	list := &DatasetFeatureStatisticsList{}
	if len(datasets) == 0 {
		g.logger.Warn("[FeatureStats] no datasets supplied, producing an empty statistics list")
		return list, nil
	}

	for _, entry := range datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds, err := g.computeDataset(entry)
		if err != nil {
			return nil, err
		}
		list.Datasets = append(list.Datasets, ds)
	}

	fillMissingFeatures(list)
	g.logger.Debug("[FeatureStats] computed statistics for %d datasets", len(list.Datasets))
	return list, nil
}

func (g *Generator) computeDataset(entry dataset.Entry) (*DatasetFeatureStatistics, error) {
	if err := entry.Table.Validate(); err != nil {
		return nil, core.NewShapeError(entry.Name, err.Error())
	}

	rows := entry.Table.NumRows()
	ds := &DatasetFeatureStatistics{
		Name:        entry.Name,
		NumExamples: uint64(rows),
	}
	if entry.Table == nil {
		return ds, nil
	}

	for _, col := range entry.Table.Columns {
		ftype, err := classifyColumn(entry.Name, col)
		if err != nil {
			return nil, err
		}
		var feature *FeatureNameStatistics
		switch ftype {
		case TypeInt, TypeFloat:
			feature = g.numericFeature(col, ftype)
		case TypeBytes:
			feature = g.bytesFeature(col)
		default:
			feature = g.stringFeature(col)
		}
		ds.Features = append(ds.Features, feature)
	}
	return ds, nil
}

// classifyColumn maps the cell kinds of a column to a feature type.
// Any string cell makes the column STRING, as does an all-missing column.
func classifyColumn(datasetName string, col dataset.Column) (FeatureType, error) {
	var hasInt, hasFloat, hasString, hasBytes bool
	for _, v := range col.Values {
		switch dataset.KindOf(v) {
		case dataset.KindMissing:
		case dataset.KindInt, dataset.KindBool, dataset.KindTime:
			hasInt = true
		case dataset.KindFloat:
			hasFloat = true
		case dataset.KindString:
			hasString = true
		case dataset.KindBytes:
			hasBytes = true
		default:
			return 0, core.NewCellError(datasetName, col.Name, v)
		}
	}

	switch {
	case hasString:
		return TypeString, nil
	case hasBytes && (hasInt || hasFloat):
		return TypeString, nil
	case hasBytes:
		return TypeBytes, nil
	case hasFloat:
		return TypeFloat, nil
	case hasInt:
		return TypeInt, nil
	default:
		return TypeString, nil
	}
}

func (g *Generator) commonStats(nonMissing, missing int) *CommonStatistics {
	c := &CommonStatistics{
		NumNonMissing: uint64(nonMissing),
		NumMissing:    uint64(missing),
		TotNumValues:  uint64(nonMissing),
	}
	if nonMissing == 0 {
		return c
	}
	// Every present cell holds exactly one value.
	c.MinNumValues = 1
	c.MaxNumValues = 1
	c.AvgNumValues = 1
	c.NumValuesHistogram = &Histogram{Type: HistogramQuantiles}
	per := float64(nonMissing) / float64(g.opts.QuantileBuckets)
	for i := 0; i < g.opts.QuantileBuckets; i++ {
		c.NumValuesHistogram.Buckets = append(c.NumValuesHistogram.Buckets, Bucket{
			LowValue:    1,
			HighValue:   1,
			SampleCount: per,
		})
	}
	return c
}

func (g *Generator) numericFeature(col dataset.Column, ftype FeatureType) *FeatureNameStatistics {
	var (
		finite    []float64
		nanCount  int
		infCount  int
		missing   int
		numZeros  uint64
		minValue  = math.Inf(1)
		maxValue  = math.Inf(-1)
		nonMissed int
	)

	for _, v := range col.Values {
		if v == nil {
			missing++
			continue
		}
		if dataset.IsNaN(v) {
			nanCount++
			missing++
			continue
		}
		x, _ := dataset.AsFloat(v)
		nonMissed++
		if x == 0 {
			numZeros++
		}
		minValue = math.Min(minValue, x)
		maxValue = math.Max(maxValue, x)
		if math.IsInf(x, 0) {
			infCount++
			continue
		}
		finite = append(finite, x)
	}

	num := &NumericStatistics{
		CommonStats: g.commonStats(nonMissed, missing),
		NumZeros:    numZeros,
	}
	if nonMissed > 0 {
		num.Min = minValue
		num.Max = maxValue
	}

	if len(finite) > 0 {
		sort.Float64s(finite)
		num.Mean, _ = stats.Mean(finite)
		num.StdDev, _ = stats.StandardDeviationPopulation(finite)
		num.Median, _ = stats.Median(finite)
	}

	standard := g.standardHistogram(finite)
	standard.NumNaN = uint64(nanCount)
	standard.NumUndefined = uint64(infCount)
	quantiles := g.quantilesHistogram(finite)
	quantiles.NumNaN = uint64(nanCount)
	quantiles.NumUndefined = uint64(infCount)
	num.Histograms = []*Histogram{standard, quantiles}

	return &FeatureNameStatistics{Name: col.Name, Type: ftype, NumStats: num}
}

// standardHistogram buckets sorted finite values into equal width bins over
// [min, max]. The maximum lands in the last bin.
func (g *Generator) standardHistogram(sorted []float64) *Histogram {
	h := &Histogram{Type: HistogramStandard}
	if len(sorted) == 0 {
		return h
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, g.opts.HistogramBuckets+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[len(dividers)-1] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, count := range counts {
		h.Buckets = append(h.Buckets, Bucket{
			LowValue:    edges[i],
			HighValue:   edges[i+1],
			SampleCount: count,
		})
	}
	return h
}

// quantilesHistogram splits sorted finite values into buckets of equal mass
func (g *Generator) quantilesHistogram(sorted []float64) *Histogram {
	h := &Histogram{Type: HistogramQuantiles}
	if len(sorted) == 0 {
		return h
	}

	n := g.opts.QuantileBuckets
	bounds := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		bounds[i] = stat.Quantile(float64(i)/float64(n), stat.LinInterp, sorted, nil)
	}
	per := float64(len(sorted)) / float64(n)
	for i := 0; i < n; i++ {
		h.Buckets = append(h.Buckets, Bucket{
			LowValue:    bounds[i],
			HighValue:   bounds[i+1],
			SampleCount: per,
		})
	}
	return h
}

type valueCount struct {
	value string
	count int
}

func (g *Generator) stringFeature(col dataset.Column) *FeatureNameStatistics {
	counts := make(map[string]int)
	var missing, present, totalLength int

	for _, v := range col.Values {
		if v == nil {
			missing++
			continue
		}
		s := cellString(v)
		present++
		totalLength += utf8.RuneCountInString(s)
		counts[s]++
	}

	ranked := make([]valueCount, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, valueCount{value: value, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].value < ranked[j].value
	})

	str := &StringStatistics{
		CommonStats: g.commonStats(present, missing),
		Unique:      uint64(len(ranked)),
	}
	if present > 0 {
		str.AvgLength = float32(float64(totalLength) / float64(present))
	}

	for i, vc := range ranked {
		if i >= g.opts.TopValues {
			break
		}
		str.TopValues = append(str.TopValues, FreqAndValue{Value: vc.value, Frequency: float64(vc.count)})
	}

	levels := ranked
	if g.opts.MaxCategoricalLevels > 0 && len(levels) > g.opts.MaxCategoricalLevels {
		levels = levels[:g.opts.MaxCategoricalLevels]
	}
	str.RankHistogram = &RankHistogram{}
	for i, vc := range levels {
		str.RankHistogram.Buckets = append(str.RankHistogram.Buckets, RankBucket{
			LowRank:     uint64(i),
			HighRank:    uint64(i),
			Label:       vc.value,
			SampleCount: float64(vc.count),
		})
	}

	return &FeatureNameStatistics{Name: col.Name, Type: TypeString, StringStats: str}
}

func (g *Generator) bytesFeature(col dataset.Column) *FeatureNameStatistics {
	seen := make(map[string]bool)
	var missing, present int
	var lengths []float64

	for _, v := range col.Values {
		b, ok := v.([]byte)
		if !ok {
			missing++
			continue
		}
		present++
		seen[string(b)] = true
		lengths = append(lengths, float64(len(b)))
	}

	bs := &BytesStatistics{
		CommonStats: g.commonStats(present, missing),
		Unique:      uint64(len(seen)),
	}
	if len(lengths) > 0 {
		avg, _ := stats.Mean(lengths)
		lo, _ := stats.Min(lengths)
		hi, _ := stats.Max(lengths)
		bs.AvgNumBytes = float32(avg)
		bs.MinNumBytes = float32(lo)
		bs.MaxNumBytes = float32(hi)
	}
	return &FeatureNameStatistics{Name: col.Name, Type: TypeBytes, BytesStats: bs}
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// fillMissingFeatures adds, to every dataset, the features other datasets
// have and it lacks, with all of its examples counted as missing.
func fillMissingFeatures(list *DatasetFeatureStatisticsList) {
	if len(list.Datasets) < 2 {
		return
	}

	type known struct {
		name  string
		ftype FeatureType
	}
	var order []known
	seen := make(map[string]bool)
	for _, ds := range list.Datasets {
		for _, f := range ds.Features {
			if !seen[f.Name] {
				seen[f.Name] = true
				order = append(order, known{name: f.Name, ftype: f.Type})
			}
		}
	}

	for _, ds := range list.Datasets {
		have := make(map[string]bool, len(ds.Features))
		for _, f := range ds.Features {
			have[f.Name] = true
		}
		for _, k := range order {
			if have[k.name] {
				continue
			}
			common := &CommonStatistics{NumMissing: ds.NumExamples}
			feature := &FeatureNameStatistics{Name: k.name, Type: k.ftype}
			switch {
			case k.ftype.numeric():
				feature.NumStats = &NumericStatistics{CommonStats: common}
			case k.ftype == TypeBytes:
				feature.BytesStats = &BytesStatistics{CommonStats: common}
			default:
				feature.StringStats = &StringStatistics{CommonStats: common}
			}
			ds.Features = append(ds.Features, feature)
		}
	}
}
