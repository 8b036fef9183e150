package featurestats

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers from feature_statistics.proto
const (
	fieldListDatasets protowire.Number = 1

	fieldDatasetName        protowire.Number = 1
	fieldDatasetNumExamples protowire.Number = 2
	fieldDatasetFeatures    protowire.Number = 3

	fieldFeatureName        protowire.Number = 1
	fieldFeatureType        protowire.Number = 2
	fieldFeatureNumStats    protowire.Number = 3
	fieldFeatureStringStats protowire.Number = 4
	fieldFeatureBytesStats  protowire.Number = 5

	fieldCommonNumNonMissing      protowire.Number = 1
	fieldCommonNumMissing         protowire.Number = 2
	fieldCommonMinNumValues       protowire.Number = 3
	fieldCommonMaxNumValues       protowire.Number = 4
	fieldCommonAvgNumValues       protowire.Number = 5
	fieldCommonNumValuesHistogram protowire.Number = 6
	fieldCommonTotNumValues       protowire.Number = 8

	fieldNumCommon     protowire.Number = 1
	fieldNumMean       protowire.Number = 2
	fieldNumStdDev     protowire.Number = 3
	fieldNumZeros      protowire.Number = 4
	fieldNumMin        protowire.Number = 5
	fieldNumMedian     protowire.Number = 6
	fieldNumMax        protowire.Number = 7
	fieldNumHistograms protowire.Number = 8

	fieldStringCommon        protowire.Number = 1
	fieldStringUnique        protowire.Number = 2
	fieldStringTopValues     protowire.Number = 3
	fieldStringAvgLength     protowire.Number = 4
	fieldStringRankHistogram protowire.Number = 5

	fieldFreqValue     protowire.Number = 2
	fieldFreqFrequency protowire.Number = 3

	fieldBytesCommon      protowire.Number = 1
	fieldBytesUnique      protowire.Number = 2
	fieldBytesAvgNumBytes protowire.Number = 3
	fieldBytesMinNumBytes protowire.Number = 4
	fieldBytesMaxNumBytes protowire.Number = 5

	fieldHistNumNaN       protowire.Number = 1
	fieldHistNumUndefined protowire.Number = 2
	fieldHistBuckets      protowire.Number = 3
	fieldHistType         protowire.Number = 4
	fieldHistName         protowire.Number = 5

	fieldBucketLow         protowire.Number = 1
	fieldBucketHigh        protowire.Number = 2
	fieldBucketSampleCount protowire.Number = 4

	fieldRankBuckets protowire.Number = 1
	fieldRankName    protowire.Number = 2

	fieldRankBucketLow         protowire.Number = 1
	fieldRankBucketHigh        protowire.Number = 2
	fieldRankBucketLabel       protowire.Number = 4
	fieldRankBucketSampleCount protowire.Number = 5
)

// Marshal serializes the list in protobuf binary form. Zero scalars are
// omitted the way proto3 does.
func (l *DatasetFeatureStatisticsList) Marshal() ([]byte, error) {
	var b []byte
	if l == nil {
		return b, nil
	}
	for _, d := range l.Datasets {
		b = appendMessage(b, fieldListDatasets, d.marshal())
	}
	return b, nil
}

func (d *DatasetFeatureStatistics) marshal() []byte {
	var b []byte
	b = appendString(b, fieldDatasetName, d.Name)
	b = appendUint64(b, fieldDatasetNumExamples, d.NumExamples)
	for _, f := range d.Features {
		b = appendMessage(b, fieldDatasetFeatures, f.marshal())
	}
	return b
}

func (f *FeatureNameStatistics) marshal() []byte {
	var b []byte
	b = appendString(b, fieldFeatureName, f.Name)
	b = appendUint64(b, fieldFeatureType, uint64(f.Type))
	switch {
	case f.NumStats != nil:
		b = appendMessage(b, fieldFeatureNumStats, f.NumStats.marshal())
	case f.StringStats != nil:
		b = appendMessage(b, fieldFeatureStringStats, f.StringStats.marshal())
	case f.BytesStats != nil:
		b = appendMessage(b, fieldFeatureBytesStats, f.BytesStats.marshal())
	}
	return b
}

func (c *CommonStatistics) marshal() []byte {
	var b []byte
	b = appendUint64(b, fieldCommonNumNonMissing, c.NumNonMissing)
	b = appendUint64(b, fieldCommonNumMissing, c.NumMissing)
	b = appendUint64(b, fieldCommonMinNumValues, c.MinNumValues)
	b = appendUint64(b, fieldCommonMaxNumValues, c.MaxNumValues)
	b = appendFloat(b, fieldCommonAvgNumValues, c.AvgNumValues)
	if c.NumValuesHistogram != nil {
		b = appendMessage(b, fieldCommonNumValuesHistogram, c.NumValuesHistogram.marshal())
	}
	b = appendUint64(b, fieldCommonTotNumValues, c.TotNumValues)
	return b
}

func (n *NumericStatistics) marshal() []byte {
	var b []byte
	if n.CommonStats != nil {
		b = appendMessage(b, fieldNumCommon, n.CommonStats.marshal())
	}
	b = appendDouble(b, fieldNumMean, n.Mean)
	b = appendDouble(b, fieldNumStdDev, n.StdDev)
	b = appendUint64(b, fieldNumZeros, n.NumZeros)
	b = appendDouble(b, fieldNumMin, n.Min)
	b = appendDouble(b, fieldNumMedian, n.Median)
	b = appendDouble(b, fieldNumMax, n.Max)
	for _, h := range n.Histograms {
		b = appendMessage(b, fieldNumHistograms, h.marshal())
	}
	return b
}

func (s *StringStatistics) marshal() []byte {
	var b []byte
	if s.CommonStats != nil {
		b = appendMessage(b, fieldStringCommon, s.CommonStats.marshal())
	}
	b = appendUint64(b, fieldStringUnique, s.Unique)
	for _, tv := range s.TopValues {
		var v []byte
		v = appendString(v, fieldFreqValue, tv.Value)
		v = appendDouble(v, fieldFreqFrequency, tv.Frequency)
		b = appendMessage(b, fieldStringTopValues, v)
	}
	b = appendFloat(b, fieldStringAvgLength, s.AvgLength)
	if s.RankHistogram != nil {
		b = appendMessage(b, fieldStringRankHistogram, s.RankHistogram.marshal())
	}
	return b
}

func (s *BytesStatistics) marshal() []byte {
	var b []byte
	if s.CommonStats != nil {
		b = appendMessage(b, fieldBytesCommon, s.CommonStats.marshal())
	}
	b = appendUint64(b, fieldBytesUnique, s.Unique)
	b = appendFloat(b, fieldBytesAvgNumBytes, s.AvgNumBytes)
	b = appendFloat(b, fieldBytesMinNumBytes, s.MinNumBytes)
	b = appendFloat(b, fieldBytesMaxNumBytes, s.MaxNumBytes)
	return b
}

func (h *Histogram) marshal() []byte {
	var b []byte
	b = appendUint64(b, fieldHistNumNaN, h.NumNaN)
	b = appendUint64(b, fieldHistNumUndefined, h.NumUndefined)
	for _, bucket := range h.Buckets {
		var v []byte
		v = appendDouble(v, fieldBucketLow, bucket.LowValue)
		v = appendDouble(v, fieldBucketHigh, bucket.HighValue)
		v = appendDouble(v, fieldBucketSampleCount, bucket.SampleCount)
		b = appendMessage(b, fieldHistBuckets, v)
	}
	b = appendUint64(b, fieldHistType, uint64(h.Type))
	b = appendString(b, fieldHistName, h.Name)
	return b
}

func (r *RankHistogram) marshal() []byte {
	var b []byte
	for _, bucket := range r.Buckets {
		var v []byte
		v = appendUint64(v, fieldRankBucketLow, bucket.LowRank)
		v = appendUint64(v, fieldRankBucketHigh, bucket.HighRank)
		v = appendString(v, fieldRankBucketLabel, bucket.Label)
		v = appendDouble(v, fieldRankBucketSampleCount, bucket.SampleCount)
		b = appendMessage(b, fieldRankBuckets, v)
	}
	b = appendString(b, fieldRankName, r.Name)
	return b
}

// appendMessage always writes the field, so an empty sub-message stays present.
func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	bits := math.Float64bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, bits)
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	bits := math.Float32bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, bits)
}
