package featurestats

// Types below mirror the messages of the Facets Overview feature_statistics.proto
// that the embedded facets-overview element decodes. Only the fields this
// generator fills are modelled.

// FeatureType is FeatureNameStatistics.Type
type FeatureType int32

const (
	TypeInt FeatureType = iota
	TypeFloat
	TypeString
	TypeBytes
	TypeStruct
)

func (t FeatureType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	case TypeBytes:
		return "BYTES"
	case TypeStruct:
		return "STRUCT"
	default:
		return "UNKNOWN"
	}
}

func (t FeatureType) numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// HistogramType is Histogram.HistogramType
type HistogramType int32

const (
	HistogramStandard HistogramType = iota
	HistogramQuantiles
)

type DatasetFeatureStatisticsList struct {
	Datasets []*DatasetFeatureStatistics `json:"datasets"`
}

type DatasetFeatureStatistics struct {
	Name        string                   `json:"name"`
	NumExamples uint64                   `json:"num_examples"`
	Features    []*FeatureNameStatistics `json:"features"`
}

type FeatureNameStatistics struct {
	Name        string             `json:"name"`
	Type        FeatureType        `json:"type"`
	NumStats    *NumericStatistics `json:"num_stats,omitempty"`
	StringStats *StringStatistics  `json:"string_stats,omitempty"`
	BytesStats  *BytesStatistics   `json:"bytes_stats,omitempty"`
}

// Common returns the common statistics of whichever stats block is set
func (f *FeatureNameStatistics) Common() *CommonStatistics {
	switch {
	case f.NumStats != nil:
		return f.NumStats.CommonStats
	case f.StringStats != nil:
		return f.StringStats.CommonStats
	case f.BytesStats != nil:
		return f.BytesStats.CommonStats
	}
	return nil
}

type CommonStatistics struct {
	NumNonMissing      uint64     `json:"num_non_missing"`
	NumMissing         uint64     `json:"num_missing"`
	MinNumValues       uint64     `json:"min_num_values"`
	MaxNumValues       uint64     `json:"max_num_values"`
	AvgNumValues       float32    `json:"avg_num_values"`
	TotNumValues       uint64     `json:"tot_num_values"`
	NumValuesHistogram *Histogram `json:"num_values_histogram,omitempty"`
}

type NumericStatistics struct {
	CommonStats *CommonStatistics `json:"common_stats"`
	Mean        float64           `json:"mean"`
	StdDev      float64           `json:"std_dev"`
	NumZeros    uint64            `json:"num_zeros"`
	Min         float64           `json:"min"`
	Median      float64           `json:"median"`
	Max         float64           `json:"max"`
	Histograms  []*Histogram      `json:"histograms"`
}

type FreqAndValue struct {
	Value     string  `json:"value"`
	Frequency float64 `json:"frequency"`
}

type StringStatistics struct {
	CommonStats   *CommonStatistics `json:"common_stats"`
	Unique        uint64            `json:"unique"`
	TopValues     []FreqAndValue    `json:"top_values"`
	AvgLength     float32           `json:"avg_length"`
	RankHistogram *RankHistogram    `json:"rank_histogram,omitempty"`
}

type BytesStatistics struct {
	CommonStats *CommonStatistics `json:"common_stats"`
	Unique      uint64            `json:"unique"`
	AvgNumBytes float32           `json:"avg_num_bytes"`
	MinNumBytes float32           `json:"min_num_bytes"`
	MaxNumBytes float32           `json:"max_num_bytes"`
}

type Bucket struct {
	LowValue    float64 `json:"low_value"`
	HighValue   float64 `json:"high_value"`
	SampleCount float64 `json:"sample_count"`
}

type Histogram struct {
	NumNaN       uint64        `json:"num_nan"`
	NumUndefined uint64        `json:"num_undefined"`
	Buckets      []Bucket      `json:"buckets"`
	Type         HistogramType `json:"type"`
	Name         string        `json:"name,omitempty"`
}

type RankBucket struct {
	LowRank     uint64  `json:"low_rank"`
	HighRank    uint64  `json:"high_rank"`
	Label       string  `json:"label"`
	SampleCount float64 `json:"sample_count"`
}

type RankHistogram struct {
	Buckets []RankBucket `json:"buckets"`
	Name    string       `json:"name,omitempty"`
}
