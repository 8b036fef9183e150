package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the cell type a raw text column is coerced to
type ColumnType string

const (
	ColumnInteger   ColumnType = "integer"
	ColumnNumeric   ColumnType = "numeric"
	ColumnBoolean   ColumnType = "boolean"
	ColumnTimestamp ColumnType = "timestamp"
	ColumnString    ColumnType = "string"
)

// TypeCoercer handles deterministic type coercion of text cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`   // % of values that must parse as numbers
	BooleanThreshold   float64 `json:"boolean_threshold"`   // % of values that must parse as booleans
	TimestampThreshold float64 `json:"timestamp_threshold"` // % of values that must parse as timestamps
	NormalizeStrings   bool    `json:"normalize_strings"`   // Whether to lower-case and collapse whitespace
}

// DefaultCoercionConfig types a column only when every non-empty cell parses.
// Lower thresholds trade the cells that do not parse for a typed column.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
		NormalizeStrings:   false,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceColumn picks a type for the raw cells and converts each one. Empty
// cells and cells that do not parse as the chosen type become nil.
func (c *TypeCoercer) CoerceColumn(raw []string) (ColumnType, []any) {
	analysis := c.AnalyzeTypeDistribution(raw)
	out := make([]any, len(raw))

	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		switch analysis.RecommendedType {
		case ColumnInteger:
			if v, ok := c.tryParseInteger(s); ok {
				out[i] = v
			} else if v, ok := c.tryParseNumeric(s); ok {
				out[i] = int64(v)
			}
		case ColumnNumeric:
			if v, ok := c.tryParseNumeric(s); ok {
				out[i] = v
			}
		case ColumnBoolean:
			if v, ok := c.tryParseBoolean(s); ok {
				out[i] = v
			}
		case ColumnTimestamp:
			if v, ok := c.tryParseTimestamp(s); ok {
				out[i] = v
			}
		default:
			out[i] = c.coerceToString(s)
		}
	}
	return analysis.RecommendedType, out
}

// AnalyzeTypeDistribution counts how many non-empty cells parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	for _, val := range values {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		analysis.ValidCount++

		if _, ok := c.tryParseInteger(val); ok {
			analysis.IntegerCount++
		}
		if _, ok := c.tryParseNumeric(val); ok {
			analysis.NumericCount++
		}
		if _, ok := c.tryParseBoolean(val); ok {
			analysis.BooleanCount++
		}
		if _, ok := c.tryParseTimestamp(val); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

func (c *TypeCoercer) coerceToString(strVal string) string {
	if c.config.NormalizeStrings {
		return c.normalizeString(strVal)
	}
	return strVal
}

func (c *TypeCoercer) tryParseInteger(strVal string) (int64, bool) {
	v, err := strconv.ParseInt(strings.ReplaceAll(strVal, ",", ""), 10, 64)
	return v, err == nil
}

// tryParseNumeric attempts to parse as numeric with strict rules.
// Handles parentheses for negatives, currency symbols and percent signs.
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.ReplaceAll(strings.TrimSpace(cleanVal), ",", "")

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// tryParseBoolean accepts word forms only; 0 and 1 stay numeric
func (c *TypeCoercer) tryParseBoolean(strVal string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(strVal)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

func (c *TypeCoercer) tryParseTimestamp(strVal string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeString applies deterministic string normalization
func (c *TypeCoercer) normalizeString(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// determineRecommendedType chooses the best type based on analysis
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) ColumnType {
	if analysis.ValidCount == 0 {
		return ColumnString
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		if analysis.IntegerCount == analysis.NumericCount {
			return ColumnInteger
		}
		return ColumnNumeric
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return ColumnBoolean
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return ColumnTimestamp
	}
	return ColumnString
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int        `json:"total_count"`
	ValidCount      int        `json:"valid_count"`
	IntegerCount    int        `json:"integer_count"`
	NumericCount    int        `json:"numeric_count"`
	BooleanCount    int        `json:"boolean_count"`
	TimestampCount  int        `json:"timestamp_count"`
	NumericRatio    float64    `json:"numeric_ratio"`
	BooleanRatio    float64    `json:"boolean_ratio"`
	TimestampRatio  float64    `json:"timestamp_ratio"`
	RecommendedType ColumnType `json:"recommended_type"`
}
