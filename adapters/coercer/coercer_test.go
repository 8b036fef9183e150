package coercer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoerceColumn(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name         string
		raw          []string
		expectedType ColumnType
		expected     []any
	}{
		{
			name:         "integers",
			raw:          []string{"1", "2", "", "40"},
			expectedType: ColumnInteger,
			expected:     []any{int64(1), int64(2), nil, int64(40)},
		},
		{
			name:         "floats with currency",
			raw:          []string{"$1.50", "2", "(3.25)"},
			expectedType: ColumnNumeric,
			expected:     []any{1.5, 2.0, -3.25},
		},
		{
			name:         "one stray string keeps the column textual",
			raw:          []string{"1.5", "2.5", "3.5", "4.5", "n/a"},
			expectedType: ColumnString,
			expected:     []any{"1.5", "2.5", "3.5", "4.5", "n/a"},
		},
		{
			name:         "booleans",
			raw:          []string{"true", "False", "yes"},
			expectedType: ColumnBoolean,
			expected:     []any{true, false, true},
		},
		{
			name:         "dates",
			raw:          []string{"2024-01-02", "2024-02-03"},
			expectedType: ColumnTimestamp,
			expected: []any{
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:         "strings keep their case",
			raw:          []string{"North", "south", " East "},
			expectedType: ColumnString,
			expected:     []any{"North", "south", "East"},
		},
		{
			name:         "all empty",
			raw:          []string{"", " "},
			expectedType: ColumnString,
			expected:     []any{nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, got := c.CoerceColumn(tt.raw)
			assert.Equal(t, tt.expectedType, gotType)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeStrings(t *testing.T) {
	config := DefaultCoercionConfig()
	config.NormalizeStrings = true
	c := NewTypeCoercer(config)

	_, got := c.CoerceColumn([]string{"  New   York "})
	assert.Equal(t, []any{"new york"}, got)
}

func TestCoerceColumn_LoweredThresholdDropsUnparsedCells(t *testing.T) {
	config := DefaultCoercionConfig()
	config.NumericThreshold = 0.8
	c := NewTypeCoercer(config)

	gotType, got := c.CoerceColumn([]string{"1.5", "2.5", "3.5", "4.5", "n/a"})
	assert.Equal(t, ColumnNumeric, gotType)
	assert.Equal(t, []any{1.5, 2.5, 3.5, 4.5, nil}, got)

	gotType, _ = c.CoerceColumn([]string{"1.5", "2.5", "n/a"})
	assert.Equal(t, ColumnString, gotType)
}
