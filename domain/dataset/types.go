package dataset

import (
	"fmt"
	"math"
	"time"
)

// Column is a named sequence of scalar cells. A nil cell is missing.
type Column struct {
	Name   string
	Values []any
}

// Table is a rows-by-named-columns value read from an artifact
type Table struct {
	Columns []Column
}

// Entry pairs a dataset name with its table for one statistics request
type Entry struct {
	Name  string
	Table *Table
}

// NewTable builds a table from columns in the given order
func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns}
}

// NumRows returns the row count. Ragged tables report the longest column.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	rows := 0
	for _, c := range t.Columns {
		if len(c.Values) > rows {
			rows = len(c.Values)
		}
	}
	return rows
}

// Validate checks that every column has the same length and a unique name
func (t *Table) Validate() error {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.Columns))
	rows := -1
	for _, c := range t.Columns {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if rows >= 0 && len(c.Values) != rows {
			return fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Values), rows)
		}
		rows = len(c.Values)
	}
	return nil
}

// CellKind classifies a scalar cell
type CellKind int

const (
	KindMissing CellKind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindTime
	KindBytes
	KindUnsupported
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	default:
		return "unsupported"
	}
}

// KindOf reports the kind of a cell. NaN floats are KindFloat; callers decide
// whether to treat them as missing.
func KindOf(v any) CellKind {
	switch v.(type) {
	case nil:
		return KindMissing
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case string:
		return KindString
	case time.Time:
		return KindTime
	case []byte:
		return KindBytes
	default:
		return KindUnsupported
	}
}

// AsFloat converts numeric, bool and time cells to float64. Times become unix nanoseconds.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(x.UnixNano()), true
	default:
		return 0, false
	}
}

// IsNaN reports whether v is a floating point NaN
func IsNaN(v any) bool {
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}
