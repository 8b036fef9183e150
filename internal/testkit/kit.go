package testkit

import (
	"bytes"
	"encoding/csv"
	"math"
	"math/rand"
	"strconv"
	"time"

	"gofacets/domain/dataset"
)

// SplitConfig configures the synthetic train/eval split
type SplitConfig struct {
	Rows      int     `json:"rows"`
	EvalShare float64 `json:"eval_share"`
	// MissingRate is the chance each nullable cell is left empty
	MissingRate float64   `json:"missing_rate"`
	Seed        int64     `json:"seed"`
	Start       time.Time `json:"start"`
}

// DefaultSplitConfig returns sensible defaults for demo data
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		Rows:        1000,
		EvalShare:   0.2,
		MissingRate: 0.05,
		Seed:        42,
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Split is a generated pair of tables sharing one schema
type Split struct {
	Train *dataset.Table
	Eval  *dataset.Table
}

// Entries returns the split as named datasets, train first
func (s *Split) Entries() []dataset.Entry {
	return []dataset.Entry{
		{Name: "train", Table: s.Train},
		{Name: "eval", Table: s.Eval},
	}
}

var cities = []string{"Oslo", "Lima", "Pune", "Austin", "Nairobi", "Osaka"}

// SplitGenerator produces deterministic customer-like tables
type SplitGenerator struct {
	config SplitConfig
	rng    *rand.Rand
}

// NewSplitGenerator creates a new generator seeded from config
func NewSplitGenerator(config SplitConfig) *SplitGenerator {
	return &SplitGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the train and eval tables
func (g *SplitGenerator) Generate() *Split {
	rows := g.config.Rows
	if rows < 0 {
		rows = 0
	}
	evalRows := int(math.Round(float64(rows) * g.config.EvalShare))
	if evalRows > rows {
		evalRows = rows
	}
	return &Split{
		Train: g.table(rows - evalRows),
		Eval:  g.table(evalRows),
	}
}

func (g *SplitGenerator) table(rows int) *dataset.Table {
	age := make([]any, rows)
	income := make([]any, rows)
	city := make([]any, rows)
	member := make([]any, rows)
	signup := make([]any, rows)
	label := make([]any, rows)

	for i := 0; i < rows; i++ {
		a := int64(18 + g.rng.Intn(60))
		inc := math.Round(math.Exp(g.rng.NormFloat64()*0.6+10.5)*100) / 100
		c := cities[g.rng.Intn(len(cities))]
		m := g.rng.Float64() < 0.35

		if !g.missing() {
			age[i] = a
		}
		if !g.missing() {
			income[i] = inc
		}
		if !g.missing() {
			city[i] = c
		}
		member[i] = m
		signup[i] = g.config.Start.Add(time.Duration(g.rng.Intn(365*24)) * time.Hour)

		// members and higher incomes convert more often
		p := 0.2
		if m {
			p += 0.3
		}
		if inc > 40000 {
			p += 0.2
		}
		if g.rng.Float64() < p {
			label[i] = "yes"
		} else {
			label[i] = "no"
		}
	}

	return dataset.NewTable(
		dataset.Column{Name: "age", Values: age},
		dataset.Column{Name: "income", Values: income},
		dataset.Column{Name: "city", Values: city},
		dataset.Column{Name: "member", Values: member},
		dataset.Column{Name: "signup", Values: signup},
		dataset.Column{Name: "label", Values: label},
	)
}

func (g *SplitGenerator) missing() bool {
	return g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate
}

// CSV renders table with a header row. Missing cells are written empty.
func CSV(table *dataset.Table) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	record := make([]string, len(table.Columns))
	for row := 0; row < table.NumRows(); row++ {
		for i, col := range table.Columns {
			record[i] = ""
			if row < len(col.Values) {
				record[i] = formatCell(col.Values[row])
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case string:
		return x
	default:
		return ""
	}
}
