package step

import (
	"context"
	"fmt"

	"gofacets/domain/core"
	"gofacets/domain/dataset"
)

// OutputArtifact is a named step output that can be materialized as a table
type OutputArtifact interface {
	Read(ctx context.Context) (*dataset.Table, error)
}

// Output binds an output name to its artifact
type Output struct {
	Name     string
	Artifact OutputArtifact
}

// StepView is the read-only view of an executed pipeline step
type StepView interface {
	ID() core.StepID
	Name() string
	// Outputs returns the outputs in declaration order
	Outputs() []Output
}

// View is an in-memory StepView
type View struct {
	id      core.StepID
	name    string
	outputs []Output
	index   map[string]int
}

// NewView creates an empty step view
func NewView(id core.StepID, name string) *View {
	return &View{id: id, name: name, index: make(map[string]int)}
}

// AddOutput appends an output. Output names are unique within a step.
func (v *View) AddOutput(name string, artifact OutputArtifact) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}
	if _, exists := v.index[name]; exists {
		return fmt.Errorf("duplicate output %q in step %s", name, v.name)
	}
	v.index[name] = len(v.outputs)
	v.outputs = append(v.outputs, Output{Name: name, Artifact: artifact})
	return nil
}

func (v *View) ID() core.StepID { return v.id }
func (v *View) Name() string    { return v.name }

func (v *View) Outputs() []Output {
	out := make([]Output, len(v.outputs))
	copy(out, v.outputs)
	return out
}

// TableArtifact is an artifact whose table is already in memory
type TableArtifact struct {
	Table *dataset.Table
}

func (a TableArtifact) Read(ctx context.Context) (*dataset.Table, error) {
	return a.Table, nil
}

// ArtifactFunc adapts a function to OutputArtifact
type ArtifactFunc func(ctx context.Context) (*dataset.Table, error)

func (f ArtifactFunc) Read(ctx context.Context) (*dataset.Table, error) {
	return f(ctx)
}
