package step

import (
	"context"
	"errors"
	"testing"

	"gofacets/domain/core"
	"gofacets/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_OutputsKeepDeclarationOrder(t *testing.T) {
	v := NewView(core.StepID("s1"), "split")
	for _, name := range []string{"train", "eval", "test"} {
		require.NoError(t, v.AddOutput(name, TableArtifact{}))
	}

	var names []string
	for _, out := range v.Outputs() {
		names = append(names, out.Name)
	}
	assert.Equal(t, []string{"train", "eval", "test"}, names)
	assert.Equal(t, core.StepID("s1"), v.ID())
	assert.Equal(t, "split", v.Name())
}

func TestView_AddOutputRejectsBadNames(t *testing.T) {
	v := NewView(core.NewStepID(), "s")
	assert.Error(t, v.AddOutput("", TableArtifact{}))
	require.NoError(t, v.AddOutput("a", TableArtifact{}))
	assert.Error(t, v.AddOutput("a", TableArtifact{}))
	assert.Len(t, v.Outputs(), 1)
}

func TestView_OutputsIsACopy(t *testing.T) {
	v := NewView(core.NewStepID(), "s")
	require.NoError(t, v.AddOutput("a", TableArtifact{}))

	outs := v.Outputs()
	outs[0].Name = "changed"
	assert.Equal(t, "a", v.Outputs()[0].Name)
}

func TestTableArtifact_ReturnsItsTable(t *testing.T) {
	table := dataset.NewTable(dataset.Column{Name: "x", Values: []any{1}})
	v := NewView(core.NewStepID(), "s")
	require.NoError(t, v.AddOutput("a", TableArtifact{Table: table}))

	got, err := v.Outputs()[0].Artifact.Read(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, got)
}

func TestArtifactFunc(t *testing.T) {
	want := errors.New("nope")
	_, err := ArtifactFunc(func(ctx context.Context) (*dataset.Table, error) {
		return nil, want
	}).Read(context.Background())
	assert.Same(t, want, err)
}
