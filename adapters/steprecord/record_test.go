package steprecord

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gofacets/domain/core"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainerRecord = `
id = "trainer-7"
name = "trainer"

[[outputs]]
name = "train"
uri = "data/train.csv"

[[outputs]]
name = "eval"
uri = "data/eval.csv"
`

func TestLoad_ResolvesRelativeOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/runs/trainer/data/train.csv", []byte("x\n1\n2\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/runs/trainer/data/eval.csv", []byte("x\n3\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/runs/trainer/step.toml", []byte(trainerRecord), 0o644))

	view, err := Load(fs, "/runs/trainer/step.toml", nil)
	require.NoError(t, err)
	assert.Equal(t, "trainer-7", view.ID().String())
	assert.Equal(t, "trainer", view.Name())

	outputs := view.Outputs()
	require.Len(t, outputs, 2)
	assert.Equal(t, "train", outputs[0].Name)
	assert.Equal(t, "eval", outputs[1].Name)

	table, err := outputs[1].Artifact.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.NumRows())
}

func TestLoad_OSFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "train.csv"), []byte("x\n1\n2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "eval.csv"), []byte("x\n3\n"), 0o644))
	path := filepath.Join(dir, "step.toml")
	require.NoError(t, os.WriteFile(path, []byte(trainerRecord), 0o644))

	view, err := Load(nil, path, nil)
	require.NoError(t, err)

	table, err := view.Outputs()[0].Artifact.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
}

func TestDecode_GeneratesID(t *testing.T) {
	view, err := Decode(afero.NewMemMapFs(), `name = "empty"`, "/", nil)
	require.NoError(t, err)
	assert.False(t, view.ID() == "")
	assert.Empty(t, view.Outputs())
}

func TestDecode_Rejects(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Decode(fs, `[[outputs]]
name = "a"
`, ".", nil)
	assert.Error(t, err, "missing uri")

	_, err = Decode(fs, `[[outputs]]
name = "a"
uri = "a.csv"
[[outputs]]
name = "a"
uri = "b.csv"
`, ".", nil)
	assert.Error(t, err, "duplicate output")

	_, err = Decode(fs, `id = `, ".", nil)
	assert.Error(t, err, "bad toml")
}

func TestEncode_RoundTripsThroughDecode(t *testing.T) {
	text, err := Encode(Record{ID: "s1", Name: "split", Outputs: []OutputRecord{{Name: "train", URI: "/data/train.csv"}}})
	require.NoError(t, err)

	view, err := Decode(afero.NewMemMapFs(), text, ".", nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", view.ID().String())
	require.Len(t, view.Outputs(), 1)
	assert.Equal(t, "train", view.Outputs()[0].Name)
}

func TestLoad_MissingRecord(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/runs/nope.toml", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStepNotFound)
	assert.True(t, core.IsNotFoundError(err))
}
