package steprecord

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gofacets/adapters/excel"
	"gofacets/domain/core"
	"gofacets/domain/step"
	"gofacets/internal"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// Record is the on-disk description of an executed step and its outputs
type Record struct {
	ID      string         `toml:"id"`
	Name    string         `toml:"name"`
	Outputs []OutputRecord `toml:"outputs"`
}

// OutputRecord points one named output at a tabular file
type OutputRecord struct {
	Name  string `toml:"name"`
	URI   string `toml:"uri"`
	Sheet string `toml:"sheet"`
}

// Load reads a step record from fs and binds each output to an artifact on
// the same filesystem. Relative URIs resolve against the record's directory.
func Load(fs afero.Fs, path string, logger *internal.Logger) (*step.View, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrStepNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read step record %s: %w", path, err)
	}
	var record Record
	if _, err := toml.Decode(string(data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode step record %s: %w", path, err)
	}
	return record.View(fs, filepath.Dir(path), logger)
}

// Decode parses a step record from TOML text
func Decode(fs afero.Fs, data string, baseDir string, logger *internal.Logger) (*step.View, error) {
	var record Record
	if _, err := toml.Decode(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode step record: %w", err)
	}
	return record.View(fs, baseDir, logger)
}

// View converts the record into a step view whose artifacts read from fs
func (r Record) View(fs afero.Fs, baseDir string, logger *internal.Logger) (*step.View, error) {
	id, err := core.ParseStepID(r.ID)
	if err != nil {
		id = core.NewStepID()
	}
	name := r.Name
	if name == "" {
		name = id.String()
	}

	view := step.NewView(id, name)
	for i, out := range r.Outputs {
		if out.URI == "" {
			return nil, fmt.Errorf("output %d (%s) of step %s has no uri", i, out.Name, name)
		}
		uri := out.URI
		if !filepath.IsAbs(uri) {
			uri = filepath.Join(baseDir, uri)
		}

		config := excel.DefaultReaderConfig()
		config.FilePath = uri
		config.Sheet = out.Sheet
		if err := view.AddOutput(out.Name, excel.NewDataReader(fs, config, logger)); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Encode writes a record back to TOML
func Encode(record Record) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(record); err != nil {
		return "", err
	}
	return buf.String(), nil
}
