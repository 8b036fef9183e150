package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gofacets/adapters/excel"
	"gofacets/domain/core"
	"gofacets/domain/dataset"
	"gofacets/domain/step"
	"gofacets/internal"
	"gofacets/internal/errors"

	"github.com/spf13/afero"
)

// datasetArg is one NAME=PATH command-line argument
type datasetArg struct {
	Name string
	Path string
}

// parseDatasetArgs accepts NAME=PATH or a bare PATH, which is named after the file
func parseDatasetArgs(args []string) ([]datasetArg, error) {
	parsed := make([]datasetArg, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok {
			path = arg
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		name = strings.TrimSpace(name)
		path = strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid dataset argument %q (use NAME=PATH)", arg))
		}
		parsed = append(parsed, datasetArg{Name: name, Path: path})
	}
	return parsed, nil
}

// stepFromArgs binds each argument to a file-backed artifact of an ad hoc step.
// Read failures name the output they came from.
func stepFromArgs(fs afero.Fs, args []datasetArg, logger *internal.Logger) (*step.View, error) {
	view := step.NewView(core.NewStepID(), "cli")
	for _, arg := range args {
		config := excel.DefaultReaderConfig()
		config.FilePath = arg.Path
		reader := excel.NewDataReader(fs, config, logger)
		name := arg.Name
		artifact := step.ArtifactFunc(func(ctx context.Context) (*dataset.Table, error) {
			table, err := reader.Read(ctx)
			if err != nil {
				return nil, errors.Wrapf(err, "output %s", name)
			}
			return table, nil
		})
		if err := view.AddOutput(arg.Name, artifact); err != nil {
			return nil, err
		}
	}
	return view, nil
}
