package app

import (
	"context"
	_ "embed"
	"encoding/base64"
	"strings"

	"gofacets/domain/core"
	"gofacets/domain/dataset"
	"gofacets/domain/step"
	"gofacets/internal"
	"gofacets/ports"
)

//go:embed templates/stats.html
var statsTemplate string

// protoPlaceholder is replaced by the base64 statistics payload
const protoPlaceholder = "protostr"

// Visualizer renders a step's outputs for a user
type Visualizer interface {
	Visualize(ctx context.Context, s step.StepView, interactive bool) error
}

// DocumentRenderer is the part of a renderer VisualizeStep drives
type DocumentRenderer interface {
	GenerateHTML(ctx context.Context, datasets []dataset.Entry) (string, error)
	Display(ctx context.Context, document string, interactive bool) error
}

// CollectDatasets reads every output of s, in the step's order, into named entries
func CollectDatasets(ctx context.Context, s step.StepView) ([]dataset.Entry, error) {
	outputs := s.Outputs()
	datasets := make([]dataset.Entry, 0, len(outputs))
	for _, out := range outputs {
		table, err := out.Artifact.Read(ctx)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset.Entry{Name: out.Name, Table: table})
	}
	return datasets, nil
}

// VisualizeStep runs the shared read, render and display pipeline. Visualizer
// implementations call it with themselves as the renderer.
func VisualizeStep(ctx context.Context, r DocumentRenderer, s step.StepView, interactive bool) error {
	datasets, err := CollectDatasets(ctx, s)
	if err != nil {
		return err
	}
	document, err := r.GenerateHTML(ctx, datasets)
	if err != nil {
		return err
	}
	return r.Display(ctx, document, interactive)
}

// StatisticsRenderer embeds feature statistics in the Facets Overview page.
// Collaborator errors are returned as they are.
type StatisticsRenderer struct {
	generator    ports.StatisticsGenerator
	files        ports.FileStore
	notebook     ports.DisplaySink
	browser      ports.DisplaySink
	templatePath string
	logger       *internal.Logger
}

// RendererOption configures a StatisticsRenderer
type RendererOption func(*StatisticsRenderer)

// WithTemplatePath reads the page template from path instead of the embedded one
func WithTemplatePath(path string) RendererOption {
	return func(r *StatisticsRenderer) {
		r.templatePath = path
	}
}

// WithLogger sets the renderer's logger
func WithLogger(logger *internal.Logger) RendererOption {
	return func(r *StatisticsRenderer) {
		r.logger = logger
	}
}

// NewStatisticsRenderer creates a renderer. notebook handles interactive display, browser the rest.
func NewStatisticsRenderer(generator ports.StatisticsGenerator, files ports.FileStore, notebook, browser ports.DisplaySink, opts ...RendererOption) *StatisticsRenderer {
	r := &StatisticsRenderer{
		generator: generator,
		files:     files,
		notebook:  notebook,
		browser:   browser,
		logger:    internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Visualize implements Visualizer
func (r *StatisticsRenderer) Visualize(ctx context.Context, s step.StepView, interactive bool) error {
	r.logger.Info("[StatisticsRenderer] visualizing step %s (%d outputs, interactive=%t)", s.Name(), len(s.Outputs()), interactive)
	return VisualizeStep(ctx, r, s, interactive)
}

// GenerateHTML returns the page with the serialized statistics spliced in
func (r *StatisticsRenderer) GenerateHTML(ctx context.Context, datasets []dataset.Entry) (string, error) {
	proto, err := r.generator.Generate(ctx, datasets)
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(proto)

	template, err := r.loadTemplate()
	if err != nil {
		return "", err
	}
	// A template without the placeholder renders with no payload.
	if !strings.Contains(template, protoPlaceholder) {
		r.logger.Warn("[StatisticsRenderer] template has no %q placeholder, statistics will not be embedded", protoPlaceholder)
	}

	r.logger.Debug("[StatisticsRenderer] embedded %d byte payload %s for %d datasets", len(proto), core.NewHash(proto).Short(), len(datasets))
	return strings.ReplaceAll(template, protoPlaceholder, encoded), nil
}

// Display sends the document to the notebook when interactive, otherwise to the browser
func (r *StatisticsRenderer) Display(ctx context.Context, document string, interactive bool) error {
	if interactive {
		return r.notebook.Show(ctx, document)
	}
	return r.browser.Show(ctx, document)
}

func (r *StatisticsRenderer) loadTemplate() (string, error) {
	if r.templatePath == "" {
		return statsTemplate, nil
	}
	return r.files.ReadFileAsString(r.templatePath)
}
