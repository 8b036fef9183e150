package container

import (
	"fmt"

	"gofacets/adapters/display"
	"gofacets/adapters/featurestats"
	"gofacets/adapters/fsio"
	"gofacets/app"
	"gofacets/internal"
	"gofacets/internal/config"
	"gofacets/ports"

	"github.com/spf13/afero"
)

// Container holds the wired renderer and its collaborators
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Files     *fsio.Store
	Generator *featurestats.Generator

	// Display sinks
	Notebook ports.DisplaySink
	Browser  ports.DisplaySink

	Renderer *app.StatisticsRenderer
}

type options struct {
	fs       afero.Fs
	opener   display.URLOpener
	notebook ports.DisplaySink
	serve    bool
}

// Option customizes how New wires the container
type Option func(*options)

// WithFs replaces the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithOpener replaces the system browser launcher
func WithOpener(open display.URLOpener) Option {
	return func(o *options) { o.opener = open }
}

// WithNotebook replaces kernel detection with a fixed sink
func WithNotebook(sink ports.DisplaySink) Option {
	return func(o *options) { o.notebook = sink }
}

// WithServe makes non-interactive display serve the page over HTTP instead of writing a file
func WithServe(serve bool) Option {
	return func(o *options) { o.serve = serve }
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := internal.NewLogger(internal.ParseLevel(cfg.Logging.Level))
	c := &Container{
		Config: cfg,
		Logger: logger,
		Files:  fsio.NewStore(o.fs),
	}

	genOpts := featurestats.DefaultOptions()
	genOpts.HistogramBuckets = cfg.Stats.HistogramBuckets
	genOpts.MaxCategoricalLevels = cfg.Stats.MaxCategoricalLevels
	c.Generator = featurestats.NewGenerator(genOpts, logger)

	c.Notebook = o.notebook
	if c.Notebook == nil {
		c.Notebook = display.DetectNotebook()
	}
	if o.serve {
		c.Browser = display.NewServerSink(cfg.Server.Addr, o.opener, logger)
	} else {
		c.Browser = display.NewBrowserSink(c.Files, o.opener, cfg.Render.TempDir, logger)
	}

	rendererOpts := []app.RendererOption{app.WithLogger(logger)}
	if cfg.Render.TemplatePath != "" {
		rendererOpts = append(rendererOpts, app.WithTemplatePath(cfg.Render.TemplatePath))
	}
	c.Renderer = app.NewStatisticsRenderer(c.Generator, c.Files, c.Notebook, c.Browser, rendererOpts...)

	logger.Debug("Container initialized (serve=%t, temp_dir=%q)", o.serve, cfg.Render.TempDir)
	return c, nil
}
