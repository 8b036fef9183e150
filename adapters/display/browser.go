package display

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"gofacets/internal"
	"gofacets/ports"

	"github.com/pkg/browser"
)

const documentSuffix = ".html"

var (
	_ ports.DisplaySink = (*BrowserSink)(nil)
	_ ports.DisplaySink = (*NotebookSink)(nil)
	_ ports.DisplaySink = (*ServerSink)(nil)
)

// URLOpener asks the operating system to open a URL
type URLOpener func(url string) error

// BrowserSink writes each document to a fresh temporary file and opens it in
// the default browser. Files are left on disk.
type BrowserSink struct {
	files   ports.FileStore
	open    URLOpener
	tempDir string
	logger  *internal.Logger
}

// NewBrowserSink creates a browser sink. A nil opener uses the system default browser.
func NewBrowserSink(files ports.FileStore, open URLOpener, tempDir string, logger *internal.Logger) *BrowserSink {
	if open == nil {
		open = browser.OpenURL
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BrowserSink{files: files, open: open, tempDir: tempDir, logger: logger}
}

// Show implements ports.DisplaySink. Launcher failures are logged, not returned.
func (s *BrowserSink) Show(ctx context.Context, document string) error {
	path, err := s.files.CreateTemp(s.tempDir, documentSuffix)
	if err != nil {
		return err
	}
	if err := s.files.WriteFileAsString(path, document); err != nil {
		return err
	}

	target := FileURL(path)
	s.logger.Info("[BrowserSink] opening %s", target)
	if err := s.open(target); err != nil {
		s.logger.WithField("url", target).Warnf("[BrowserSink] browser launch failed: %v", err)
	}
	return nil
}

// FileURL builds a file:// URL for an absolute path
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
