package display

import (
	"context"

	"gofacets/internal/errors"

	"github.com/janpfeifer/gonb/gonbui"
)

// ErrNotInNotebook is returned when inline display is requested from a
// process that is not running inside a notebook kernel
var ErrNotInNotebook = errors.EnvironmentError("interactive display requested outside a notebook kernel")

// HTMLDisplayer renders HTML inline in the current notebook session
type HTMLDisplayer interface {
	DisplayHTML(html string)
}

// NotebookSink renders documents inline through a kernel displayer.
// A sink without a displayer is outside a kernel and always fails.
type NotebookSink struct {
	displayer HTMLDisplayer
}

// NewNotebookSink creates a sink around displayer, which may be nil
func NewNotebookSink(displayer HTMLDisplayer) *NotebookSink {
	return &NotebookSink{displayer: displayer}
}

// DetectNotebook returns a sink bound to the GoNB kernel when this process runs under one
func DetectNotebook() *NotebookSink {
	if gonbui.IsNotebook {
		return NewNotebookSink(GonbDisplayer{})
	}
	return NewNotebookSink(nil)
}

// InKernel reports whether the sink can display
func (s *NotebookSink) InKernel() bool {
	return s.displayer != nil
}

// Show implements ports.DisplaySink. Outside a kernel it returns ErrNotInNotebook.
func (s *NotebookSink) Show(ctx context.Context, document string) error {
	if s.displayer == nil {
		return ErrNotInNotebook
	}
	s.displayer.DisplayHTML(document)
	return nil
}

// GonbDisplayer sends HTML to the GoNB Jupyter kernel
type GonbDisplayer struct{}

func (GonbDisplayer) DisplayHTML(html string) {
	gonbui.DisplayHTML(html)
}
