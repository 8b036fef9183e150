package ports

import "context"

// DisplaySink presents a rendered HTML document somewhere a user can see it
type DisplaySink interface {
	Show(ctx context.Context, document string) error
}

// DisplaySinkFunc adapts a function to DisplaySink
type DisplaySinkFunc func(ctx context.Context, document string) error

func (f DisplaySinkFunc) Show(ctx context.Context, document string) error {
	return f(ctx, document)
}
