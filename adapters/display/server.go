package display

import (
	"context"
	"net"
	"net/http"
	"time"

	"gofacets/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
)

const shutdownTimeout = 5 * time.Second

// ServerSink serves the document over HTTP on a local address and opens the
// browser at it
type ServerSink struct {
	addr   string
	open   URLOpener
	logger *internal.Logger
}

// NewServerSink creates a server sink. A nil opener uses the system default browser.
func NewServerSink(addr string, open URLOpener, logger *internal.Logger) *ServerSink {
	if open == nil {
		open = browser.OpenURL
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ServerSink{addr: addr, open: open, logger: logger}
}

// Handler returns the router serving document at /
func Handler(document string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(document))
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Show implements ports.DisplaySink. It blocks until ctx is cancelled.
// Launcher failures are logged, not returned.
func (s *ServerSink) Show(ctx context.Context, document string) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: Handler(document), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	target := "http://" + ln.Addr().String() + "/"
	s.logger.Info("[ServerSink] serving statistics at %s", target)
	if err := s.open(target); err != nil {
		s.logger.Warn("[ServerSink] browser launch failed for %s: %v", target, err)
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("[ServerSink] stopped serving %s", target)
	return nil
}
