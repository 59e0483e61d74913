package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownGracePeriod = 5 * time.Second

// Worker runs the HTTP listener under the supervisor and shuts it down
// gracefully when the supervised context is canceled.
type Worker struct {
	log     *slog.Logger
	addr    string
	handler http.Handler
}

func NewWorker(log *slog.Logger, addr string, handler http.Handler) *Worker {
	return &Worker{log: log, addr: addr, handler: handler}
}

func (w *Worker) Run(ctx context.Context) error {
	srv := &http.Server{Addr: w.addr, Handler: w.handler}

	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting HTTP server", "address", w.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
