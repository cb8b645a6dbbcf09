package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// component is one long-running listener. serve blocks until the listener
// stops; stop asks it to finish in-flight work.
type component struct {
	name  string
	serve func() error
	stop  func(ctx context.Context)
}

func serveHTTP(name string, srv *http.Server) component {
	return component{
		name: name,
		serve: func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		stop: func(ctx context.Context) { _ = srv.Shutdown(ctx) },
	}
}

// runAll serves every component until ctx is canceled or one of them fails,
// then stops all of them.
func runAll(ctx context.Context, logger *slog.Logger, comps ...component) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, c := range comps {
		c := c
		g.Go(func() error {
			logger.Info("listening", "component", c.name)
			if err := c.serve(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, c := range comps {
			c.stop(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}
