package threat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ETLController coordinates fetching and storing phishing indicators.
type ETLController struct {
	fetchers []ThreatFetcher
	store    ThreatStore
	logger   *slog.Logger
}

// NewETLController creates a new controller. A nil logger means
// slog.Default().
func NewETLController(store ThreatStore, logger *slog.Logger) *ETLController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ETLController{store: store, logger: logger}
}

// Register adds a fetcher to the controller.
func (c *ETLController) Register(f ThreatFetcher) {
	c.fetchers = append(c.fetchers, f)
}

// Run executes all fetchers concurrently. A failing source does not stop
// the others; all failures are joined into the returned error.
func (c *ETLController) Run(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, f := range c.fetchers {
		wg.Add(1)
		go func(fetcher ThreatFetcher) {
			defer wg.Done()
			indicators, err := fetcher.Fetch(ctx)
			if err == nil {
				err = c.store.SaveIndicators(ctx, indicators)
			}
			if err != nil {
				c.logger.Error("feed load failed", "source", fetcher.Name(), "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", fetcher.Name(), err))
				mu.Unlock()
			}
		}(f)
	}
	wg.Wait()
	return errors.Join(errs...)
}
