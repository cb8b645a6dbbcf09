package threat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/willf/bloom"

	"phishguard/internal/metrics"
)

// BloomStore keeps feed domains in a bloom filter. Listed may report false
// positives at the configured rate but never false negatives.
type BloomStore struct {
	mu      sync.RWMutex
	filter  *bloom.BloomFilter
	sources map[string]int
	logger  *slog.Logger
}

// NewBloomStore sizes the filter for expected domains at the given false
// positive rate.
func NewBloomStore(expected uint, falsePositive float64, logger *slog.Logger) *BloomStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BloomStore{
		filter:  bloom.NewWithEstimates(expected, falsePositive),
		sources: make(map[string]int),
		logger:  logger,
	}
}

func (s *BloomStore) SaveIndicators(ctx context.Context, ind []ThreatIndicator) error {
	s.mu.Lock()
	for _, i := range ind {
		s.filter.Add([]byte(i.Domain))
		s.sources[i.Source]++
	}
	counts := make(map[string]int, len(s.sources))
	for src, n := range s.sources {
		counts[src] = n
	}
	s.mu.Unlock()

	for src, n := range counts {
		metrics.FeedIndicators.WithLabelValues(src).Set(float64(n))
	}
	s.logger.Info("stored indicators", "count", len(ind))
	return nil
}

// Listed reports whether the registrable domain of rawURL is on a feed.
func (s *BloomStore) Listed(rawURL string) bool {
	d := RegistrableDomain(rawURL)
	if d == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Test([]byte(d))
}

// Count returns the number of indicators saved, across all sources.
func (s *BloomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, n := range s.sources {
		total += n
	}
	return total
}
