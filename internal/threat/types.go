package threat

import (
	"context"
	"time"
)

// ThreatIndicator is one entry of a phishing feed.
type ThreatIndicator struct {
	Indicator string
	Domain    string
	Source    string
	FirstSeen time.Time
}

// ThreatFetcher fetches threat indicators from a source.
type ThreatFetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]ThreatIndicator, error)
}

// ThreatStore persists indicators.
type ThreatStore interface {
	SaveIndicators(ctx context.Context, indicators []ThreatIndicator) error
}
