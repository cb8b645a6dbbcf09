package threat

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// FileFetcher reads a feed from a local file.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string { return "file:" + f.Path }

func (f *FileFetcher) Fetch(ctx context.Context) ([]ThreatIndicator, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer file.Close()
	return parseFeed(ctx, file, f.Name())
}

// HTTPFetcher downloads a feed over HTTP(S).
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func NewHTTPFetcher(feedURL string) *HTTPFetcher {
	return &HTTPFetcher{URL: feedURL, Client: &http.Client{Timeout: 30 * time.Second}}
}

func (h *HTTPFetcher) Name() string { return "http:" + h.URL }

func (h *HTTPFetcher) Fetch(ctx context.Context) ([]ThreatIndicator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download feed: unexpected status %s", resp.Status)
	}
	return parseFeed(ctx, resp.Body, h.Name())
}

// parseFeed reads one URL or host per line. Blank lines and lines starting
// with '#' are skipped. A line whose first comma-separated field is a number
// ("rank,host" or "id,url,...") is CSV and its second column is used; any
// other line is taken whole, so commas inside a URL's query stay put.
func parseFeed(ctx context.Context, r io.Reader, source string) ([]ThreatIndicator, error) {
	now := time.Now()
	var out []ThreatIndicator

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if col, ok := csvColumn(line); ok {
			line = col
		}

		domain := RegistrableDomain(line)
		if domain == "" {
			continue
		}
		out = append(out, ThreatIndicator{
			Indicator: line,
			Domain:    domain,
			Source:    source,
			FirstSeen: now,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return out, nil
}

// csvColumn returns the second column of a numbered CSV line.
func csvColumn(line string) (string, bool) {
	first, _, found := strings.Cut(line, ",")
	if !found || !isNumber(unquote(first)) {
		return "", false
	}
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rec, err := r.Read()
	if err != nil || len(rec) < 2 {
		return "", false
	}
	return unquote(rec[1]), true
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegistrableDomain reduces a URL or host to its eTLD+1 ("login.bank.co.uk"
// becomes "bank.co.uk"). IP addresses and names without a registrable part
// are returned as the bare lower-cased host. Text that cannot be a host name
// (CSV headers, quoted fields) yields "".
func RegistrableDomain(s string) string {
	host := s
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		host = u.Hostname()
	} else {
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
		if i := strings.LastIndex(host, "@"); i >= 0 {
			host = host[i+1:]
		}
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}

	host = strings.Trim(strings.ToLower(host), ".")
	if host == "" || strings.ContainsAny(host, ", \t\"'") {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
