package threat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://login.paypal.com.secure-verify.xyz/update", "secure-verify.xyz"},
		{"login.bank.co.uk", "bank.co.uk"},
		{"user@Evil.Example.com:8080/path?x=1", "example.com"},
		{"http://192.0.2.1/wp-admin", "192.0.2.1"},
		{"192.0.2.1", "192.0.2.1"},
		{"localhost", "localhost"},
		{"example.com.", "example.com"},
		{"", ""},
		{"http://[::1", ""},
		{"phish_id,url", ""},
		{`"quoted.example.com"`, ""},
	}
	for _, tt := range tests {
		if got := RegistrableDomain(tt.in); got != tt.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFeed(t *testing.T) {
	feed := strings.Join([]string{
		"# openphish export",
		"",
		"http://secure-login.badbank.top/verify",
		"http://paypal-secure.evil.com/login?ids=1,2",
		"phish_id,url,submission_time",
		"1,phish-host.example.net",
		`"2","http://another.bad.co.uk/x?a=1,2",2024-05-01`,
		"mirror.shady.ru/dl?f=a,b",
	}, "\n")

	got, err := parseFeed(context.Background(), strings.NewReader(feed), "test")
	if err != nil {
		t.Fatal(err)
	}
	var domains []string
	for _, ind := range got {
		domains = append(domains, ind.Domain)
		if ind.Source != "test" {
			t.Errorf("source = %q", ind.Source)
		}
	}
	want := []string{"badbank.top", "evil.com", "example.net", "bad.co.uk", "shady.ru"}
	if diff := cmp.Diff(want, domains); diff != "" {
		t.Errorf("domains (-want +got):\n%s", diff)
	}
}

func TestListedURLWithCommaInQuery(t *testing.T) {
	ind, err := parseFeed(context.Background(), strings.NewReader("http://paypal-secure.evil.com/login?ids=1,2\n"), "openphish")
	if err != nil {
		t.Fatal(err)
	}
	if len(ind) != 1 || ind[0].Indicator != "http://paypal-secure.evil.com/login?ids=1,2" {
		t.Fatalf("indicators = %+v", ind)
	}

	store := NewBloomStore(100, 0.001, quietLogger())
	if err := store.SaveIndicators(context.Background(), ind); err != nil {
		t.Fatal(err)
	}
	if !store.Listed("http://paypal-secure.evil.com/") {
		t.Error("evil.com should be listed")
	}
	if store.Listed("http://2/") {
		t.Error("query fragment stored as a domain")
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type brokenFetcher struct{}

func (brokenFetcher) Name() string { return "broken" }
func (brokenFetcher) Fetch(context.Context) ([]ThreatIndicator, error) {
	return nil, errors.New("feed offline")
}

func TestETLControllerRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	if err := os.WriteFile(path, []byte("http://paypal-verify.example.org/login\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "# remote feed")
		fmt.Fprintln(w, "https://account-update.phish.test.co/")
	}))
	defer srv.Close()

	store := NewBloomStore(1000, 0.001, quietLogger())
	c := NewETLController(store, quietLogger())
	c.Register(NewFileFetcher(path))
	c.Register(NewHTTPFetcher(srv.URL))
	c.Register(brokenFetcher{})

	err := c.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "feed offline") {
		t.Fatalf("Run error = %v, want broken fetcher failure", err)
	}

	if store.Count() != 2 {
		t.Errorf("Count = %d, want 2", store.Count())
	}
	for _, u := range []string{
		"http://www.example.org/anything",
		"https://other.test.co/login",
	} {
		if !store.Listed(u) {
			t.Errorf("Listed(%q) = false", u)
		}
	}
	if store.Listed("https://www.google.com") {
		t.Error("google.com should not be listed")
	}
}

func TestHTTPFetcherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFileFetcherMissing(t *testing.T) {
	_, err := NewFileFetcher(filepath.Join(t.TempDir(), "nope")).Fetch(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
