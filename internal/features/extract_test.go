package features

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractReturnsAllNames(t *testing.T) {
	urls := []string{
		"",
		"https://www.google.com",
		"http://suspicious-bank-login.phishing-site.com/secure/update",
		"not a url at all",
		"http://[::1",
	}
	for _, u := range urls {
		f := Extract(u)
		if len(f) != len(Names()) {
			t.Fatalf("Extract(%q) returned %d features, want %d", u, len(f), len(Names()))
		}
		for _, name := range Names() {
			if _, ok := f[name]; !ok {
				t.Errorf("Extract(%q) missing %s", u, name)
			}
		}
	}
}

func TestExtractCounts(t *testing.T) {
	u := "http://a-b_c.example.com/x/y?q=1&r=2@host"
	f := Extract(u)

	want := map[string]int{
		URLLength:        len(u),
		NumDots:          strings.Count(u, "."),
		NumHyphens:       1,
		NumUnderscores:   1,
		NumSlashes:       4,
		NumQuestionmarks: 1,
		NumEquals:        2,
		NumAts:           1,
	}
	for name, v := range want {
		if f[name] != v {
			t.Errorf("%s = %d, want %d", name, f[name], v)
		}
	}
}

func TestExtractURLLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"http://example.com", 18},
		{"http://bücher.de", 16},
	}
	for _, tt := range tests {
		if got := Extract(tt.in)[URLLength]; got != tt.want {
			t.Errorf("url_length(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractSubstringFlags(t *testing.T) {
	tests := []struct {
		in        string
		wantHTTPS int
		wantWWW   int
	}{
		{"HTTPS://EXAMPLE.com", 1, 0},
		{"ftp://example.com", 0, 0},
		{"http://www.example.com", 0, 1},
		{"http://example.com", 0, 0},
		{"http://example.com/redirect?to=https-login", 1, 0},
		{"http://example.com/WWW.mirror", 0, 1},
	}
	for _, tt := range tests {
		f := Extract(tt.in)
		if f[HasHTTPS] != tt.wantHTTPS {
			t.Errorf("has_https(%q) = %d, want %d", tt.in, f[HasHTTPS], tt.wantHTTPS)
		}
		if f[HasWWW] != tt.wantWWW {
			t.Errorf("has_www(%q) = %d, want %d", tt.in, f[HasWWW], tt.wantWWW)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in            string
		wantLength    int
		wantSubdomain int
	}{
		{"http://sub.example.com/path", 15, 1},
		{"http://localhost", 9, -1},
		{"http://user:pw@example.com:8080/", 24, 0},
		{"example.com/no/scheme", 0, -1},
		{"", 0, -1},
		// the network location is taken raw, never decoded or validated
		{"http://exa mple.com", 12, 0},
		{"http://example.com/%zz", 11, 0},
		{"http://example.com:abc/x", 15, 0},
		{"http://ex%41mple.com/", 13, 0},
		{"http://user:p@ss@host.com/", 18, 0},
		{"HTTP://Example.COM?q=1#frag", 11, 0},
		{"//cdn.example.com/lib.js", 15, 1},
		{"localhost:8080", 0, -1},
		{"  \thttp://exam\nple.com", 11, 0},
		{"http://[::1]:8080/", 10, -1},
		{"http://[v1.fe80::a+en1]/", 16, 0},
	}
	for _, tt := range tests {
		f := Extract(tt.in)
		if f[DomainLength] != tt.wantLength {
			t.Errorf("domain_length(%q) = %d, want %d", tt.in, f[DomainLength], tt.wantLength)
		}
		if f[SubdomainCount] != tt.wantSubdomain {
			t.Errorf("subdomain_count(%q) = %d, want %d", tt.in, f[SubdomainCount], tt.wantSubdomain)
		}
	}
}

func TestExtractParseFailure(t *testing.T) {
	for _, in := range []string{
		"http://[::1",
		"http://::1]/",
		"http://[127.0.0.1]/",
		"http://[not-an-ip]:80",
		"http://[v.x]/",
	} {
		if _, err := NetworkLocation(in); !errors.Is(err, ErrInvalidNetloc) {
			t.Fatalf("NetworkLocation(%q) err = %v, want ErrInvalidNetloc", in, err)
		}
		f := Extract(in)
		if f[DomainLength] != 0 || f[SubdomainCount] != 0 {
			t.Errorf("Extract(%q) domain features = %d/%d, want 0/0", in, f[DomainLength], f[SubdomainCount])
		}
	}
}

func TestVectorOrder(t *testing.T) {
	f := Features{}
	for i, name := range Names() {
		f[name] = i
	}
	// iterate many times so a map-order dependency would show up
	for n := 0; n < 50; n++ {
		vec, err := Vector(f, Names())
		if err != nil {
			t.Fatal(err)
		}
		want := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
		if diff := cmp.Diff(want, vec); diff != "" {
			t.Fatalf("vector mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestVectorMissingFeature(t *testing.T) {
	f := Extract("http://example.com")
	delete(f, HasWWW)
	if _, err := Vector(f, Names()); err == nil {
		t.Fatal("expected error for missing feature")
	}
}

func TestNamesIsCopy(t *testing.T) {
	n := Names()
	n[0] = "tampered"
	if Names()[0] != URLLength {
		t.Fatal("Names shares its backing array")
	}
}
