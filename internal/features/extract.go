// internal/features/extract.go
package features

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"unicode/utf8"
)

// Feature identifiers. The order of Names is the order the model was trained
// against and must never change independently of the model artifact.
const (
	URLLength        = "url_length"
	NumDots          = "num_dots"
	NumHyphens       = "num_hyphens"
	NumUnderscores   = "num_underscores"
	NumSlashes       = "num_slashes"
	NumQuestionmarks = "num_questionmarks"
	NumEquals        = "num_equals"
	NumAts           = "num_ats"
	HasHTTPS         = "has_https"
	HasWWW           = "has_www"
	DomainLength     = "domain_length"
	SubdomainCount   = "subdomain_count"
)

// Names returns the canonical feature order. A fresh slice is returned on
// every call so callers cannot reorder the shared list.
func Names() []string {
	return []string{
		URLLength, NumDots, NumHyphens, NumUnderscores,
		NumSlashes, NumQuestionmarks, NumEquals, NumAts,
		HasHTTPS, HasWWW, DomainLength, SubdomainCount,
	}
}

// Features maps a feature identifier to its value.
type Features map[string]int

// literal characters counted verbatim in the raw URL
var charCounts = []struct {
	name string
	char string
}{
	{NumDots, "."},
	{NumHyphens, "-"},
	{NumUnderscores, "_"},
	{NumSlashes, "/"},
	{NumQuestionmarks, "?"},
	{NumEquals, "="},
	{NumAts, "@"},
}

// Extract computes the lexical features of rawURL. It never fails: when the
// URL cannot be parsed the two domain-derived features fall back to 0.
func Extract(rawURL string) Features {
	f := make(Features, 12)

	f[URLLength] = utf8.RuneCountInString(rawURL)
	for _, c := range charCounts {
		f[c.name] = strings.Count(rawURL, c.char)
	}

	// substring anywhere, not only the scheme or the host prefix
	lower := strings.ToLower(rawURL)
	f[HasHTTPS] = boolToInt(strings.Contains(lower, "https"))
	f[HasWWW] = boolToInt(strings.Contains(lower, "www."))

	if netloc, err := NetworkLocation(rawURL); err == nil {
		f[DomainLength] = utf8.RuneCountInString(netloc)
		f[SubdomainCount] = strings.Count(netloc, ".") - 1
	} else {
		f[DomainLength] = 0
		f[SubdomainCount] = 0
	}

	return f
}

// ErrInvalidNetloc is returned for a network location with unbalanced or
// malformed IPv6 brackets.
var ErrInvalidNetloc = errors.New("invalid IPv6 network location")

// NetworkLocation returns the raw [userinfo@]host[:port] part of rawURL: the
// text after "scheme:" and "//" up to the first '/', '?' or '#'. Nothing in it
// is decoded or validated except the IPv6 brackets, so the length matches
// what the model was trained on. URLs without an authority (no "//") yield an
// empty string.
func NetworkLocation(rawURL string) (string, error) {
	s := strings.TrimLeftFunc(rawURL, func(r rune) bool { return r <= ' ' })
	s = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(s)

	if i := strings.IndexByte(s, ':'); i > 0 && isScheme(s[:i]) {
		s = s[i+1:]
	}
	if !strings.HasPrefix(s, "//") {
		return "", nil
	}
	s = s[2:]
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	open, closed := strings.Contains(s, "["), strings.Contains(s, "]")
	if open != closed {
		return "", fmt.Errorf("%w: %q", ErrInvalidNetloc, s)
	}
	if open {
		_, rest, _ := strings.Cut(s, "[")
		host, _, _ := strings.Cut(rest, "]")
		if !validBracketHost(host) {
			return "", fmt.Errorf("%w: %q", ErrInvalidNetloc, s)
		}
	}
	return s, nil
}

// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// validBracketHost accepts an IPv6 literal (zone allowed) or an IPvFuture
// literal ("v1.fe80::a+en1").
func validBracketHost(host string) bool {
	if strings.HasPrefix(host, "v") {
		ver, addr, ok := strings.Cut(host[1:], ".")
		return ok && ver != "" && addr != "" && strings.Trim(ver, "0123456789abcdefABCDEF") == ""
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is6()
}

// Vector assembles f into a numeric vector ordered by names. Map iteration
// order never leaks into the result.
func Vector(f Features, names []string) ([]float64, error) {
	vec := make([]float64, len(names))
	for i, name := range names {
		v, ok := f[name]
		if !ok {
			return nil, fmt.Errorf("missing feature %q", name)
		}
		vec[i] = float64(v)
	}
	return vec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
