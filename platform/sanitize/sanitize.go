// Package sanitize provides text sanitization utilities to prevent XSS attacks.
// It is a denylist scrubber, not an HTML parser: known attack substrings are
// removed, but the output is still not safe to render unescaped.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// escapedAngleRegex matches unicode/hex-escaped and entity-encoded angle brackets.
	escapedAngleRegex = regexp.MustCompile(`(?i)(\\u003c|\\u003e|\\x3c|\\x3e|&#x0*3c;?|&#x0*3e;?|&#0*60;?|&#0*62;?)`)
	// htmlCommentRegex matches HTML comments, including an unterminated trailing one.
	htmlCommentRegex = regexp.MustCompile(`(?s)<!--.*?(-->|$)`)
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// eventHandlerRegex matches attribute-style inline handlers (onclick=, onerror( ...).
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon\w+\s*[=(]`)
	// schemeRegex matches dangerous URL scheme prefixes. The word boundary
	// keeps words that merely end in a scheme name intact ("profile:").
	schemeRegex = regexp.MustCompile(`(?i)\b((javascript|vbscript|file)\s*:|data\s*:\s*text/html)`)
	// whitespaceRegex matches runs of whitespace.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	suspiciousRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)<iframe`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)\beval\s*\(`),
		regexp.MustCompile(`(?i)document\.`),
		regexp.MustCompile(`(?i)window\.`),
		regexp.MustCompile(`(?i)data:\s*text/html`),
	}
)

// Sanitize strips HTML tags, script vectors, dangerous URL schemes and encoded
// payloads from free-text input, then normalizes whitespace. The scrub runs to
// a fixpoint so that Sanitize(Sanitize(x)) == Sanitize(x): removing one layer
// of a nested payload may expose another (e.g. multiply percent-encoded
// input), and a single pass would leave it behind. Every step of scrubOnce is
// non-growing and only whitespace normalization can change the string without
// shrinking it, so the loop reaches the fixpoint within len(s)+1 passes.
func Sanitize(s string) string {
	out := s
	for i := 0; i <= len(s); i++ {
		next := scrubOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func scrubOnce(s string) string {
	// Best-effort percent-decoding so encoded payloads face the same denylist.
	// Malformed escapes keep the original text rather than failing the request.
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}

	s = strings.ReplaceAll(s, "\x00", "")
	s = escapedAngleRegex.ReplaceAllString(s, "")
	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	s = schemeRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LooksSuspicious reports whether raw input carries known attack signatures.
// It is called on the ORIGINAL text, before sanitization, and feeds the
// security log only. It never blocks a request.
func LooksSuspicious(s string) bool {
	for _, re := range suspiciousRegexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Clamp truncates s to at most max runes. Input fields are clamped before
// sanitization so length limits apply to what the client actually sent.
func Clamp(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
