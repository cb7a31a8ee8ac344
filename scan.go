package lscp

import (
	"strconv"
	"strings"
	"unicode"
)

// tokenizer walks a response body as a sequence of separator-delimited
// spans. The cursor persists between calls and the separator set may change
// per call; the decoders alternate between ":" for key names and "\r\n" for
// value spans over a single cursor.
type tokenizer struct {
	s   string
	pos int
}

// next skips any run of separator characters, returns the following maximal
// non-separator span, and leaves the cursor past the separator run that
// terminated it. It reports false at end of input.
func (t *tokenizer) next(seps string) (string, bool) {
	for t.pos < len(t.s) && strings.IndexByte(seps, t.s[t.pos]) >= 0 {
		t.pos++
	}
	if t.pos >= len(t.s) {
		return "", false
	}
	start := t.pos
	for t.pos < len(t.s) && strings.IndexByte(seps, t.s[t.pos]) < 0 {
		t.pos++
	}
	token := t.s[start:t.pos]
	for t.pos < len(t.s) && strings.IndexByte(seps, t.s[t.pos]) >= 0 {
		t.pos++
	}
	return token, true
}

// ltrim returns s without leading whitespace.
func ltrim(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// unquote strips a matching pair of single or double quotes from around s,
// trimming whitespace just inside the opening quote and before the closing
// one. An unterminated quote yields the remainder as content. Unquoted text
// is returned whitespace-trimmed.
func unquote(s string) string {
	s = ltrim(s)
	if s == "" {
		return s
	}
	quote := s[0]
	if quote != '\'' && quote != '"' {
		return strings.TrimRightFunc(s, unicode.IsSpace)
	}
	s = ltrim(s[1:])
	if i := strings.IndexByte(s, quote); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// splitList splits a separated server value into its elements, honoring
// single or double quotes: a separator inside a quoted element does not
// split it, and scanning resumes after the closing quote. Empty input
// yields nil.
func splitList(s, seps string) []string {
	if s == "" {
		return nil
	}
	var list []string
	rest := s
	for {
		rest = ltrim(rest)
		var elem, tail string
		if len(rest) > 0 && (rest[0] == '\'' || rest[0] == '"') {
			quote := rest[0]
			body := ltrim(rest[1:])
			if i := strings.IndexByte(body, quote); i >= 0 {
				elem = strings.TrimRightFunc(body[:i], unicode.IsSpace)
				tail = body[i+1:]
			} else {
				elem = strings.TrimRightFunc(body, unicode.IsSpace)
			}
		} else {
			if i := strings.IndexAny(rest, seps); i >= 0 {
				elem = strings.TrimRightFunc(rest[:i], unicode.IsSpace)
				tail = rest[i:]
			} else {
				elem = strings.TrimRightFunc(rest, unicode.IsSpace)
			}
		}
		list = append(list, elem)

		i := strings.IndexAny(tail, seps)
		if i < 0 {
			return list
		}
		rest = tail[i+1:]
	}
}

// atoi converts a decimal value span to an int, tolerating surrounding
// whitespace. Malformed input yields 0, matching the leniency of the
// response decoders.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// atof converts a decimal value span to a float32 with the same leniency.
func atof(s string) float32 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(f)
}

// atou converts an unsigned decimal value span, 0 when malformed.
func atou(s string) uint64 {
	n, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return n
}
