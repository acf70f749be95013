// Package urlscan finds absolute http(s) URLs in arbitrary text and rewrites them.
//
// The scan is flat: HTML markup is not parsed, so URLs inside attributes,
// scripts, comments and prose are all found the same way. A URL starts at a
// case-insensitive "http://" or "https://" and runs until the first character
// outside the body class (see isBodyRune) or the end of input.
package urlscan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a URL occurrence in the scanned text. Text[Start:End] == URL.
type Match struct {
	URL   string
	Start int
	End   int
}

var schemes = []string{"https://", "http://"}

// bodyPunct holds the non-alphanumeric characters allowed after the scheme.
const bodyPunct = "-._~:/?#@!$&*+,;=%"

// trailingPunct is trimmed from the end of a match.
const trailingPunct = ".,;:!?"

// Scan returns every URL occurrence in text, left to right. Matches never overlap.
func Scan(text string) []Match {
	var matches []Match

	for i := 0; i < len(text); {
		n := schemeLen(text[i:])
		if n == 0 {
			i++
			continue
		}

		end := i + n
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isBodyRune(r) {
				break
			}
			end += size
		}

		for end > i+n && strings.IndexByte(trailingPunct, text[end-1]) >= 0 {
			end--
		}

		if end == i+n {
			i += n
			continue
		}

		matches = append(matches, Match{URL: text[i:end], Start: i, End: end})
		i = end
	}

	return matches
}

// Extract returns the distinct URLs found in text in order of first appearance.
func Extract(text string) []string {
	matches := Scan(text)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))

	for _, m := range matches {
		if _, ok := seen[m.URL]; ok {
			continue
		}
		seen[m.URL] = struct{}{}
		urls = append(urls, m.URL)
	}

	return urls
}

// schemeLen returns the length of the scheme prefix of s, or 0.
func schemeLen(s string) int {
	if len(s) == 0 || (s[0] != 'h' && s[0] != 'H') {
		return 0
	}

	for _, scheme := range schemes {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return len(scheme)
		}
	}

	return 0
}

// isBodyRune reports whether r may appear in a url after the scheme. Quotes,
// parentheses and brackets end a url so that markup such as url(...) and
// bracketed prose is not swallowed. A url that itself contains one of them,
// like https://example.com/wiki/Foo_(bar), is cut at that character and the
// rest is left in the text as is.
func isBodyRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	if r < utf8.RuneSelf {
		c := byte(r)
		return 'a' <= c && c <= 'z' ||
			'A' <= c && c <= 'Z' ||
			'0' <= c && c <= '9' ||
			strings.IndexByte(bodyPunct, c) >= 0
	}

	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
