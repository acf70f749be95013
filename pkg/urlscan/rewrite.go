package urlscan

import "strings"

// Rewrite replaces every URL occurrence in original that has an entry in
// urlToShort with the mapped value. Occurrences are replaced by their full
// scanned span, so a URL that is a prefix of another never touches the longer one.
func Rewrite(original string, urlToShort map[string]string) string {
	matches := Scan(original)
	if len(matches) == 0 || len(urlToShort) == 0 {
		return original
	}

	var sb strings.Builder
	sb.Grow(len(original))

	last := 0
	for _, m := range matches {
		short, ok := urlToShort[m.URL]
		if !ok {
			continue
		}

		sb.WriteString(original[last:m.Start])
		sb.WriteString(short)
		last = m.End
	}

	sb.WriteString(original[last:])

	return sb.String()
}
