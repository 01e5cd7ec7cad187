// Package query parses free-text movie title input.
package query

import (
	"regexp"
	"strconv"
	"strings"
)

// RawQuery is a single parsed title segment. Year is 0 when the segment
// carried no year hint.
type RawQuery struct {
	Title string
	Year  int
}

// trailingYear matches a parenthesized 4-digit year anchored to the end of
// the segment. Free-standing digits inside a title are deliberately left
// alone so titles like "2012" survive intact.
var trailingYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// SplitTitles splits a comma-separated input string into trimmed,
// non-empty title segments.
func SplitTitles(input string) []string {
	parts := strings.Split(input, ",")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// Parse extracts the title and optional trailing "(YYYY)" year hint from a
// segment. A segment consisting only of a year yields an empty Title and
// must be skipped by the caller.
func Parse(segment string) RawQuery {
	segment = strings.TrimSpace(segment)

	m := trailingYear.FindStringSubmatch(segment)
	if m == nil {
		return RawQuery{Title: segment}
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return RawQuery{Title: segment}
	}

	title := strings.TrimSpace(trailingYear.ReplaceAllString(segment, ""))
	return RawQuery{Title: title, Year: year}
}
