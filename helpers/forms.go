// Package helpers holds small parsers for submitted form values.
package helpers

import (
	"strconv"
	"strings"
)

// ParseSongCount reads a song count from a form value. Anything that is not a
// positive integer yields fallback; values above max are capped.
func ParseSongCount(raw string, fallback, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}

// ParseGenres splits a comma-separated genre list into distinct, trimmed,
// lower-case names in the order given. Empty entries are dropped.
func ParseGenres(raw string) []string {
	seen := make(map[string]struct{})
	genres := []string{}
	for _, part := range strings.Split(raw, ",") {
		g := strings.ToLower(strings.TrimSpace(part))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}

// OrDefault returns value unless it is blank.
func OrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
