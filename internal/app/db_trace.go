package app

import (
	"regexp"
	"strings"
)

// Traced queries are collapsed to one line and capped so span payloads
// stay small.
const maxTracedQueryLength = 512

var queryWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flat := queryWhitespace.ReplaceAllString(query, " ")
	if len(flat) > maxTracedQueryLength {
		return flat[:maxTracedQueryLength] + "..."
	}
	return flat
}
