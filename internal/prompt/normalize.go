package prompt

import (
	"strings"
	"unicode/utf8"
)

// Stats describes a rendered prompt for monitoring.
type Stats struct {
	Characters      int `json:"characters"`
	EstimatedTokens int `json:"estimated_tokens"`
	WordCount       int `json:"word_count"`
	LineCount       int `json:"line_count"`
}

// Normalize strips trailing whitespace, collapses runs of blank lines,
// trims the text and makes sure it ends with terminal punctuation.
func Normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	result := strings.TrimSpace(strings.Join(out, "\n"))
	if result == "" {
		return result
	}

	switch result[len(result)-1] {
	case '.', '!', '?', ':':
		return result
	default:
		return result + "."
	}
}

// Measure computes Stats. Tokens are estimated at four characters each.
func Measure(text string) Stats {
	chars := utf8.RuneCountInString(text)
	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	return Stats{
		Characters:      chars,
		EstimatedTokens: chars / 4,
		WordCount:       len(strings.Fields(text)),
		LineCount:       lines,
	}
}
