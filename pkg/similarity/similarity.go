// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package similarity scores how well a short user-typed query matches a catalog string.

The combined score is the mean of two components:

  - Substring: 1.0 when the normalized query occurs inside the normalized target.
  - Edit: 1 - levenshtein(query, target) / max(len(query), len(target)), computed
    on the raw strings so case and punctuation still count.

Scores are in [0, 1], deterministic and asymmetric (query and target play
different roles in the substring test).
*/
package similarity

import (
	"strings"
	"unicode/utf8"
)

const (
	substringWeight = 0.5
	editWeight      = 0.5
)

// Score returns the combined similarity of query against target.
func Score(query, target string) float64 {
	return substringWeight*SubstringScore(query, target) + editWeight*EditScore(query, target)
}

// Normalize trims s, drops every rune that is not an ASCII letter or digit,
// and lower-cases the remainder.
func Normalize(s string) string {
	s = strings.TrimSpace(s)

	var builder strings.Builder
	builder.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			builder.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			builder.WriteByte(c + ('a' - 'A'))
		}
	}

	return builder.String()
}

// SubstringScore is 1.0 when Normalize(query) is contained in Normalize(target),
// else 0.0. An empty normalized query is contained in every target.
func SubstringScore(query, target string) float64 {
	if strings.Contains(Normalize(target), Normalize(query)) {
		return 1.0
	}
	return 0.0
}

// EditScore is 1 - Distance(a, b)/L where L is the longer rune length.
// Two empty strings score 0.0.
func EditScore(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0.0
	}
	return 1.0 - float64(Distance(a, b))/float64(longest)
}

// Distance is the Levenshtein edit distance between a and b with unit costs
// for insertion, deletion and substitution, measured over runes.
func Distance(a, b string) int {
	source, target := []rune(a), []rune(b)
	rows, cols := len(source)+1, len(target)+1

	// table[i][j] holds the distance between source[:i] and target[:j].
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		table[i][0] = i
	}
	for j := range cols {
		table[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if source[i-1] == target[j-1] {
				cost = 0
			}
			table[i][j] = min(
				table[i-1][j]+1,
				table[i][j-1]+1,
				table[i-1][j-1]+cost,
			)
		}
	}

	return table[rows-1][cols-1]
}
