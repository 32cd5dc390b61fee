package posts

import "strings"

// WordsPerMinute is the reading speed used for estimates.
const WordsPerMinute = 200

// CountWords counts space-separated tokens in s. An empty string counts as
// one word, and runs of spaces count the empty tokens between them.
func CountWords(s string) int {
	return len(strings.Split(s, " "))
}

// WordCount sums heading and body-text words over all sections. A section
// without body blocks contributes its heading only.
func WordCount(sections []Section) int {
	total := 0
	for _, sec := range sections {
		total += CountWords(sec.Heading)
		for _, b := range sec.Body {
			total += CountWords(b.Text)
		}
	}
	return total
}

// ReadingTime estimates whole minutes to read sections, rounding up.
func ReadingTime(sections []Section) int {
	words := WordCount(sections)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
