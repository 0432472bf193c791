package paramcheck

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table renders value/description rows as a markdown table under a
// "value | description" header. A non-empty text is placed above the table,
// separated by a blank line.
//
//	|value|description|
//	|-----|-----------|
//	|1    |admin      |
func Table(text string, rows ...[2]string) string {
	if len(rows) == 0 {
		return text
	}
	all := append([][2]string{{"value", "description"}}, rows...)
	var width [2]int
	for _, r := range all {
		for i := range r {
			width[i] = max(width[i], utf8.RuneCountInString(r[i]))
		}
	}

	var b strings.Builder
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	for i, r := range all {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, r, width)
		if i == 0 {
			b.WriteByte('\n')
			writeRow(&b, [2]string{strings.Repeat("-", width[0]), strings.Repeat("-", width[1])}, width)
		}
	}
	return b.String()
}

// TableFromMap is Table for a map of values to descriptions. Rows are sorted
// by value; a "description" key, when present, becomes the text above.
func TableFromMap[K comparable](m map[K]string) string {
	var text string
	rows := make([][2]string, 0, len(m))
	for k, d := range m {
		key := fmt.Sprint(k)
		if key == "description" {
			text = d
			continue
		}
		rows = append(rows, [2]string{key, d})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return Table(text, rows...)
}

func writeRow(b *strings.Builder, r [2]string, width [2]int) {
	b.WriteByte('|')
	for i := range r {
		b.WriteString(r[i])
		b.WriteString(strings.Repeat(" ", width[i]-utf8.RuneCountInString(r[i])))
		b.WriteByte('|')
	}
}
