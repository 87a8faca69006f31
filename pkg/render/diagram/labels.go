package diagram

import (
	"html"
	"strings"
)

// BagLabel returns an HTML-like label with head in the first row, an empty
// row with port "anchor" for edges, and one row per label.
func BagLabel(head string, labels []string) string {
	var b strings.Builder
	b.WriteString(`<<TABLE BORDER="0" CELLBORDER="0" CELLSPACING="0">`)
	b.WriteString(`<TR><TD BGCOLOR="white">`)
	b.WriteString(html.EscapeString(head))
	b.WriteString(`</TD></TR><TR><TD PORT="anchor"></TD></TR>`)
	for _, l := range labels {
		b.WriteString("<TR><TD>")
		b.WriteString(html.EscapeString(l))
		b.WriteString("</TD></TR>")
	}
	b.WriteString("</TABLE>>")
	return b.String()
}

// SolutionLabel returns a record label showing columns side by side, with
// top above and bottom below the table. Each column holds its name followed
// by its values.
//
// A positive linesMax limits the shown entries per column: the first
// entries are kept, then "..." and the last entry. A positive columnsMax
// limits the shown columns the same way, always keeping the last column.
// Without columns the table reads "empty".
func SolutionLabel(columns [][]string, top, bottom string, linesMax, columnsMax int) string {
	var b strings.Builder
	b.WriteByte('{')
	if top != "" {
		b.WriteString(escapeRecord(top))
		b.WriteByte('|')
	}
	if len(columns) == 0 {
		b.WriteString("empty")
	} else {
		writeTable(&b, columns, linesMax, columnsMax)
	}
	if bottom != "" {
		b.WriteByte('|')
		b.WriteString(escapeRecord(bottom))
	}
	b.WriteByte('}')
	return b.String()
}

func writeTable(b *strings.Builder, columns [][]string, linesMax, columnsMax int) {
	// keep counts the leading entries of a column shown before the last one.
	height := len(columns[0])
	keep := height - 1
	if linesMax > 0 && linesMax < keep {
		keep = linesMax
	}
	shown := len(columns)
	if columnsMax > 0 && columnsMax < shown {
		shown = columnsMax
	}
	shown--

	writeColumn := func(col []string, filler bool) {
		b.WriteByte('{')
		n := min(keep, len(col)-1)
		for i := 0; i < n; i++ {
			if filler {
				b.WriteString("...")
			} else {
				b.WriteString(escapeRecord(col[i]))
			}
			b.WriteByte('|')
		}
		if n < len(col)-1 {
			b.WriteString("...|")
		}
		if len(col) > 0 {
			if filler {
				b.WriteString("...")
			} else {
				b.WriteString(escapeRecord(col[len(col)-1]))
			}
		}
		b.WriteByte('}')
	}

	b.WriteByte('{')
	for _, col := range columns[:shown] {
		writeColumn(col, false)
		b.WriteByte('|')
	}
	if shown < len(columns)-1 {
		writeColumn(columns[max(shown-1, 0)], true)
		b.WriteByte('|')
	}
	writeColumn(columns[len(columns)-1], false)
	b.WriteByte('}')
}

var recordEscaper = strings.NewReplacer(
	`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
