package display

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
	// marked rows get the warning color unless highlighted.
	marked map[int]bool
	note   string
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
		marked:       make(map[int]bool),
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// MarkRow draws row idx in the warning color.
func (t *Table) MarkRow(idx int) {
	t.marked[idx] = true
}

// SetNote sets a footnote printed under the table, such as the legend for
// estimated times. Setting it again replaces the previous note.
func (t *Table) SetNote(note string) {
	t.note = note
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := t.columnWidths()

	var sb strings.Builder

	// Header row.
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	// Separator row using Unicode box-drawing dashes.
	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	// Data rows.
	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch {
		case i == t.highlightRow:
			line = Accent(line)
		case t.marked[i]:
			line = Yellow(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	if t.note != "" {
		sb.WriteString("\n  " + Yellow(t.note) + "\n")
	}

	return sb.String()
}

// columnWidths measures every column in runes so labels with non-ASCII
// characters still line up.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// formatRow formats a row of cells using the given column widths.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := w - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.Join(parts, "  ")
}

// Pad right-pads s with spaces to width runes.
func Pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// KeyValues renders label/value pairs with the labels aligned, one per line.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if n := utf8.RuneCountInString(p[0]); n > width {
			width = n
		}
	}
	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "  %s  %s\n", Pad(p[0], width), p[1])
	}
	return sb.String()
}
