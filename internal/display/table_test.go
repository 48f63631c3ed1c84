package display

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable([]string{"Name", "Value"})
	if tbl == nil {
		t.Fatal("NewTable returned nil")
	}
	if tbl.highlightRow != -1 {
		t.Errorf("highlightRow = %d, want -1", tbl.highlightRow)
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable([]string{})
	got := tbl.Render()
	if got != "" {
		t.Errorf("Render() with empty headers = %q, want empty", got)
	}
}

func TestTable_BasicRender(t *testing.T) {
	SetEnabled(false) // disable colors for predictable output

	tbl := NewTable([]string{"Date", "Fajr", "Isha"})
	tbl.AddRow([]string{"Mon 01 Mar", "05:06", "19:28"})
	tbl.AddRow([]string{"Tue 02 Mar", "05:05", "19:29"})

	got := tbl.Render()

	// Check header is present.
	if !strings.Contains(got, "Date") || !strings.Contains(got, "Fajr") || !strings.Contains(got, "Isha") {
		t.Errorf("Render() missing headers in:\n%s", got)
	}

	// Check separator exists (Unicode dashes).
	if !strings.Contains(got, "─") {
		t.Error("Render() missing separator line")
	}

	// Check data rows.
	if !strings.Contains(got, "Mon 01 Mar") {
		t.Error("Render() missing first data row")
	}
	if !strings.Contains(got, "Tue 02 Mar") {
		t.Error("Render() missing second data row")
	}
	if !strings.Contains(got, "05:06") || !strings.Contains(got, "19:28") {
		t.Error("Render() missing prayer time values")
	}
}

func TestTable_ColumnAlignment(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable([]string{"A", "LongHeader"})
	tbl.AddRow([]string{"short", "x"})
	tbl.AddRow([]string{"y", "longer value"})

	got := tbl.Render()
	lines := strings.Split(strings.TrimSpace(got), "\n")

	// Should have 4 lines: header, separator, 2 data rows.
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), got)
	}
}

func TestTable_HighlightRow(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable([]string{"Date", "Time"})
	tbl.AddRow([]string{"Mon", "05:00"})
	tbl.AddRow([]string{"Tue", "05:01"})
	tbl.SetHighlightRow(0)

	got := tbl.Render()

	// The highlighted row should contain ANSI codes.
	lines := strings.Split(got, "\n")
	// Line 0 is header, line 1 is separator, line 2 is first data row (highlighted).
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "\033[") {
		t.Error("highlighted row should contain ANSI escape codes")
	}
}

func TestFormatRow(t *testing.T) {
	got := formatRow([]string{"abc", "de"}, []int{5, 4})
	want := "abc    de  "
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestFormatRow_MissingCells(t *testing.T) {
	// Fewer cells than widths should produce empty-padded columns.
	got := formatRow([]string{"a"}, []int{3, 5})
	// "a  " (3) + "  " (sep) + "     " (5) = "a         "
	want := "a         "
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestTable_Note(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable([]string{"Date", "Isha"})
	tbl.AddRow([]string{"Sat 20 Jun", "01:12*"})
	tbl.SetNote("first")
	tbl.SetNote("* estimated")

	got := tbl.Render()
	if !strings.HasSuffix(got, "\n  * estimated\n") {
		t.Errorf("Render() should end with the note, got:\n%s", got)
	}
	if strings.Contains(got, "first") {
		t.Error("SetNote should replace the earlier note")
	}
}

func TestTable_NoNote(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable([]string{"A"})
	tbl.AddRow([]string{"x"})
	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines without a note, got %d", len(lines))
	}
}

func TestTable_MarkRow(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable([]string{"Event", "Delta"})
	tbl.AddRow([]string{"Fajr", "+1m"})
	tbl.AddRow([]string{"Isha", "+9m"})
	tbl.MarkRow(1)

	lines := strings.Split(tbl.Render(), "\n")
	if strings.Contains(lines[2], "\033[33m") {
		t.Error("unmarked row should not be yellow")
	}
	if !strings.Contains(lines[3], "\033[33m") {
		t.Errorf("marked row should be yellow, got %q", lines[3])
	}
}

func TestFormatRow_Unicode(t *testing.T) {
	got := formatRow([]string{"Δ", "x"}, []int{3, 1})
	want := "Δ    x"
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestKeyValues(t *testing.T) {
	got := KeyValues([][2]string{{"Bearing", "118.99°"}, {"Distance", "4791 km"}})
	want := "  Bearing   118.99°\n  Distance  4791 km\n"
	if got != want {
		t.Errorf("KeyValues = %q, want %q", got, want)
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 4); got != "ab  " {
		t.Errorf("Pad = %q", got)
	}
	if got := Pad("abcdef", 4); got != "abcdef" {
		t.Errorf("Pad should not truncate, got %q", got)
	}
}
