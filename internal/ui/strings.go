package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// truncateWidth cuts s to at most width display cells without an ellipsis.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// padRight pads a string with spaces to the given display width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// blank returns n spaces.
func blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// chunk splits s into pieces of at most width display cells. An empty string
// yields one empty chunk so blank lines keep their place.
func chunk(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}
	var out []string
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if used+rw > width && used > 0 {
			out = append(out, b.String())
			b.Reset()
			used = 0
		}
		b.WriteRune(r)
		used += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

// wrapLines splits every entry on embedded newlines, chunks each piece to
// width and flattens the result. Trailing newlines are dropped.
func wrapLines(lines []string, width int) []string {
	var out []string
	for _, l := range lines {
		for _, part := range strings.Split(strings.TrimRight(l, "\r\n"), "\n") {
			out = append(out, chunk(printable(part), width)...)
		}
	}
	return out
}

// printable expands tabs and removes escape sequences and other control
// characters so s occupies exactly its display width on one row.
func printable(s string) string {
	s = strings.ReplaceAll(ansi.Strip(s), "\t", "    ")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
