package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Frame thresholds.
const (
	// FooterMinWidth is the terminal width the footer legend needs before it
	// is drawn at all.
	FooterMinWidth = 71

	// TimestampWidth is the space reserved at the right of the header for the
	// last refresh time.
	TimestampWidth = 20

	// ModalMinHeight is the smallest terminal height a modal opens in.
	ModalMinHeight = 5
)

// Timing constants.
const (
	// TickInterval is how often the grid re-reads the snapshot store.
	TickInterval = 100 * time.Millisecond

	// DefaultTerminatePause is how long the terminate result stays on screen.
	DefaultTerminatePause = time.Second
)

const (
	timeLayout      = "2006-01-02 15:04:05"
	terminateReason = "Terminated by user"
	closeHint       = "ESC to close"
)

// boxLine is one body row of a modal box.
type boxLine struct {
	text  string
	style lipgloss.Style
}

func plainLine(text string, style lipgloss.Style) boxLine {
	return boxLine{text: text, style: style}
}

// renderBox draws a full-size bordered panel with body rows starting just
// below the top border and hint centered in the bottom border. Rows are kept to
// one printable line cut to the inner width; missing rows are filled with
// spaces.
func renderBox(theme Theme, body []boxLine, width, height int, hint string) string {
	if width < 2 || height < 2 {
		return ""
	}
	styles := theme.Styles()
	bg := NewBgStyle(theme.SurfaceAlt)
	border := styles.ModalBorder
	inner := width - 2

	rows := make([]string, 0, height)
	rows = append(rows, bg.Render("┌"+strings.Repeat("─", inner)+"┐", border))

	for i := 0; i < height-2; i++ {
		text := ""
		style := styles.Text
		if i < len(body) {
			text = truncateWidth(printable(body[i].text), inner)
			style = body[i].style
		}
		pad := inner - runewidth.StringWidth(text)
		rows = append(rows,
			bg.Render("│", border)+
				bg.Render(text, style)+
				bg.Spaces(pad)+
				bg.Render("│", border))
	}

	rows = append(rows, bottomBorder(bg, border, styles.MutedText, inner, hint))
	return strings.Join(rows, "\n")
}

// bottomBorder renders └───hint───┘, dropping the hint when it does not fit.
func bottomBorder(bg BgStyle, border, hintStyle lipgloss.Style, inner int, hint string) string {
	hw := runewidth.StringWidth(hint)
	if hint == "" || hw+2 > inner {
		return bg.Render("└"+strings.Repeat("─", inner)+"┘", border)
	}
	left := (inner - hw) / 2
	right := inner - hw - left
	return bg.Render("└"+strings.Repeat("─", left), border) +
		bg.Render(hint, hintStyle) +
		bg.Render(strings.Repeat("─", right)+"┘", border)
}
