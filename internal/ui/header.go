package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// renderMain draws the framed grid: tab header, grid rows and footer legend.
// The output is always exactly width x height cells.
func (m Model) renderMain() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	rows := make([]string, 0, m.height)
	rows = append(rows, m.renderHeader(styles, bg))
	for _, line := range m.gridLines() {
		rows = append(rows, bg.Render("│", styles.Border)+renderGridLine(styles, line)+bg.Render("│", styles.Border))
	}
	rows = append(rows, m.renderFooter(styles, bg))
	return strings.Join(rows, "\n")
}

// gridLines picks the placeholder or the job grid for the current snapshot.
func (m Model) gridLines() []gridLine {
	switch {
	case !m.snapshot.Loaded:
		return renderPlaceholder(m.vp, "Loading...")
	case m.visibleJobs == 0:
		return renderPlaceholder(m.vp, "No jobs")
	default:
		return renderGrid(m.groups, m.vp, m.sel)
	}
}

func renderGridLine(styles Styles, line gridLine) string {
	var b strings.Builder
	for _, c := range line {
		switch c.Kind {
		case cellHeader:
			if c.Status != "" {
				b.WriteString(styles.StatusStyle(c.Status).Render(c.Text))
			} else {
				b.WriteString(styles.Text.Underline(true).Render(c.Text))
			}
		case cellSelected:
			b.WriteString(styles.Selected.Render(c.Text))
		default:
			b.WriteString(styles.Text.Render(c.Text))
		}
	}
	return b.String()
}

// renderHeader draws the top border with the queue tabs and, when there is
// room, the time of the last refresh.
func (m Model) renderHeader(styles Styles, bg BgStyle) string {
	w := m.width
	var b strings.Builder
	b.WriteString(bg.Render("┌", styles.Border))
	x := 1
	for i, q := range m.queues {
		qw := runewidth.StringWidth(q)
		if x+qw > w-1 {
			break
		}
		style := styles.Tab
		if i == m.queueIdx {
			style = styles.ActiveTab
		}
		b.WriteString(style.Render(q))
		x += qw
		if x < w-1 {
			b.WriteString(bg.Render("─", styles.Border))
			x++
		}
	}

	if !m.capturedAt.IsZero() && x+TimestampWidth < w {
		stampAt := w - TimestampWidth
		b.WriteString(bg.Render(strings.Repeat("─", stampAt-x), styles.Border))
		stamp := m.capturedAt.Format(timeLayout)
		b.WriteString(bg.Render(stamp, styles.MutedText))
		x = stampAt + runewidth.StringWidth(stamp)
	}
	if fill := w - 1 - x; fill > 0 {
		b.WriteString(bg.Render(strings.Repeat("─", fill), styles.Border))
	}
	b.WriteString(bg.Render("┐", styles.Border))
	return b.String()
}

// renderFooter draws the bottom border with the key legend centered in it
// once the terminal is wide enough.
func (m Model) renderFooter(styles Styles, bg BgStyle) string {
	inner := m.width - 2
	legend := ""
	if m.width > FooterMinWidth {
		legend = m.help.View(m.keys)
	}
	lw := lipgloss.Width(legend)
	if legend == "" || lw+2 > inner {
		return bg.Render("└"+strings.Repeat("─", inner)+"┘", styles.Border)
	}
	left := (inner - lw) / 2
	right := inner - lw - left
	return bg.Render("└"+strings.Repeat("─", left), styles.Border) +
		legend +
		bg.Render(strings.Repeat("─", right)+"┘", styles.Border)
}
