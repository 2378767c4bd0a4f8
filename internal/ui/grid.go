package ui

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jgolob/awsbw/internal/batch"
)

const msPerDay = 24 * 60 * 60 * 1000

// statusGroup is one grid column: the filtered jobs sharing a status.
type statusGroup struct {
	Status batch.Status
	Jobs   []batch.Job
}

// Selection is the grid cursor: a status column and a row within it.
type Selection struct {
	Column int
	Row    int
}

// Viewport is the grid geometry for the current terminal size.
type Viewport struct {
	Width       int // grid window width (terminal minus side borders)
	Height      int // grid window height (terminal minus header and footer)
	ColumnWidth int
	MaxCols     int
	MaxRows     int
}

type navKey int

const (
	navNone navKey = iota
	navUp
	navDown
	navLeft
	navRight
)

// filterJobs keeps the jobs of queue created at or after the age cutoff.
func filterJobs(jobs []batch.Job, queue string, maxAgeDays int, now time.Time) []batch.Job {
	cutoff := now.UnixMilli() - int64(maxAgeDays)*msPerDay
	var out []batch.Job
	for _, j := range jobs {
		if j.Queue == queue && j.CreatedAt >= cutoff {
			out = append(out, j)
		}
	}
	return out
}

// groupByStatus buckets jobs in the fixed status order, dropping empty
// statuses. Job order within a bucket follows the input.
func groupByStatus(jobs []batch.Job) []statusGroup {
	buckets := make(map[batch.Status][]batch.Job, len(batch.Statuses))
	for _, j := range jobs {
		buckets[j.Status] = append(buckets[j.Status], j)
	}
	var groups []statusGroup
	for _, s := range batch.Statuses {
		if len(buckets[s]) > 0 {
			groups = append(groups, statusGroup{Status: s, Jobs: buckets[s]})
		}
	}
	return groups
}

// computeViewport derives column width and visible column/row counts for a
// grid window of width x height cells.
func computeViewport(groups []statusGroup, width, height int) Viewport {
	vp := Viewport{Width: max(width, 0), Height: max(height, 0)}
	widest := 0
	for _, g := range groups {
		widest = max(widest, runewidth.StringWidth(g.Status.String()))
		for _, j := range g.Jobs {
			widest = max(widest, runewidth.StringWidth(j.Name))
		}
	}
	vp.ColumnWidth = widest + 1
	vp.MaxCols = max(0, (width-2)/vp.ColumnWidth)
	vp.MaxRows = max(0, height-2)
	return vp
}

// resolveSelection locates selectedID within the visible columns. A job that
// vanished, moved past the visible columns, or fell off the bottom resets the
// cursor to the top of the first column.
func resolveSelection(groups []statusGroup, vp Viewport, selectedID string) Selection {
	if selectedID == "" {
		return Selection{}
	}
	visible := min(len(groups), vp.MaxCols)
	for c := 0; c < visible; c++ {
		for r, j := range groups[c].Jobs {
			if j.ID != selectedID {
				continue
			}
			if r > vp.MaxRows {
				return Selection{}
			}
			return Selection{Column: c, Row: r}
		}
	}
	return Selection{}
}

// navigate applies one arrow key to sel. The cursor never leaves the visible
// columns or the bounds of the group it lands in.
func navigate(sel Selection, groups []statusGroup, vp Viewport, key navKey) Selection {
	visible := min(len(groups), vp.MaxCols)
	if visible == 0 || sel.Column < 0 || sel.Column >= visible {
		return sel
	}
	if sel.Row < 0 || sel.Row >= len(groups[sel.Column].Jobs) {
		return sel
	}

	clampRow := func(col, row int) int {
		return max(0, min(row, len(groups[col].Jobs)-1, vp.MaxRows))
	}

	switch key {
	case navUp:
		sel.Row = max(0, sel.Row-1)
	case navDown:
		sel.Row = clampRow(sel.Column, sel.Row+1)
	case navRight:
		sel.Column = min(len(groups)-1, vp.MaxCols-1, sel.Column+1)
		sel.Row = clampRow(sel.Column, sel.Row)
	case navLeft:
		sel.Column = max(0, sel.Column-1)
		sel.Row = clampRow(sel.Column, sel.Row)
	}
	return sel
}

// selectedJob returns the job under the cursor, provided the cursor sits on a
// drawn cell.
func selectedJob(groups []statusGroup, vp Viewport, sel Selection) (batch.Job, bool) {
	if sel.Column < 0 || sel.Column >= min(len(groups), vp.MaxCols) {
		return batch.Job{}, false
	}
	jobs := groups[sel.Column].Jobs
	if sel.Row < 0 || sel.Row >= len(jobs) || sel.Row > vp.MaxRows {
		return batch.Job{}, false
	}
	return jobs[sel.Row], true
}

type cellKind int

const (
	cellPlain cellKind = iota
	cellHeader
	cellSelected
)

type gridCell struct {
	Text   string
	Kind   cellKind
	Status batch.Status // set on column headers
}

// gridLine is one rendered row of the grid window. Its cells always add up to
// the full window width.
type gridLine []gridCell

// String returns the unstyled text of the line.
func (l gridLine) String() string {
	var b strings.Builder
	for _, c := range l {
		b.WriteString(c.Text)
	}
	return b.String()
}

// renderGrid lays out every line of the grid window. Rows past a group's end
// and the area right of the last column are written as spaces so nothing from
// an earlier frame survives.
func renderGrid(groups []statusGroup, vp Viewport, sel Selection) []gridLine {
	lines := make([]gridLine, vp.Height)
	visible := min(len(groups), vp.MaxCols)
	used := visible * vp.ColumnWidth
	rest := max(0, vp.Width-used)

	for y := range lines {
		line := make(gridLine, 0, visible+1)
		for c := 0; c < visible; c++ {
			if y == 0 {
				line = append(line, gridCell{
					Text:   padRight(groups[c].Status.String(), vp.ColumnWidth),
					Kind:   cellHeader,
					Status: groups[c].Status,
				})
				continue
			}
			row := y - 1
			jobs := groups[c].Jobs
			if row >= len(jobs) {
				line = append(line, gridCell{Text: blank(vp.ColumnWidth)})
				continue
			}
			kind := cellPlain
			if c == sel.Column && row == sel.Row {
				kind = cellSelected
			}
			line = append(line, gridCell{Text: padRight(jobs[row].Name, vp.ColumnWidth), Kind: kind})
		}
		if rest > 0 {
			kind := cellPlain
			if y == 0 {
				kind = cellHeader
			}
			line = append(line, gridCell{Text: blank(rest), Kind: kind})
		}
		lines[y] = line
	}
	return lines
}

// renderPlaceholder fills the grid window with msg on its second line.
func renderPlaceholder(vp Viewport, msg string) []gridLine {
	lines := make([]gridLine, vp.Height)
	for y := range lines {
		text := blank(vp.Width)
		if y == 1 {
			text = padRight(truncateWidth(msg, vp.Width), vp.Width)
		}
		lines[y] = gridLine{{Text: text}}
	}
	return lines
}
