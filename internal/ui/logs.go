package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jgolob/awsbw/internal/batch"
)

// logView pages through the events of a job's log stream.
type logView struct {
	svc      services
	job      batch.Job
	req      uint64
	fromHead bool
	stream   string // resolved on first load, reused when the order flips
	loading  bool
	events   []batch.LogEvent
	scroll   scrollState
	height   int
	spinner  spinner.Model
}

// Rows above the first event: title and order hint.
const logHeaderRows = 2

func newLogView(svc services, job batch.Job, fromHead bool, height int) logView {
	return logView{
		svc:      svc,
		job:      job,
		req:      nextRequest(),
		fromHead: fromHead,
		loading:  true,
		height:   height,
		spinner:  newSpinner(),
	}
}

func (v logView) Mode() mode { return modeLog }

func (v logView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, loadLogsCmd(v.svc, v.req, v.job.ID, "", v.fromHead))
}

// pageSize is the number of event rows inside the box.
func (v logView) pageSize() int {
	return max(1, v.height-2-logHeaderRows)
}

func (v logView) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		if msg.req != v.req {
			return v, nil, false
		}
		if msg.noStream {
			return v, nil, true
		}
		v.loading = false
		v.stream = msg.stream
		v.events = msg.events
		v.scroll.reset()
		return v, nil, false

	case tea.WindowSizeMsg:
		v.height = msg.Height
		return v, nil, false

	case spinner.TickMsg:
		if !v.loading {
			return v, nil, false
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape):
			return v, nil, true
		case key.Matches(msg, keys.Up):
			v.scroll.up()
		case key.Matches(msg, keys.Down):
			v.scroll.down(len(v.events) - 1)
		case key.Matches(msg, keys.PageDown):
			v.scroll.pageDown(v.pageSize(), len(v.events))
		case key.Matches(msg, keys.ToggleOrder):
			return v.toggleOrder()
		}
	}
	return v, nil, false
}

// toggleOrder flips the fetch direction and refetches from the cached stream.
func (v logView) toggleOrder() (Modal, tea.Cmd, bool) {
	if v.loading {
		return v, nil, false
	}
	v.fromHead = !v.fromHead
	v.req = nextRequest()
	v.loading = true
	v.events = nil
	v.scroll.reset()
	fromHead := v.fromHead
	return v, tea.Batch(
		v.spinner.Tick,
		loadLogsCmd(v.svc, v.req, v.job.ID, v.stream, fromHead),
		func() tea.Msg { return logOrderMsg{fromHead: fromHead} },
	), false
}

func (v logView) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	inner := width - 2
	order := "oldest first"
	if !v.fromHead {
		order = "newest first"
	}
	body := []boxLine{
		plainLine(jobTitle("Logs for ", v.job), styles.AccentText.Bold(true)),
		plainLine(order+" (O to reverse, space to page)", styles.MutedText),
	}

	switch {
	case v.loading:
		label := " Loading logs..."
		if v.stream != "" && !v.fromHead {
			label = " Loading reversed logs..."
		}
		body = append(body, plainLine(v.spinner.View()+label, styles.MutedText))
	case len(v.events) == 0:
		body = append(body, plainLine("No log events", styles.MutedText))
	default:
		rows := max(0, height-2-logHeaderRows)
		for _, e := range v.events[min(v.scroll.offset, len(v.events)):] {
			for _, l := range wrapLines([]string{e.Message}, inner) {
				body = append(body, plainLine(l, styles.Text))
			}
			if len(body)-logHeaderRows >= rows {
				break
			}
		}
	}
	return renderBox(theme, body, width, height, closeHint)
}
