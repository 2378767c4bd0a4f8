package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/jgolob/awsbw/internal/batch"
)

// detailView shows timing, definition, resources and command for one job.
type detailView struct {
	svc     services
	job     batch.Job
	req     uint64
	loading bool
	failed  bool
	detail  batch.JobDetail
	scroll  scrollState
	spinner spinner.Model
}

func newDetailView(svc services, job batch.Job) detailView {
	return detailView{
		svc:     svc,
		job:     job,
		req:     nextRequest(),
		loading: true,
		spinner: newSpinner(),
	}
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return s
}

func (v detailView) Mode() mode { return modeDetail }

func (v detailView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, describeCmd(v.svc, v.req, v.job.ID))
}

func (v detailView) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.req != v.req {
			return v, nil, false
		}
		v.loading = false
		if msg.err != nil {
			v.failed = true
			v.svc.logger.Warn("describe job failed", zap.String("job_id", v.job.ID), zap.Error(msg.err))
			return v, nil, false
		}
		v.detail = msg.detail
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
			v.scroll.down(len(v.detail.Command))
		}
	}
	return v, nil, false
}

func (v detailView) View(theme Theme, width, height int) string {
	return renderBox(theme, v.body(theme.Styles(), width-2), width, height, closeHint)
}

// body lays out the rows below the top border; commands start on the seventh.
func (v detailView) body(styles Styles, inner int) []boxLine {
	lines := []boxLine{
		plainLine(jobTitle("", v.job), styles.AccentText.Bold(true)),
		plainLine(jobTimes(v.job), styles.Text),
		plainLine(jobStatusLine(v.job), styles.StatusStyle(v.job.Status).Underline(false)),
	}
	switch {
	case v.loading:
		return append(lines, plainLine(v.spinner.View()+" Loading job detail...", styles.MutedText))
	case v.failed:
		return append(lines, plainLine("Job detail unavailable", styles.MutedText))
	}

	d := v.detail
	lines = append(lines,
		plainLine("Job Definition: "+d.DefinitionName, styles.Text),
		plainLine("Image: "+d.Image, styles.Text),
		plainLine(fmt.Sprintf("vcpu: %d  mem: %s MB.", d.VCPUs, humanize.Comma(d.MemoryMB)), styles.Text),
	)
	start := min(v.scroll.offset, len(d.Command))
	for _, l := range wrapLines(d.Command[start:], inner) {
		lines = append(lines, plainLine(l, styles.FaintText))
	}
	return lines
}

// jobTitle renders "<prefix><name> (id: <id>) on <queue>".
func jobTitle(prefix string, j batch.Job) string {
	return fmt.Sprintf("%s%s (id: %s) on %s", prefix, j.Name, j.ID, j.Queue)
}

// jobTimes lists the creation, start and stop times the job has.
func jobTimes(j batch.Job) string {
	parts := []string{"Created: " + j.Created().Format(timeLayout)}
	if t, ok := j.Started(); ok {
		parts = append(parts, "Started: "+t.Format(timeLayout))
	}
	if t, ok := j.Stopped(); ok {
		parts = append(parts, "Stopped: "+t.Format(timeLayout))
	}
	return strings.Join(parts, "  ")
}

func jobStatusLine(j batch.Job) string {
	line := "Status: " + j.Status.String()
	if r := j.Reason(); r != "" {
		line += " (" + r + ")"
	}
	return line
}
