package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jgolob/awsbw/internal/batch"
)

type terminateStage int

const (
	terminateAsk terminateStage = iota
	terminateSending
	terminateDone
)

// terminateView asks for confirmation, sends the request and shows the
// outcome for a short pause before closing.
type terminateView struct {
	svc    services
	job    batch.Job
	req    uint64
	stage  terminateStage
	result string
	failed bool
	pause  time.Duration
}

func newTerminateView(svc services, job batch.Job, pause time.Duration) terminateView {
	if pause <= 0 {
		pause = DefaultTerminatePause
	}
	return terminateView{svc: svc, job: job, req: nextRequest(), pause: pause}
}

func (v terminateView) Mode() mode { return modeTerminate }

func (v terminateView) Init() tea.Cmd { return nil }

func (v terminateView) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.stage != terminateAsk {
			return v, nil, false
		}
		if !key.Matches(msg, keys.Confirm) {
			return v, nil, true
		}
		v.stage = terminateSending
		return v, terminateCmd(v.svc, v.req, v.job.ID), false

	case terminatedMsg:
		if msg.req != v.req {
			return v, nil, false
		}
		v.stage = terminateDone
		if msg.err != nil {
			v.failed = true
			v.result = "Terminate failed: " + msg.err.Error()
			v.svc.logger.Warn("terminate job failed", zap.String("job_id", v.job.ID), zap.Error(msg.err))
		} else {
			v.result = "Terminated"
			v.svc.logger.Info("job terminated", zap.String("job_id", v.job.ID), zap.String("queue", v.job.Queue))
		}
		return v, closeAfter(v.pause, v.req), false

	case modalCloseMsg:
		if msg.req == v.req {
			return v, nil, true
		}
	}
	return v, nil, false
}

func (v terminateView) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := []boxLine{
		plainLine("To terminate job "+v.job.Name+" type Y", styles.WarningText.Bold(true)),
	}
	switch v.stage {
	case terminateSending:
		body = append(body, plainLine("Terminating...", styles.MutedText))
	case terminateDone:
		style := styles.SuccessText
		if v.failed {
			style = styles.DangerText
		}
		body = append(body, plainLine(v.result, style))
	}
	return renderBox(theme, body, width, height, "")
}
