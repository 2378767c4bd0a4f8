package ui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jgolob/awsbw/internal/batch"
)

// mode identifies which view currently owns keyboard input.
type mode int

const (
	modeGrid mode = iota
	modeDetail
	modeLog
	modeTerminate
)

func (m mode) String() string {
	switch m {
	case modeDetail:
		return "detail"
	case modeLog:
		return "log"
	case modeTerminate:
		return "terminate"
	default:
		return "grid"
	}
}

// Modal is a full-screen view layered over the grid.
// Update returns the updated modal, a command, and a bool reporting whether
// the modal is done and should be closed.
type Modal interface {
	Mode() mode
	Init() tea.Cmd
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// services is what a modal needs to talk to the remote APIs.
type services struct {
	ctx     context.Context
	jobs    batch.JobService
	logs    batch.LogService
	logger  *zap.Logger
	timeout time.Duration
}

// call derives a per-request context from the program context.
func (s services) call() (context.Context, context.CancelFunc) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Every async fetch is tagged with a request id. A result whose id no longer
// matches its modal arrived after the modal moved on and is dropped.
var requestSeq atomic.Uint64

func nextRequest() uint64 {
	return requestSeq.Add(1)
}

// Messages

type detailLoadedMsg struct {
	req    uint64
	detail batch.JobDetail
	err    error
}

type logsLoadedMsg struct {
	req      uint64
	stream   string
	events   []batch.LogEvent
	noStream bool
}

type terminatedMsg struct {
	req uint64
	err error
}

type modalCloseMsg struct {
	req uint64
}

// logOrderMsg reports a log order toggle so the choice can be persisted.
type logOrderMsg struct {
	fromHead bool
}

// Commands

func describeCmd(s services, req uint64, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.call()
		defer cancel()
		detail, err := s.jobs.DescribeJob(ctx, jobID)
		return detailLoadedMsg{req: req, detail: detail, err: err}
	}
}

// loadLogsCmd resolves the log stream (unless already known) and fetches its
// events. A job without a stream yields noStream; an events failure yields an
// empty list.
func loadLogsCmd(s services, req uint64, jobID, stream string, fromHead bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.call()
		defer cancel()
		if stream == "" {
			detail, err := s.jobs.DescribeJob(ctx, jobID)
			if err != nil {
				s.logger.Warn("describe job for logs failed", zap.String("job_id", jobID), zap.Error(err))
				return logsLoadedMsg{req: req, noStream: true}
			}
			if detail.LogStreamName == "" {
				return logsLoadedMsg{req: req, noStream: true}
			}
			stream = detail.LogStreamName
		}
		events, err := s.logs.GetLogEvents(ctx, stream, fromHead)
		if err != nil {
			s.logger.Warn("get log events failed",
				zap.String("job_id", jobID),
				zap.String("stream", stream),
				zap.Error(err),
			)
			events = nil
		}
		return logsLoadedMsg{req: req, stream: stream, events: events}
	}
}

func terminateCmd(s services, req uint64, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.call()
		defer cancel()
		return terminatedMsg{req: req, err: s.jobs.TerminateJob(ctx, jobID, terminateReason)}
	}
}

func closeAfter(d time.Duration, req uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return modalCloseMsg{req: req}
	})
}

// scrollState is a bounded line offset.
type scrollState struct {
	offset int
}

func (s *scrollState) up() {
	s.offset = max(0, s.offset-1)
}

// down advances by one while the offset stays at or below limit.
func (s *scrollState) down(limit int) {
	if s.offset < limit {
		s.offset++
	}
}

// pageDown advances by page only when the new offset still points inside a
// list of length n.
func (s *scrollState) pageDown(page, n int) {
	if page > 0 && s.offset+page < n {
		s.offset += page
	}
}

func (s *scrollState) reset() {
	s.offset = 0
}
