package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jgolob/awsbw/internal/batch"
	"github.com/jgolob/awsbw/internal/logging"
	"github.com/jgolob/awsbw/internal/prefs"
	"github.com/jgolob/awsbw/internal/state"
)

// PollerStatus is the part of the background poller the UI watches.
type PollerStatus interface {
	Done() <-chan struct{}
	Err() error
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Jobs           batch.JobService
	Logs           batch.LogService
	Store          *state.Store
	Poller         PollerStatus
	Queues         []string
	MaxAgeDays     int
	Prefs          prefs.Prefs
	PrefsPath      string
	Logger         *zap.Logger
	RequestTimeout time.Duration
	TerminatePause time.Duration
	Now            func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	svc            services
	store          *state.Store
	poller         PollerStatus
	queues         []string
	maxAgeDays     int
	prefsPath      string
	terminatePause time.Duration
	now            func() time.Time

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Data state
	prefs       prefs.Prefs
	queueIdx    int
	snapshot    state.Snapshot
	capturedAt  time.Time
	groups      []statusGroup
	visibleJobs int
	vp          Viewport
	sel         Selection
	selectedID  string

	modal    Modal
	fatalErr error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.RequestTimeout
	if timeout == 0 {
		timeout = batch.DefaultRequestTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	theme := GetTheme(opts.Prefs.Theme)
	m := Model{
		svc: services{
			ctx:     ctx,
			jobs:    opts.Jobs,
			logs:    opts.Logs,
			logger:  logging.OrNop(opts.Logger),
			timeout: timeout,
		},
		store:          store,
		poller:         opts.Poller,
		queues:         slices.Clone(opts.Queues),
		maxAgeDays:     opts.MaxAgeDays,
		prefsPath:      opts.PrefsPath,
		terminatePause: opts.TerminatePause,
		now:            now,
		theme:          theme,
		keys:           DefaultKeyMap(),
		help:           newHelp(theme),
		prefs:          opts.Prefs,
	}
	if i := slices.Index(m.queues, opts.Prefs.LastQueue); i >= 0 {
		m.queueIdx = i
	}
	return m
}

func newHelp(theme Theme) help.Model {
	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)).Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted))
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint))
	return h
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(TickInterval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.rebuild()
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m, nil

	case tickMsg:
		return m.handleTick()

	case logOrderMsg:
		m.prefs = m.prefs.WithFromHead(msg.fromHead)
		return m, m.savePrefs()

	case prefsSavedMsg:
		if msg.err != nil {
			m.svc.logger.Warn("save preferences failed", zap.String("path", m.prefsPath), zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.handleGridKey(msg)
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// Mode reports which view owns input.
func (m Model) Mode() mode {
	if m.modal == nil {
		return modeGrid
	}
	return m.modal.Mode()
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.fatalErr
}

// handleTick watches the poller and picks up the latest snapshot.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.poller != nil {
		select {
		case <-m.poller.Done():
			m.fatalErr = m.poller.Err()
			if m.fatalErr != nil {
				m.svc.logger.Error("poller stopped", zap.Error(m.fatalErr))
			}
			return m, tea.Quit
		default:
		}
	}

	snap, at := m.store.Read()
	m.snapshot = snap
	m.capturedAt = at
	m.rebuild()
	return m, tickCmd(TickInterval)
}

// rebuild recomputes groups, geometry and the cursor from the current
// snapshot, keeping the selected job wherever it moved.
func (m *Model) rebuild() {
	jobs := filterJobs(m.snapshot.Jobs, m.activeQueue(), m.maxAgeDays, m.now())
	m.visibleJobs = len(jobs)
	m.groups = groupByStatus(jobs)
	m.vp = computeViewport(m.groups, m.width-2, m.height-2)
	if len(jobs) == 0 {
		m.sel = Selection{}
		return
	}
	m.sel = resolveSelection(m.groups, m.vp, m.selectedID)
	m.syncSelectedID()
}

func (m *Model) syncSelectedID() {
	if j, ok := selectedJob(m.groups, m.vp, m.sel); ok {
		m.selectedID = j.ID
	}
}

func (m Model) activeQueue() string {
	if m.queueIdx < 0 || m.queueIdx >= len(m.queues) {
		return ""
	}
	return m.queues[m.queueIdx]
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.move(navUp), nil
	case key.Matches(msg, m.keys.Down):
		return m.move(navDown), nil
	case key.Matches(msg, m.keys.Left):
		return m.move(navLeft), nil
	case key.Matches(msg, m.keys.Right):
		return m.move(navRight), nil
	case key.Matches(msg, m.keys.QueuePrev):
		return m.switchQueue(-1)
	case key.Matches(msg, m.keys.QueueNext):
		return m.switchQueue(1)
	case key.Matches(msg, m.keys.Detail):
		return m.openModal(func(j batch.Job) Modal { return newDetailView(m.svc, j) })
	case key.Matches(msg, m.keys.Logs):
		return m.openModal(func(j batch.Job) Modal {
			return newLogView(m.svc, j, m.prefs.FromHead(), m.height)
		})
	case key.Matches(msg, m.keys.Terminate):
		return m.openModal(func(j batch.Job) Modal { return newTerminateView(m.svc, j, m.terminatePause) })
	}
	return m, nil
}

func (m Model) move(k navKey) Model {
	if m.visibleJobs == 0 {
		return m
	}
	m.sel = navigate(m.sel, m.groups, m.vp, k)
	m.syncSelectedID()
	return m
}

// switchQueue moves the active tab by delta, stopping at either end.
func (m Model) switchQueue(delta int) (tea.Model, tea.Cmd) {
	next := max(0, min(len(m.queues)-1, m.queueIdx+delta))
	if next == m.queueIdx || len(m.queues) == 0 {
		return m, nil
	}
	m.queueIdx = next
	m.rebuild()
	m.prefs.LastQueue = m.activeQueue()
	return m, m.savePrefs()
}

// openModal opens a modal on the selected job. Nothing happens without a
// selection or when the terminal is too short to draw one.
func (m Model) openModal(build func(batch.Job) Modal) (tea.Model, tea.Cmd) {
	if m.height < ModalMinHeight || m.visibleJobs == 0 {
		return m, nil
	}
	job, ok := selectedJob(m.groups, m.vp, m.sel)
	if !ok {
		return m, nil
	}
	m.modal = build(job)
	return m, m.modal.Init()
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, done := m.modal.Update(msg, m.keys)
	if done {
		m.modal = nil
		m.rebuild()
		return m, cmd
	}
	m.modal = next
	return m, cmd
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// Messages

type tickMsg time.Time

type prefsSavedMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until the user quits, the
// context is cancelled, or the poller dies.
func Run(opts Options) error {
	m := New(opts)
	ctx := m.svc.ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
