package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jgolob/awsbw/internal/batch"
	"github.com/jgolob/awsbw/internal/config"
	"github.com/jgolob/awsbw/internal/prefs"
	"github.com/jgolob/awsbw/internal/ui"
)

// fakeServices satisfies Services for the composition root.
type fakeServices struct {
	fakeJobs
	queues   []string
	queueErr error
}

func (f *fakeServices) ListQueues(context.Context) ([]string, error) {
	return f.queues, f.queueErr
}

func (f *fakeServices) GetLogEvents(context.Context, string, bool) ([]batch.LogEvent, error) {
	return nil, nil
}

func stubServices(t *testing.T, svc Services, err error) *batch.Config {
	t.Helper()
	var got batch.Config
	orig := newServices
	newServices = func(_ context.Context, cfg batch.Config) (Services, error) {
		got = cfg
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	t.Cleanup(func() { newServices = orig })
	return &got
}

func testOptions(t *testing.T, queues ...string) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Overrides: config.Overrides{
			Queues:  queues,
			LogFile: filepath.Join(dir, "awsbw.log"),
		},
	}
}

func TestRun_NoQueues(t *testing.T) {
	stubServices(t, nil, errors.New("must not be called"))

	err := Run(context.Background(), testOptions(t))
	if !errors.Is(err, ErrNoQueues) {
		t.Fatalf("Run() error = %v, want ErrNoQueues", err)
	}
}

func TestRun_ClientFailure(t *testing.T) {
	stubServices(t, nil, errors.New("profile not found"))

	err := Run(context.Background(), testOptions(t, "q1"))
	if err == nil || !strings.Contains(err.Error(), "init aws client: profile not found") {
		t.Fatalf("Run() error = %v, want wrapped client error", err)
	}
}

func TestRun_UnmatchedPattern(t *testing.T) {
	stubServices(t, &fakeServices{queues: []string{"prod-cpu"}}, nil)

	err := Run(context.Background(), testOptions(t, "dev-*"))
	if err == nil || !strings.Contains(err.Error(), `no queues match pattern "dev-*"`) {
		t.Fatalf("Run() error = %v, want unmatched pattern error", err)
	}
}

func TestRun_PassesProfileAndRegion(t *testing.T) {
	got := stubServices(t, nil, errors.New("stop here"))

	opts := testOptions(t, "q1")
	opts.Overrides.Profile = "research"
	opts.Overrides.Region = "us-west-2"
	_ = Run(context.Background(), opts)

	if got.Profile != "research" || got.Region != "us-west-2" {
		t.Fatalf("client config = %+v, want profile research in us-west-2", *got)
	}
	if got.LogGroup != batch.DefaultLogGroup {
		t.Fatalf("client LogGroup = %q, want %q", got.LogGroup, batch.DefaultLogGroup)
	}
}

func TestListQueues_Prints(t *testing.T) {
	stubServices(t, &fakeServices{queues: []string{"gpu-spot", "cpu-ondemand"}}, nil)

	var buf bytes.Buffer
	if err := ListQueues(context.Background(), &buf, testOptions(t)); err != nil {
		t.Fatalf("ListQueues() error = %v", err)
	}
	want := "Available batch queues:\n\tgpu-spot\n\tcpu-ondemand\n"
	if buf.String() != want {
		t.Fatalf("ListQueues() output = %q, want %q", buf.String(), want)
	}
}

func TestListQueues_Failure(t *testing.T) {
	stubServices(t, &fakeServices{queueErr: errors.New("access denied")}, nil)

	var buf bytes.Buffer
	err := ListQueues(context.Background(), &buf, testOptions(t))
	if err == nil || err.Error() != "access denied" {
		t.Fatalf("ListQueues() error = %v, want access denied", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("ListQueues() wrote %q on failure, want nothing", buf.String())
	}
}

func TestResolvePrefsPath(t *testing.T) {
	if got := resolvePrefsPath(Options{PrefsPath: "/tmp/p.toml"}); got != "/tmp/p.toml" {
		t.Fatalf("resolvePrefsPath(explicit) = %q, want /tmp/p.toml", got)
	}
	if got := resolvePrefsPath(Options{}); got != prefs.DefaultPath() {
		t.Fatalf("resolvePrefsPath(empty) = %q, want %q", got, prefs.DefaultPath())
	}
}

func TestQueueSwitchSavesDefaultPrefs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m := ui.New(ui.Options{
		Queues:    []string{"q1", "q2"},
		PrefsPath: resolvePrefsPath(Options{}),
	})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(">")})
	if cmd == nil {
		t.Fatalf("queue switch issued no save command")
	}
	cmd()

	p, err := prefs.Load(filepath.Join(home, ".config", "awsbw", "prefs.toml"))
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.LastQueue != "q2" {
		t.Fatalf("saved LastQueue = %q, want q2", p.LastQueue)
	}
}
