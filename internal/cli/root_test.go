package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgolob/awsbw/internal/app"
)

// stubEntryPoints swaps runApp and listQueues for canned results.
func stubEntryPoints(t *testing.T, runErr, listErr error) {
	t.Helper()
	origRun, origList := runApp, listQueues
	runApp = func(context.Context, app.Options) error {
		return runErr
	}
	listQueues = func(_ context.Context, w io.Writer, _ app.Options) error {
		if listErr != nil {
			return listErr
		}
		_, err := fmt.Fprintln(w, "Available batch queues:\n\tq1")
		return err
	}
	t.Cleanup(func() { runApp, listQueues = origRun, origList })
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_PassesFlags(t *testing.T) {
	var got app.Options
	origRun := runApp
	runApp = func(_ context.Context, opts app.Options) error {
		got = opts
		return nil
	}
	t.Cleanup(func() { runApp = origRun })

	code, _, stderr := execute(
		"-Q", "gpu-spot", "--queue", "cpu-*",
		"-D", "3", "-i", "15",
		"-p", "research", "--region", "us-west-2",
		"--config", "/tmp/awsbw.toml", "--log-file", "/tmp/awsbw.log",
	)

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, []string{"gpu-spot", "cpu-*"}, got.Overrides.Queues)
	assert.Equal(t, "3", got.Overrides.MaxAgeDays)
	assert.Equal(t, "15", got.Overrides.PollInterval)
	assert.Equal(t, "research", got.Overrides.Profile)
	assert.Equal(t, "us-west-2", got.Overrides.Region)
	assert.Equal(t, "/tmp/awsbw.toml", got.ConfigPath)
	assert.Equal(t, "/tmp/awsbw.log", got.Overrides.LogFile)
}

func TestExecute_LenientNumbersReachConfig(t *testing.T) {
	var got app.Options
	origRun := runApp
	runApp = func(_ context.Context, opts app.Options) error {
		got = opts
		return nil
	}
	t.Cleanup(func() { runApp = origRun })

	code, _, _ := execute("-Q", "q1", "-D", "abc", "-i", "x")

	require.Equal(t, 0, code)
	assert.Equal(t, "abc", got.Overrides.MaxAgeDays, "unparsable values are defaulted by config, not rejected here")
	assert.Equal(t, "x", got.Overrides.PollInterval)
}

func TestExecute_NoQueuesPrintsHelp(t *testing.T) {
	stubEntryPoints(t, app.ErrNoQueues, nil)

	code, stdout, stderr := execute()

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "--queue")
	assert.Empty(t, stderr)
}

func TestExecute_ListQueues(t *testing.T) {
	stubEntryPoints(t, errors.New("run must not be called"), nil)

	code, stdout, stderr := execute("-L", "--profile", "research")

	assert.Equal(t, 0, code)
	assert.Equal(t, "Available batch queues:\n\tq1\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecute_ListQueuesFailure(t *testing.T) {
	stubEntryPoints(t, nil, errors.New("AccessDeniedException"))

	code, stdout, stderr := execute("-L")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error loading queues from batch: AccessDeniedException\n", stderr)
}

func TestExecute_RunFailure(t *testing.T) {
	stubEntryPoints(t, fmt.Errorf("%w: panic: boom", app.ErrPollerDied), nil)

	code, _, stderr := execute("-Q", "q1")

	assert.Equal(t, 1, code)
	assert.Equal(t, "awsbw: poller stopped: panic: boom\n", stderr)
}

func TestExecute_RejectsPositionalArgs(t *testing.T) {
	stubEntryPoints(t, nil, nil)

	code, _, stderr := execute("q1")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "awsbw: ")
}

func TestExecute_Version(t *testing.T) {
	stubEntryPoints(t, errors.New("run must not be called"), nil)

	code, stdout, _ := execute("--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, Version)
}
