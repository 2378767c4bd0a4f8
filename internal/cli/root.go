// Package cli implements the awsbw command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jgolob/awsbw/internal/app"
	"github.com/jgolob/awsbw/internal/config"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// Entry points; tests replace them.
var (
	runApp     = app.Run
	listQueues = app.ListQueues
)

type rootFlags struct {
	queues     []string
	listQueues bool
	maxAgeDays string
	interval   string
	profile    string
	region     string
	configPath string
	prefsPath  string
	logFile    string
}

func (f rootFlags) options() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		Overrides: config.Overrides{
			Queues:       f.queues,
			Profile:      f.profile,
			Region:       f.region,
			MaxAgeDays:   f.maxAgeDays,
			PollInterval: f.interval,
			LogFile:      f.logFile,
		},
	}
}

// errListQueues marks a failed --list-queues call so it gets its own message.
type errListQueues struct{ err error }

func (e errListQueues) Error() string { return e.err.Error() }
func (e errListQueues) Unwrap() error { return e.err }

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "awsbw [flags]",
		Short: "Watch AWS Batch job queues from the terminal",
		Long: `awsbw is a terminal dashboard for AWS Batch.

Jobs from the selected queues are grouped into status columns and refreshed
in the background. Select a job to see its details, page through its
CloudWatch logs, or terminate it.

Queues may be given as names or glob patterns such as "prod-*".`,
		Example: `  awsbw -Q gpu-spot -Q cpu-ondemand
  awsbw -Q 'prod-*' -D 2 -i 30
  awsbw -L --profile research`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.options()
			if flags.listQueues {
				if err := listQueues(cmd.Context(), cmd.OutOrStdout(), opts); err != nil {
					return errListQueues{err}
				}
				return nil
			}
			err := runApp(cmd.Context(), opts)
			if errors.Is(err, app.ErrNoQueues) {
				return cmd.Help()
			}
			return err
		},
	}
	cmd.SetOut(stdout)

	f := cmd.Flags()
	f.StringSliceVarP(&flags.queues, "queue", "Q", nil, "job queue name or pattern to watch (repeatable)")
	f.BoolVarP(&flags.listQueues, "list-queues", "L", false, "list available job queues and exit")
	f.StringVarP(&flags.maxAgeDays, "max-age-days", "D", "", "hide jobs created more than this many days ago (default 7)")
	f.StringVarP(&flags.interval, "interval", "i", "", "seconds between refreshes (default 60, minimum 1)")
	f.StringVarP(&flags.profile, "profile", "p", "", "AWS shared config profile")
	f.StringVar(&flags.region, "region", "", "AWS region")
	f.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/awsbw/config.toml)")
	f.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/awsbw/prefs.toml)")
	f.StringVar(&flags.logFile, "log-file", "", "log file (default ~/.local/state/awsbw/awsbw.log)")

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var listErr errListQueues
	if errors.As(err, &listErr) {
		fmt.Fprintf(stderr, "Error loading queues from batch: %v\n", listErr.err)
		return 1
	}
	fmt.Fprintf(stderr, "awsbw: %v\n", err)
	return 1
}
