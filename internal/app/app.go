package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jgolob/awsbw/internal/batch"
	"github.com/jgolob/awsbw/internal/config"
	"github.com/jgolob/awsbw/internal/logging"
	"github.com/jgolob/awsbw/internal/prefs"
	"github.com/jgolob/awsbw/internal/state"
	"github.com/jgolob/awsbw/internal/ui"
)

// ErrNoQueues is returned when neither the command line nor the config file
// names a queue.
var ErrNoQueues = errors.New("no job queues selected")

// Options configure the awsbw application.
type Options struct {
	ConfigPath string // empty uses ~/.config/awsbw/config.toml
	PrefsPath  string // empty uses ~/.config/awsbw/prefs.toml
	Overrides  config.Overrides
}

// Services is the remote API surface the dashboard drives.
type Services interface {
	batch.JobService
	batch.LogService
}

// newServices builds the AWS-backed services; tests swap it for fakes.
var newServices = func(ctx context.Context, cfg batch.Config) (Services, error) {
	client, err := batch.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Run boots the dashboard and blocks until the user quits, the context is
// cancelled, or the poller dies.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if len(cfg.Queues) == 0 {
		return ErrNoQueues
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newServices(ctx, clientConfig(cfg))
	if err != nil {
		return fmt.Errorf("init aws client: %w", err)
	}

	queues, err := batch.ResolveQueues(ctx, svc, cfg.Queues)
	if err != nil {
		return fmt.Errorf("resolve queues: %w", err)
	}
	if len(queues) == 0 {
		return ErrNoQueues
	}

	prefsPath := resolvePrefsPath(opts)
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load preferences failed", zap.Error(err))
	}

	logger.Info("starting",
		zap.Strings("queues", queues),
		zap.String("profile", cfg.Profile),
		zap.String("region", cfg.Region),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int("max_age_days", cfg.MaxAgeDays),
	)

	store := &state.Store{}
	poller := StartPoller(ctx, PollerOptions{
		Service:   svc,
		Store:     store,
		Queues:    queues,
		Interval:  cfg.PollInterval,
		RateLimit: cfg.APIRateLimit,
		Logger:    logger,
	})
	defer poller.Stop()

	err = ui.Run(ui.Options{
		Context:        ctx,
		Jobs:           svc,
		Logs:           svc,
		Store:          store,
		Poller:         poller,
		Queues:         queues,
		MaxAgeDays:     cfg.MaxAgeDays,
		Prefs:          userPrefs,
		PrefsPath:      prefsPath,
		Logger:         logger.Named("ui"),
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Error("stopped", zap.Error(err))
		return err
	}
	logger.Info("stopped")
	return nil
}

// ListQueues prints every job queue visible to the configured account.
func ListQueues(ctx context.Context, w io.Writer, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	svc, err := newServices(ctx, clientConfig(cfg))
	if err != nil {
		return err
	}
	queues, err := svc.ListQueues(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Available batch queues:"); err != nil {
		return err
	}
	for _, q := range queues {
		if _, err := fmt.Fprintf(w, "\t%s\n", q); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.Apply(opts.Overrides)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolvePrefsPath picks the preferences file both for loading and for the
// saves the UI issues.
func resolvePrefsPath(opts Options) string {
	if opts.PrefsPath != "" {
		return opts.PrefsPath
	}
	return prefs.DefaultPath()
}

func clientConfig(cfg config.Config) batch.Config {
	return batch.Config{
		Profile:         cfg.Profile,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		LogGroup:        cfg.LogGroup,
		RequestTimeout:  cfg.RequestTimeout,
	}
}
