package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved awsbw configuration after file values, defaults and
// command line overrides have been merged.
type Config struct {
	Queues          []string
	Profile         string
	Region          string
	MaxAgeDays      int
	PollInterval    time.Duration
	APIRateLimit    float64 // requests per second, 0 disables limiting
	RequestTimeout  time.Duration
	LogGroup        string
	LogFile         string
	LogLevel        string
	AccessKeyID     string
	SecretAccessKey string
}

const (
	defaultConfigPath     = "~/.config/awsbw/config.toml"
	defaultLogFile        = "~/.local/state/awsbw/awsbw.log"
	defaultLogGroup       = "/aws/batch/job"
	defaultLogLevel       = "info"
	defaultMaxAgeDays     = 7
	defaultIntervalSecs   = 60
	defaultTimeoutSecs    = 10
	defaultAPIRateLimit   = 5.0
	minimumIntervalSecond = 1
)

// ConfigError reports a configuration value that has no usable fallback.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Overrides carries command line values. Empty strings and nil slices leave
// the file value in place.
type Overrides struct {
	Queues       []string
	Profile      string
	Region       string
	MaxAgeDays   string
	PollInterval string
	LogFile      string
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MaxAgeDays:     defaultMaxAgeDays,
		PollInterval:   defaultIntervalSecs * time.Second,
		APIRateLimit:   defaultAPIRateLimit,
		RequestTimeout: defaultTimeoutSecs * time.Second,
		LogGroup:       defaultLogGroup,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load reads the TOML config at path (or the default location), falling back
// to defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Numeric fields are decoded as any so "7", 7 and 7.0 are all accepted
	// and anything else falls back to the default.
	var raw struct {
		Queues          []string `toml:"queues"`
		Profile         string   `toml:"profile"`
		Region          string   `toml:"region"`
		MaxAgeDays      any      `toml:"max_age_days"`
		PollInterval    any      `toml:"poll_interval_seconds"`
		APIRateLimit    any      `toml:"api_rate_limit"`
		RequestTimeout  any      `toml:"request_timeout_seconds"`
		LogGroup        string   `toml:"log_group"`
		LogFile         string   `toml:"log_file"`
		LogLevel        string   `toml:"log_level"`
		AccessKeyID     string   `toml:"access_key_id"`
		SecretAccessKey string   `toml:"secret_access_key"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Queues = cleanList(raw.Queues)
	cfg.Profile = strings.TrimSpace(raw.Profile)
	cfg.Region = strings.TrimSpace(raw.Region)
	cfg.MaxAgeDays = nonNegative(lenientInt(raw.MaxAgeDays, defaultMaxAgeDays), defaultMaxAgeDays)
	cfg.PollInterval = intervalSeconds(lenientInt(raw.PollInterval, defaultIntervalSecs))
	cfg.RequestTimeout = time.Duration(positive(lenientInt(raw.RequestTimeout, defaultTimeoutSecs), defaultTimeoutSecs)) * time.Second
	cfg.APIRateLimit = lenientFloat(raw.APIRateLimit, defaultAPIRateLimit)

	if v := strings.TrimSpace(raw.LogGroup); v != "" {
		cfg.LogGroup = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.AccessKeyID = strings.TrimSpace(raw.AccessKeyID)
	cfg.SecretAccessKey = strings.TrimSpace(raw.SecretAccessKey)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply merges command line overrides into c. Numeric strings use the
// lenient policy: anything unparsable falls back to the documented default.
func (c Config) Apply(o Overrides) Config {
	if queues := cleanList(o.Queues); len(queues) > 0 {
		c.Queues = queues
	}
	if v := strings.TrimSpace(o.Profile); v != "" {
		c.Profile = v
	}
	if v := strings.TrimSpace(o.Region); v != "" {
		c.Region = v
	}
	if strings.TrimSpace(o.MaxAgeDays) != "" {
		c.MaxAgeDays = nonNegative(ParseLenientInt(o.MaxAgeDays, defaultMaxAgeDays), defaultMaxAgeDays)
	}
	if strings.TrimSpace(o.PollInterval) != "" {
		c.PollInterval = intervalSeconds(ParseLenientInt(o.PollInterval, defaultIntervalSecs))
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	return c
}

// Validate reports values that cannot be defaulted away.
func (c Config) Validate() error {
	if (c.AccessKeyID != "") != (c.SecretAccessKey != "") {
		return &ConfigError{Field: "access_key_id", Message: "access_key_id and secret_access_key must be set together"}
	}
	return nil
}

// ParseLenientInt parses s as a base 10 integer, returning def when s is
// empty or not a number.
func ParseLenientInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func lenientInt(v any, def int) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return def
		}
		return int(n)
	case string:
		return ParseLenientInt(n, def)
	}
	return def
}

func lenientFloat(v any, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return def
	}
	return f
}

func intervalSeconds(n int) time.Duration {
	if n < minimumIntervalSecond {
		n = minimumIntervalSecond
	}
	return time.Duration(n) * time.Second
}

func nonNegative(n, def int) int {
	if n < 0 {
		return def
	}
	return n
}

func positive(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// cleanList trims entries, splits space separated values and drops empties.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, strings.Fields(item)...)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
