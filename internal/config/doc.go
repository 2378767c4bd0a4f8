// Package config loads awsbw settings from a TOML file and merges command
// line overrides on top.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/awsbw/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If fields are missing or empty, use their defaults
//
// Command line values are applied afterwards with Config.Apply, so a flag
// always wins over the file.
//
// # TOML Format
//
//	queues = ["prod-spot", "prod-*"]
//	profile = "research"
//	region = "us-west-2"
//	max_age_days = 7
//	poll_interval_seconds = 60
//	api_rate_limit = 5
//	request_timeout_seconds = 10
//	log_group = "/aws/batch/job"
//	log_file = "~/.local/state/awsbw/awsbw.log"
//	log_level = "info"
//
// Every field is optional. access_key_id and secret_access_key may be set to
// bypass the SDK credential chain; they must appear together.
//
// # Lenient Numbers
//
// The age and interval settings accept integers or numeric strings. Anything
// unparsable silently falls back to the documented default (7 days, 60
// seconds) instead of failing startup; ParseLenientInt implements that rule
// for command line strings. The interval is raised to one second when set
// lower.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - *ConfigError for values that cannot be defaulted, such as a lone access key
package config
