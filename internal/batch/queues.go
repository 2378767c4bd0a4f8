package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveQueues expands queue arguments into concrete queue names. Plain
// names pass through untouched without a service call; arguments carrying
// glob metacharacters ("prod-*", "{gpu,cpu}-spot") are matched against the
// queues the service lists. Order follows the arguments, then listing order
// within a pattern, with duplicates dropped.
func ResolveQueues(ctx context.Context, svc JobService, args []string) ([]string, error) {
	var available []string
	listed := false

	seen := make(map[string]bool, len(args))
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if !isPattern(arg) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid queue pattern %q", arg)
		}
		if !listed {
			names, err := svc.ListQueues(ctx)
			if err != nil {
				return nil, fmt.Errorf("list queues for pattern %q: %w", arg, err)
			}
			available = names
			listed = true
		}
		matched := false
		for _, name := range available {
			ok, err := doublestar.Match(arg, name)
			if err != nil {
				return nil, fmt.Errorf("match queue pattern %q: %w", arg, err)
			}
			if ok {
				matched = true
				add(name)
			}
		}
		if !matched {
			return nil, fmt.Errorf("no queues match pattern %q", arg)
		}
	}
	return out, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
