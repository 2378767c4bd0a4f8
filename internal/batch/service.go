package batch

import (
	"cmp"
	"context"
	"slices"
)

// JobService is the subset of the remote batch API the dashboard consumes.
// *Client implements it; tests substitute fakes.
type JobService interface {
	ListJobs(ctx context.Context, queue string, status Status, pageToken string) (JobPage, error)
	DescribeJob(ctx context.Context, jobID string) (JobDetail, error)
	TerminateJob(ctx context.Context, jobID, reason string) error
	ListQueues(ctx context.Context) ([]string, error)
}

// LogService retrieves job log events.
type LogService interface {
	GetLogEvents(ctx context.Context, streamName string, fromHead bool) ([]LogEvent, error)
}

// Ensure Client implements both services at compile time.
var (
	_ JobService = (*Client)(nil)
	_ LogService = (*Client)(nil)
)

// WaitFunc is called before every page request. A non-nil error aborts the
// listing; the poller passes a rate limiter's Wait here.
type WaitFunc func(ctx context.Context) error

// maxPages bounds pagination so a misbehaving token loop cannot pin the poller.
const maxPages = 1000

// ListAllJobs follows pagination tokens until none remain and tags every
// record with its source queue.
func ListAllJobs(ctx context.Context, svc JobService, queue string, status Status, wait WaitFunc) ListResult {
	result := ListResult{Queue: queue, Status: status}
	token := ""
	for result.Pages < maxPages {
		if wait != nil {
			if err := wait(ctx); err != nil {
				result.Err = err
				return result
			}
		}
		page, err := svc.ListJobs(ctx, queue, status, token)
		if err != nil {
			result.Err = err
			return result
		}
		result.Pages++
		for _, j := range page.Jobs {
			j.Queue = queue
			if j.Status == "" {
				j.Status = status
			}
			result.Jobs = append(result.Jobs, j)
		}
		if page.NextToken == "" {
			return result
		}
		token = page.NextToken
	}
	return result
}

// SortNewestFirst orders jobs by CreatedAt descending, keeping fetch order
// for equal timestamps.
func SortNewestFirst(jobs []Job) {
	slices.SortStableFunc(jobs, func(a, b Job) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
}

// SortLogEvents orders events ascending by time when fromHead is set and
// newest first otherwise.
func SortLogEvents(events []LogEvent, fromHead bool) {
	slices.SortStableFunc(events, func(a, b LogEvent) int {
		if fromHead {
			return cmp.Compare(a.Timestamp, b.Timestamp)
		}
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
}
