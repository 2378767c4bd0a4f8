package batch

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a job as reported by the Job Service.
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusRunnable  Status = "RUNNABLE"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusStarting  Status = "STARTING"
)

// Statuses is the fixed status precedence used for polling and for grid columns.
var Statuses = []Status{
	StatusRunning,
	StatusRunnable,
	StatusSucceeded,
	StatusFailed,
	StatusStarting,
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a service status string onto a known Status.
func ParseStatus(value string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(value)))
	for _, s := range Statuses {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// Job is one job's status as captured by a poll cycle. Values are never
// mutated after the poller creates them.
type Job struct {
	ID           string
	Name         string
	Queue        string
	Status       Status
	CreatedAt    int64 // epoch milliseconds
	StartedAt    *int64
	StoppedAt    *int64
	StatusReason *string
}

// Created returns CreatedAt as a time.Time.
func (j Job) Created() time.Time {
	return time.UnixMilli(j.CreatedAt)
}

// Started returns the start time when the job has one.
func (j Job) Started() (time.Time, bool) {
	return optionalMillis(j.StartedAt)
}

// Stopped returns the stop time when the job has one.
func (j Job) Stopped() (time.Time, bool) {
	return optionalMillis(j.StoppedAt)
}

// Reason returns the status reason, or empty when none was reported.
func (j Job) Reason() string {
	if j.StatusReason == nil {
		return ""
	}
	return *j.StatusReason
}

func optionalMillis(v *int64) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*v), true
}

// JobPage is one page of a ListJobs call.
type JobPage struct {
	Jobs      []Job
	NextToken string
}

// ListResult is the outcome of fetching every page for one queue/status pair.
// An empty Jobs slice with a nil Err means nothing matched; a non-nil Err
// means the fetch failed and Jobs holds whatever arrived before the failure.
type ListResult struct {
	Queue  string
	Status Status
	Jobs   []Job
	Pages  int
	Err    error
}

// Failed reports whether the fetch ended in an error.
func (r ListResult) Failed() bool {
	return r.Err != nil
}

// JobDetail is the extended description returned by DescribeJob.
type JobDetail struct {
	ID             string
	DefinitionName string
	Image          string
	VCPUs          int32
	MemoryMB       int64
	Command        []string
	LogStreamName  string
}

// LogEvent is a single CloudWatch log line.
type LogEvent struct {
	Timestamp int64 // epoch milliseconds
	Message   string
}

// Time returns the event timestamp as a time.Time.
func (e LogEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// definitionName strips the ARN prefix from a job definition reference,
// e.g. "arn:aws:batch:...:job-definition/align:3" -> "align:3".
func definitionName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
