// Package batch defines the job model and the remote services the dashboard
// talks to.
//
// # Overview
//
// The package holds three things:
//
//   - types.go: Job, JobDetail, LogEvent and the fixed Status precedence
//   - service.go: the JobService and LogService interfaces plus pagination
//     and ordering helpers shared by the poller and the UI
//   - client.go: the AWS implementation on Batch and CloudWatch Logs
//
// # Result Semantics
//
// ListAllJobs returns a ListResult that keeps "nothing matched" (empty Jobs,
// nil Err) apart from "the call failed" (non-nil Err). Callers decide whether
// to treat a failure as an empty contribution; the poller does.
//
// # Errors
//
// Every SDK failure is wrapped in *ServiceError. Its Kind is derived from the
// smithy API error code and matches one of the package sentinels:
//
//	if batch.IsThrottled(err) {
//		// back off
//	}
//
// # Queue Patterns
//
// ResolveQueues accepts doublestar globs so an operator can watch
// "prod-*" without naming every queue. Plain names never trigger a
// DescribeJobQueues call.
package batch
