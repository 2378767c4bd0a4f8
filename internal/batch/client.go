package batch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsbatch "github.com/aws/aws-sdk-go-v2/service/batch"
	batchtypes "github.com/aws/aws-sdk-go-v2/service/batch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

const (
	// DefaultLogGroup is where AWS Batch sends container output.
	DefaultLogGroup = "/aws/batch/job"

	// DefaultRequestTimeout bounds every individual service call.
	DefaultRequestTimeout = 10 * time.Second

	listPageSize = 100
)

// batchAPI is the slice of the Batch SDK client used here.
type batchAPI interface {
	ListJobs(ctx context.Context, in *awsbatch.ListJobsInput, optFns ...func(*awsbatch.Options)) (*awsbatch.ListJobsOutput, error)
	DescribeJobs(ctx context.Context, in *awsbatch.DescribeJobsInput, optFns ...func(*awsbatch.Options)) (*awsbatch.DescribeJobsOutput, error)
	TerminateJob(ctx context.Context, in *awsbatch.TerminateJobInput, optFns ...func(*awsbatch.Options)) (*awsbatch.TerminateJobOutput, error)
	DescribeJobQueues(ctx context.Context, in *awsbatch.DescribeJobQueuesInput, optFns ...func(*awsbatch.Options)) (*awsbatch.DescribeJobQueuesOutput, error)
}

// logsAPI is the slice of the CloudWatch Logs SDK client used here.
type logsAPI interface {
	GetLogEvents(ctx context.Context, in *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// Config selects credentials and endpoints for the AWS services.
//
// Authentication follows the SDK default chain unless explicit keys are set:
// environment, shared credentials file, shared config profile, then instance
// or task role.
type Config struct {
	// Profile is the shared config profile; empty uses the default profile.
	Profile string

	// Region overrides the region resolved from env/profile.
	Region string

	// AccessKeyID and SecretAccessKey are optional static credentials. Both or
	// neither must be set.
	AccessKeyID     string
	SecretAccessKey string

	// LogGroup is the CloudWatch log group holding job streams.
	LogGroup string

	// RequestTimeout bounds each call; zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Client implements JobService and LogService on AWS Batch and CloudWatch Logs.
type Client struct {
	batch    batchAPI
	logs     logsAPI
	logGroup string
	timeout  time.Duration
}

// NewClient loads AWS configuration and builds service clients. An unknown
// profile or unusable shared config surfaces here, before the UI starts.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if (cfg.AccessKeyID != "") != (cfg.SecretAccessKey != "") {
		return nil, fmt.Errorf("aws config: both access key id and secret access key must be provided together")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newClient(awsbatch.NewFromConfig(awsCfg), cloudwatchlogs.NewFromConfig(awsCfg), cfg), nil
}

func newClient(b batchAPI, l logsAPI, cfg Config) *Client {
	group := strings.TrimSpace(cfg.LogGroup)
	if group == "" {
		group = DefaultLogGroup
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{batch: b, logs: l, logGroup: group, timeout: timeout}
}

// ListJobs returns one page of jobs for the queue and status.
func (c *Client) ListJobs(ctx context.Context, queue string, status Status, pageToken string) (JobPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	in := &awsbatch.ListJobsInput{
		JobQueue:   aws.String(queue),
		JobStatus:  batchtypes.JobStatus(status),
		MaxResults: aws.Int32(listPageSize),
	}
	if pageToken != "" {
		in.NextToken = aws.String(pageToken)
	}

	out, err := c.batch.ListJobs(ctx, in)
	if err != nil {
		return JobPage{}, wrapError("ListJobs", queue+"/"+status.String(), err)
	}

	page := JobPage{
		Jobs:      make([]Job, 0, len(out.JobSummaryList)),
		NextToken: aws.ToString(out.NextToken),
	}
	for _, s := range out.JobSummaryList {
		job := Job{
			ID:        aws.ToString(s.JobId),
			Name:      aws.ToString(s.JobName),
			Queue:     queue,
			Status:    status,
			CreatedAt: aws.ToInt64(s.CreatedAt),
			StartedAt: s.StartedAt,
			StoppedAt: s.StoppedAt,
		}
		if parsed, ok := ParseStatus(string(s.Status)); ok {
			job.Status = parsed
		}
		if s.StatusReason != nil && *s.StatusReason != "" {
			job.StatusReason = s.StatusReason
		}
		page.Jobs = append(page.Jobs, job)
	}
	return page, nil
}

// DescribeJob fetches the extended detail for a single job.
func (c *Client) DescribeJob(ctx context.Context, jobID string) (JobDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.batch.DescribeJobs(ctx, &awsbatch.DescribeJobsInput{Jobs: []string{jobID}})
	if err != nil {
		return JobDetail{}, wrapError("DescribeJobs", jobID, err)
	}
	if len(out.Jobs) == 0 {
		return JobDetail{}, &ServiceError{Op: "DescribeJobs", Target: jobID, Kind: ErrNotFound, Err: ErrNotFound}
	}
	return detailFromSDK(out.Jobs[0]), nil
}

func detailFromSDK(j batchtypes.JobDetail) JobDetail {
	detail := JobDetail{
		ID:             aws.ToString(j.JobId),
		DefinitionName: definitionName(aws.ToString(j.JobDefinition)),
	}
	ctr := j.Container
	if ctr == nil {
		return detail
	}
	detail.Image = aws.ToString(ctr.Image)
	detail.VCPUs = aws.ToInt32(ctr.Vcpus)
	detail.MemoryMB = int64(aws.ToInt32(ctr.Memory))
	detail.Command = append([]string(nil), ctr.Command...)
	detail.LogStreamName = aws.ToString(ctr.LogStreamName)

	// Newer job definitions declare vcpu/memory only as resource requirements.
	for _, rr := range ctr.ResourceRequirements {
		value := strings.TrimSpace(aws.ToString(rr.Value))
		switch string(rr.Type) {
		case "VCPU":
			if detail.VCPUs == 0 {
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					detail.VCPUs = int32(f)
				}
			}
		case "MEMORY":
			if detail.MemoryMB == 0 {
				if n, err := strconv.ParseInt(value, 10, 64); err == nil {
					detail.MemoryMB = n
				}
			}
		}
	}
	return detail
}

// TerminateJob asks the service to terminate the job.
func (c *Client) TerminateJob(ctx context.Context, jobID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.batch.TerminateJob(ctx, &awsbatch.TerminateJobInput{
		JobId:  aws.String(jobID),
		Reason: aws.String(reason),
	})
	return wrapError("TerminateJob", jobID, err)
}

// ListQueues returns every job queue name visible to the caller.
func (c *Client) ListQueues(ctx context.Context) ([]string, error) {
	var names []string
	var token *string
	for page := 0; page < maxPages; page++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.batch.DescribeJobQueues(callCtx, &awsbatch.DescribeJobQueuesInput{NextToken: token})
		cancel()
		if err != nil {
			return nil, wrapError("DescribeJobQueues", "", err)
		}
		for _, q := range out.JobQueues {
			if name := aws.ToString(q.JobQueueName); name != "" {
				names = append(names, name)
			}
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		token = out.NextToken
	}
	return names, nil
}

// GetLogEvents fetches one batch of events for the stream, ordered per fromHead.
func (c *Client) GetLogEvents(ctx context.Context, streamName string, fromHead bool) ([]LogEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.logs.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(c.logGroup),
		LogStreamName: aws.String(streamName),
		StartFromHead: aws.Bool(fromHead),
	})
	if err != nil {
		return nil, wrapError("GetLogEvents", streamName, err)
	}

	events := make([]LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, LogEvent{
			Timestamp: aws.ToInt64(e.Timestamp),
			Message:   aws.ToString(e.Message),
		})
	}
	SortLogEvents(events, fromHead)
	return events, nil
}
