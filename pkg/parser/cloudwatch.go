package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/jmespath/go-jmespath"
)

// LogsAPI is the subset of the CloudWatch Logs API we use.
type LogsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// CloudWatchSource implements LineSource over a single CloudWatch Logs
// group. Events are fetched page by page within a time window and
// surfaced in the order the service returns them.
type CloudWatchSource struct {
	client  LogsAPI
	group   string
	startMs int64
	endMs   int64

	// query extracts the raw line from JSON-wrapped messages.
	// Container log shippers commonly wrap each line as JSON.
	query *jmespath.JMESPath

	buf  []string
	next *string
	done bool
	num  int
}

// NewCloudWatchSource creates a LineSource reading the given log group
// between start and end. query may be nil to use messages verbatim.
func NewCloudWatchSource(client LogsAPI, group string, start, end time.Time, query *jmespath.JMESPath) *CloudWatchSource {
	return &CloudWatchSource{
		client:  client,
		group:   group,
		startMs: start.UnixMilli(),
		endMs:   end.UnixMilli(),
		query:   query,
	}
}

// Next returns the next raw line from the log group.
// Returns io.EOF once all pages in the window have been consumed.
func (s *CloudWatchSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if len(s.buf) > 0 {
			text := s.buf[0]
			s.buf = s.buf[1:]
			s.num++
			return &Line{
				Text:   text,
				Source: s.group,
				Num:    s.num,
			}, nil
		}

		if s.done {
			return nil, io.EOF
		}

		if err := s.fetchPage(ctx); err != nil {
			return nil, err
		}
	}
}

// Close releases resources. CloudWatch sources hold none.
func (s *CloudWatchSource) Close() error {
	return nil
}

func (s *CloudWatchSource) fetchPage(ctx context.Context) error {
	out, err := s.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(s.group),
		StartTime:    aws.Int64(s.startMs),
		EndTime:      aws.Int64(s.endMs),
		NextToken:    s.next,
		Interleaved:  aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("reading log group %s: %w", s.group, err)
	}

	for _, e := range out.Events {
		s.buf = append(s.buf, s.messageText(aws.ToString(e.Message)))
	}

	// A missing or repeated token means the final page was served.
	if out.NextToken == nil || (s.next != nil && aws.ToString(out.NextToken) == aws.ToString(s.next)) {
		s.done = true
	}
	s.next = out.NextToken

	return nil
}

// messageText unwraps one event message. When a message query is
// configured and the message decodes as JSON, the query result replaces
// the raw text; anything else falls back to the message as-is.
func (s *CloudWatchSource) messageText(raw string) string {
	if s.query == nil {
		return raw
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}

	res, err := s.query.Search(decoded)
	if err != nil {
		return raw
	}

	if text, ok := res.(string); ok && text != "" {
		return text
	}
	return raw
}
