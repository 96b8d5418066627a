package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/jmespath/go-jmespath"
)

type fakeLogsAPI struct {
	pages  []*cloudwatchlogs.FilterLogEventsOutput
	err    error
	inputs []*cloudwatchlogs.FilterLogEventsInput
}

func (f *fakeLogsAPI) FilterLogEvents(ctx context.Context, in *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	call := len(f.inputs) - 1
	if call >= len(f.pages) {
		return &cloudwatchlogs.FilterLogEventsOutput{}, nil
	}
	return f.pages[call], nil
}

func event(msg string) cwtypes.FilteredLogEvent {
	return cwtypes.FilteredLogEvent{Message: aws.String(msg)}
}

func TestCloudWatchSource_Paginates(t *testing.T) {
	f := &fakeLogsAPI{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{
			{
				Events:    []cwtypes.FilteredLogEvent{event("11:00:00,job a,START,1"), event("11:01:00,job a,END,1")},
				NextToken: aws.String("page2"),
			},
			{
				Events: []cwtypes.FilteredLogEvent{event("11:02:00,job b,START,2")},
			},
		},
	}

	now := time.Now()
	source := NewCloudWatchSource(f, "/batch/jobs", now.Add(-time.Hour), now, nil)
	defer source.Close()

	lines := drainSource(t, source)
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}
	if len(f.inputs) != 2 {
		t.Fatalf("Got %d FilterLogEvents calls, want 2", len(f.inputs))
	}

	if got := aws.ToString(f.inputs[1].NextToken); got != "page2" {
		t.Errorf("second call NextToken = %q, want %q", got, "page2")
	}
	if lines[0].Source != "/batch/jobs" {
		t.Errorf("Source = %q, want %q", lines[0].Source, "/batch/jobs")
	}
	if lines[2].Num != 3 {
		t.Errorf("Num = %d, want 3", lines[2].Num)
	}
}

func TestCloudWatchSource_TimeWindow(t *testing.T) {
	f := &fakeLogsAPI{pages: []*cloudwatchlogs.FilterLogEventsOutput{{}}}

	end := time.Unix(1_700_000_000, 0)
	start := end.Add(-24 * time.Hour)
	source := NewCloudWatchSource(f, "/batch/jobs", start, end, nil)
	defer source.Close()

	drainSource(t, source)

	if len(f.inputs) == 0 {
		t.Fatal("no FilterLogEvents calls made")
	}
	in := f.inputs[0]
	if aws.ToInt64(in.StartTime) != start.UnixMilli() {
		t.Errorf("StartTime = %d, want %d", aws.ToInt64(in.StartTime), start.UnixMilli())
	}
	if aws.ToInt64(in.EndTime) != end.UnixMilli() {
		t.Errorf("EndTime = %d, want %d", aws.ToInt64(in.EndTime), end.UnixMilli())
	}
	if aws.ToString(in.LogGroupName) != "/batch/jobs" {
		t.Errorf("LogGroupName = %q, want %q", aws.ToString(in.LogGroupName), "/batch/jobs")
	}
}

func TestCloudWatchSource_StopsOnRepeatedToken(t *testing.T) {
	f := &fakeLogsAPI{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{
			{Events: []cwtypes.FilteredLogEvent{event("line one")}, NextToken: aws.String("t")},
			{Events: []cwtypes.FilteredLogEvent{event("line two")}, NextToken: aws.String("t")},
		},
	}

	now := time.Now()
	source := NewCloudWatchSource(f, "/batch/jobs", now.Add(-time.Hour), now, nil)
	defer source.Close()

	lines := drainSource(t, source)
	if len(lines) != 2 {
		t.Errorf("Got %d lines, want 2", len(lines))
	}
	if len(f.inputs) != 2 {
		t.Errorf("Got %d calls, want 2 (repeated token must stop pagination)", len(f.inputs))
	}
}

func TestCloudWatchSource_MessageQuery(t *testing.T) {
	query := jmespath.MustCompile("log")
	f := &fakeLogsAPI{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{
			{
				Events: []cwtypes.FilteredLogEvent{
					event(`{"log":"11:00:00,wrapped job,START,9","stream":"stdout"}`),
					event("11:01:00,plain job,END,9"),
					event(`{"stream":"stderr"}`),
				},
			},
		},
	}

	now := time.Now()
	source := NewCloudWatchSource(f, "/batch/jobs", now.Add(-time.Hour), now, query)
	defer source.Close()

	lines := drainSource(t, source)
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}

	if lines[0].Text != "11:00:00,wrapped job,START,9" {
		t.Errorf("wrapped message Text = %q, want extracted line", lines[0].Text)
	}
	// Non-JSON messages pass through untouched.
	if lines[1].Text != "11:01:00,plain job,END,9" {
		t.Errorf("plain message Text = %q, want raw line", lines[1].Text)
	}
	// JSON without the queried field falls back to the raw message.
	if lines[2].Text != `{"stream":"stderr"}` {
		t.Errorf("unmatched message Text = %q, want raw message", lines[2].Text)
	}
}

func TestCloudWatchSource_PropagatesAPIError(t *testing.T) {
	f := &fakeLogsAPI{err: errors.New("boom")}

	now := time.Now()
	source := NewCloudWatchSource(f, "/batch/jobs", now.Add(-time.Hour), now, nil)
	defer source.Close()

	_, err := source.Next(context.Background())
	if err == nil {
		t.Fatal("Next() expected error")
	}
	if !strings.Contains(err.Error(), "/batch/jobs") {
		t.Errorf("error %q does not name the log group", err)
	}
}
