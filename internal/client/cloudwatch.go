// Package client builds AWS service clients from local configuration.
package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// Options selects how AWS configuration is resolved.
type Options struct {
	// Region overrides the region from the environment or profile.
	Region string

	// Profile selects a shared config profile. Empty uses the default
	// credential chain.
	Profile string
}

// LoadOptions converts Options into AWS config load options.
func LoadOptions(opts Options) []func(*config.LoadOptions) error {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	return loadOpts
}

// NewCloudWatchLogs loads AWS configuration and returns a CloudWatch
// Logs client. Region and profile may both be empty to use default
// resolution.
func NewCloudWatchLogs(ctx context.Context, opts Options) (*cloudwatchlogs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, LoadOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}
