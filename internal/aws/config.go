package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const defaultRegion = "us-east-1"

func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion // default fallback
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// EndpointOverride returns the endpoint every service client should target
// instead of the real AWS endpoints. Set AWS_ENDPOINT_OVERRIDE to the
// LocalStack edge URL (http://localhost:4566) for local runs.
func EndpointOverride() string {
	return os.Getenv("AWS_ENDPOINT_OVERRIDE")
}
