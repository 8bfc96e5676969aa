// Package awsclient builds the KMS and S3 clients, pointing them at
// LocalStack when running locally.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"statuslist/internal/platform/config"
)

// LocalStack accepts any static credentials.
const (
	localAccessKey = "test"
	localSecretKey = "test"
)

type Clients struct {
	KMS *kms.Client
	S3  *s3.Client
}

// Load resolves the shared AWS config. Locally it swaps the default
// credential chain for static LocalStack credentials.
func Load(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.IsLocal {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(localAccessKey, localSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

func New(awsCfg aws.Config, cfg config.AWSConfig) *Clients {
	return &Clients{
		KMS: kms.NewFromConfig(awsCfg, KMSOptions(cfg)),
		S3:  s3.NewFromConfig(awsCfg, S3Options(cfg)),
	}
}

func KMSOptions(cfg config.AWSConfig) func(*kms.Options) {
	return func(o *kms.Options) {
		if cfg.IsLocal && cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}
}

// S3Options uses path-style addressing locally; LocalStack does not serve
// virtual-hosted buckets on a bare host.
func S3Options(cfg config.AWSConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		if cfg.IsLocal && cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}
}
