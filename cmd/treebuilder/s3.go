package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/pkg/sink"
)

const defaultRegion = "us-east-1"

// newS3API builds the client used for s3:// outputs. Tests replace it.
var newS3API = func(st config.StorageConfig) sink.PutObjectAPI {
	return newS3Client(st)
}

// newS3Client creates an S3 client from the storage configuration.
// Credentials come from the standard AWS_* environment variables.
func newS3Client(st config.StorageConfig) *s3.Client {
	region := st.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = defaultRegion
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if st.Endpoint != "" {
		opts.BaseEndpoint = aws.String(st.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}

// parseS3URL splits s3://bucket/key. ok is false when s is not an S3 URL.
func parseS3URL(s string) (bucket, key string, ok bool, err error) {
	rest, found := strings.CutPrefix(s, "s3://")
	if !found {
		return "", "", false, nil
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", true, fmt.Errorf("invalid S3 location %q: want s3://bucket/key", s)
	}
	return bucket, key, true, nil
}
