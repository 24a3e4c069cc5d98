package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/fibre/internal/config"
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/snapshot"
)

// openStore selects S3 when a bucket is configured and the snapshot
// directory otherwise.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	sc := cfg.Snapshot
	if sc.Bucket == "" {
		return snapshot.NewDirStore(sc.Dir)
	}

	opts := s3.Options{
		Region:      sc.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if sc.Endpoint != "" {
		opts.BaseEndpoint = aws.String(sc.Endpoint)
		opts.UsePathStyle = true
	}
	return snapshot.NewS3Store(s3.New(opts), sc.Bucket, sc.Prefix)
}

// envCredentials reads static credentials from the standard AWS variables.
func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New(errors.CodeSnapshotConfig).
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for S3 snapshots")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
