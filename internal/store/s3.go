package store

import (
	"context"
	"fmt"

	"github.com/ksyq12/certdeploy/internal/executor"
)

// S3CLIFetcher downloads with `aws s3 cp`, using whatever credentials the
// AWS CLI resolves (profile, instance role, environment).
type S3CLIFetcher struct {
	binary string
	exec   executor.CommandExecutor
}

// NewS3CLIFetcher creates a fetcher running the given aws binary
func NewS3CLIFetcher(binary string) *S3CLIFetcher {
	return NewS3CLIFetcherWithExecutor(binary, executor.NewSystemExecutor())
}

// NewS3CLIFetcherWithExecutor creates a fetcher with a custom executor (for testing)
func NewS3CLIFetcherWithExecutor(binary string, exec executor.CommandExecutor) *S3CLIFetcher {
	if binary == "" {
		binary = "aws"
	}
	return &S3CLIFetcher{binary: binary, exec: exec}
}

// Name returns the backend name
func (s *S3CLIFetcher) Name() string {
	return "s3"
}

// Fetch runs aws s3 cp. Any non-zero exit is a fetch failure; nothing is retried.
func (s *S3CLIFetcher) Fetch(ctx context.Context, bucket, key, destDir string) (string, error) {
	dest, err := Destination(key, destDir)
	if err != nil {
		return "", err
	}
	if _, err := executor.Run(s.exec, nil, s.binary, s.args(bucket, key, dest)...); err != nil {
		return "", fetchFailed(err)
	}
	return dest, nil
}

// Describe returns the command Fetch would run
func (s *S3CLIFetcher) Describe(bucket, key, destDir string) string {
	dest, err := Destination(key, destDir)
	if err != nil {
		return err.Error()
	}
	return executor.FormatCommand(nil, s.binary, s.args(bucket, key, dest)...)
}

// Available checks that the aws CLI is on PATH
func (s *S3CLIFetcher) Available() error {
	_, err := s.exec.LookPath(s.binary)
	return err
}

func (s *S3CLIFetcher) args(bucket, key, dest string) []string {
	return []string{"s3", "cp", URI(bucket, key), dest, "--only-show-errors"}
}

// URI returns the s3:// form of an object location
func URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
