package store

import (
	"context"
	"fmt"
)

// MockFetcher is a test double for Fetcher
type MockFetcher struct {
	// FetchFunc, when set, replaces the default behavior of returning the
	// destination path without touching the filesystem
	FetchFunc func(ctx context.Context, bucket, key, destDir string) (string, error)

	Calls []FetchCall
}

// FetchCall records arguments passed to Fetch
type FetchCall struct {
	Bucket  string
	Key     string
	DestDir string
}

// Name returns the backend name
func (m *MockFetcher) Name() string {
	return "mock"
}

// Fetch records the call and invokes the mock function if set
func (m *MockFetcher) Fetch(ctx context.Context, bucket, key, destDir string) (string, error) {
	m.Calls = append(m.Calls, FetchCall{Bucket: bucket, Key: key, DestDir: destDir})
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, bucket, key, destDir)
	}
	return Destination(key, destDir)
}

// Describe returns a fixed description
func (m *MockFetcher) Describe(bucket, key, destDir string) string {
	return fmt.Sprintf("mock fetch %s/%s -> %s", bucket, key, destDir)
}
