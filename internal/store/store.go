// Package store downloads the certificate bundle from an object store into
// the local staging directory.
package store

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
)

// Fetcher copies one object into a local directory
type Fetcher interface {
	// Name returns the backend name (s3, azblob, file)
	Name() string

	// Fetch downloads bucket/key to destDir/<base name of key> and returns that path
	Fetch(ctx context.Context, bucket, key, destDir string) (string, error)

	// Describe returns a human-readable form of the operation, for dry runs
	Describe(bucket, key, destDir string) string
}

// Destination returns the local path an object is fetched to
func Destination(key, destDir string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	base := path.Base(key)
	if key == "" || strings.HasSuffix(key, "/") || base == "." || base == ".." {
		return "", deployerrors.Validation(fmt.Sprintf("object key %q has no file name", key))
	}
	return filepath.Join(destDir, base), nil
}

func fetchFailed(err error) error {
	return deployerrors.Wrap(deployerrors.ErrCodeExecution, deployerrors.ErrFetchFailed.Message, err)
}
