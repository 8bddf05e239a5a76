package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileFetcher copies from a local directory tree laid out as
// <root>/<bucket>/<key>, for hosts that receive certificates by file share.
type FileFetcher struct {
	root string
}

// NewFileFetcher creates a fetcher reading below root
func NewFileFetcher(root string) *FileFetcher {
	return &FileFetcher{root: root}
}

// Name returns the backend name
func (f *FileFetcher) Name() string {
	return "file"
}

// Fetch copies the object into destDir
func (f *FileFetcher) Fetch(ctx context.Context, bucket, key, destDir string) (string, error) {
	dest, err := Destination(key, destDir)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fetchFailed(err)
	}
	if err := copyFile(f.source(bucket, key), dest); err != nil {
		return "", fetchFailed(err)
	}
	return dest, nil
}

// Describe returns the copy Fetch would perform
func (f *FileFetcher) Describe(bucket, key, destDir string) string {
	dest, err := Destination(key, destDir)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("copy %s -> %s", f.source(bucket, key), dest)
}

func (f *FileFetcher) source(bucket, key string) string {
	return filepath.Join(f.root, bucket, filepath.FromSlash(key))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
