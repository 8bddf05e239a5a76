package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/ksyq12/certdeploy/internal/logger"
)

// blobDownloader is the part of *azblob.Client the fetcher uses
type blobDownloader interface {
	DownloadFile(ctx context.Context, containerName string, blobName string, file *os.File, o *azblob.DownloadFileOptions) (int64, error)
}

var _ blobDownloader = &azblob.Client{}

// AzureBlobFetcher downloads from Azure Blob Storage. The bucket is the
// container name.
type AzureBlobFetcher struct {
	accountURL string
	client     blobDownloader
}

// NewAzureBlobFetcher creates a fetcher for the storage account at accountURL
// authenticating with cred
func NewAzureBlobFetcher(accountURL string, cred azcore.TokenCredential) (*AzureBlobFetcher, error) {
	if accountURL == "" {
		return nil, fmt.Errorf("azure account URL not configured (azure.account_url)")
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &AzureBlobFetcher{accountURL: accountURL, client: client}, nil
}

// NewAzureBlobFetcherFromEnvironment uses azidentity's default credential
// chain (environment, workload identity, managed identity, Azure CLI)
func NewAzureBlobFetcherFromEnvironment(accountURL string) (*AzureBlobFetcher, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	return NewAzureBlobFetcher(accountURL, cred)
}

// Name returns the backend name
func (a *AzureBlobFetcher) Name() string {
	return "azblob"
}

// Fetch downloads container/blob. A partially written file is removed on failure.
func (a *AzureBlobFetcher) Fetch(ctx context.Context, container, blob, destDir string) (string, error) {
	dest, err := Destination(blob, destDir)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fetchFailed(err)
	}

	n, err := a.client.DownloadFile(ctx, container, blob, f, nil)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(dest); rerr != nil {
			logger.LogError(rerr, "Failed to remove partial download")
		}
		return "", fetchFailed(fmt.Errorf("%s: %w", a.Describe(container, blob, destDir), err))
	}

	logger.DebugFields("Blob downloaded", map[string]interface{}{
		"container": container,
		"blob":      blob,
		"bytes":     n,
	})
	return dest, nil
}

// Describe returns the blob URL and destination
func (a *AzureBlobFetcher) Describe(container, blob, destDir string) string {
	dest, err := Destination(blob, destDir)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("download %s%s/%s -> %s", ensureSlash(a.accountURL), container, blob, dest)
}

func ensureSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
