package cli

import (
	"os"

	"github.com/ksyq12/certdeploy/internal/config"
	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/secret"
	"github.com/ksyq12/certdeploy/internal/service"
	"github.com/ksyq12/certdeploy/internal/store"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader     ConfigLoader
	PlatformDetector PlatformDetector
	FetcherFactory   FetcherFactory
	ServiceFactory   ServiceFactory
	Executor         executor.CommandExecutor // keytool and tool lookups
	Keyring          secret.Keyring
	StdinReader      input.Reader
	Getenv           func(string) string
}

// ConfigLoader handles profile loading and saving
type ConfigLoader interface {
	// Load reads the profile at path, or the default profile when path is empty
	Load(path string) (*config.Config, error)
	Save(cfg *config.Config) error
}

// PlatformDetector handles platform detection
type PlatformDetector interface {
	Detect() (*platform.Platform, error)
}

// FetcherFactory creates the object-store backend named by kind
type FetcherFactory interface {
	Create(kind string, cfg *config.Config, p *platform.Platform) (store.Fetcher, error)
}

// ServiceFactory creates the service manager for a platform
type ServiceFactory interface {
	Create(kind string) (service.Manager, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:     &realConfigLoader{},
	PlatformDetector: &realPlatformDetector{},
	FetcherFactory:   &realFetcherFactory{},
	ServiceFactory:   &realServiceFactory{},
	Executor:         executor.NewSystemExecutor(),
	Keyring:          secret.OSKeyring{},
	StdinReader:      input.NewStdinReader(),
	Getenv:           os.Getenv,
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realPlatformDetector struct{}

func (r *realPlatformDetector) Detect() (*platform.Platform, error) {
	p, err := platform.Detect()
	if err != nil {
		return nil, deployerrors.Wrap(deployerrors.ErrCodePlatform, deployerrors.ErrUnsupportedPlatform.Message, err)
	}
	return p, nil
}

type realFetcherFactory struct{}

func (r *realFetcherFactory) Create(kind string, cfg *config.Config, p *platform.Platform) (store.Fetcher, error) {
	switch kind {
	case config.StoreS3:
		return store.NewS3CLIFetcher(p.AWSBinary), nil
	case config.StoreAzBlob:
		if cfg.Azure.AccountURL == "" {
			return nil, deployerrors.Config("azblob store requires azure.account_url in the profile")
		}
		return store.NewAzureBlobFetcherFromEnvironment(cfg.Azure.AccountURL)
	case config.StoreFile:
		if cfg.File.Root == "" {
			return nil, deployerrors.Config("file store requires file.root in the profile")
		}
		return store.NewFileFetcher(cfg.File.Root), nil
	default:
		return nil, invalidStore(kind)
	}
}

type realServiceFactory struct{}

func (r *realServiceFactory) Create(kind string) (service.Manager, error) {
	return service.New(kind)
}
