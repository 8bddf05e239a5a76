package cli

import (
	"github.com/zalando/go-keyring"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/secret"
	"github.com/ksyq12/certdeploy/internal/service"
	"github.com/ksyq12/certdeploy/internal/store"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	LoadPaths []string
	SaveCalls int
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadPaths = append(m.LoadPaths, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockPlatformDetector is a test double for PlatformDetector
type MockPlatformDetector struct {
	Platform *platform.Platform
	Err      error
}

func (m *MockPlatformDetector) Detect() (*platform.Platform, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Platform != nil {
		return m.Platform, nil
	}
	// Linux settings without java home guesses, so tests never probe the host
	p, _ := platform.DetectFor("linux")
	p.JavaHomeCandidates = nil
	return p, nil
}

// MockFetcherFactory is a test double for FetcherFactory
type MockFetcherFactory struct {
	Fetcher store.Fetcher
	Err     error
	Kinds   []string
}

func (m *MockFetcherFactory) Create(kind string, cfg *config.Config, p *platform.Platform) (store.Fetcher, error) {
	m.Kinds = append(m.Kinds, kind)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Fetcher == nil {
		m.Fetcher = &store.MockFetcher{}
	}
	return m.Fetcher, nil
}

// MockServiceFactory is a test double for ServiceFactory
type MockServiceFactory struct {
	Manager service.Manager
	Err     error
}

func (m *MockServiceFactory) Create(kind string) (service.Manager, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Manager == nil {
		m.Manager = service.NewMockManager()
	}
	return m.Manager, nil
}

// MockKeyring is an in-memory secret.Keyring
type MockKeyring struct {
	Entries  map[string]string // keyed by service + "/" + account
	Err      error
	SetCalls int
}

func (m *MockKeyring) Get(svc, account string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	pw, ok := m.Entries[svc+"/"+account]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return pw, nil
}

func (m *MockKeyring) Set(svc, account, password string) error {
	m.SetCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.Entries == nil {
		m.Entries = make(map[string]string)
	}
	m.Entries[svc+"/"+account] = password
	return nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
	env  map[string]string
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	b := &MockDependenciesBuilder{env: map[string]string{}}
	b.deps = &Dependencies{
		ConfigLoader:     &MockConfigLoader{Cfg: config.New()},
		PlatformDetector: &MockPlatformDetector{},
		FetcherFactory:   &MockFetcherFactory{},
		ServiceFactory:   &MockServiceFactory{},
		Executor:         &executor.MockExecutor{},
		Keyring:          &MockKeyring{},
		StdinReader:      input.NewStringReader(),
		Getenv:           func(k string) string { return b.env[k] },
	}
	return b
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithPlatform sets the detected platform
func (b *MockDependenciesBuilder) WithPlatform(p *platform.Platform) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Platform: p}
	return b
}

// WithPlatformError sets an error for platform detection
func (b *MockDependenciesBuilder) WithPlatformError(err error) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Err: err}
	return b
}

// WithFetcher sets the fetcher every store kind resolves to
func (b *MockDependenciesBuilder) WithFetcher(f store.Fetcher) *MockDependenciesBuilder {
	b.deps.FetcherFactory = &MockFetcherFactory{Fetcher: f}
	return b
}

// WithFetcherFactory sets a custom fetcher factory
func (b *MockDependenciesBuilder) WithFetcherFactory(factory FetcherFactory) *MockDependenciesBuilder {
	b.deps.FetcherFactory = factory
	return b
}

// WithServiceManager sets the service manager
func (b *MockDependenciesBuilder) WithServiceManager(m service.Manager) *MockDependenciesBuilder {
	b.deps.ServiceFactory = &MockServiceFactory{Manager: m}
	return b
}

// WithExecutor sets the command executor
func (b *MockDependenciesBuilder) WithExecutor(e executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = e
	return b
}

// WithKeyring sets the keyring
func (b *MockDependenciesBuilder) WithKeyring(k secret.Keyring) *MockDependenciesBuilder {
	b.deps.Keyring = k
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(lines ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(lines...)
	return b
}

// WithEnv sets an environment variable seen through Getenv
func (b *MockDependenciesBuilder) WithEnv(key, value string) *MockDependenciesBuilder {
	b.env[key] = value
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// useDeps installs d for the duration of the test
func useDeps(t interface {
	Helper()
	Cleanup(func())
}, d *Dependencies) {
	t.Helper()
	old := deps
	deps = d
	t.Cleanup(func() {
		deps = old
	})
}
