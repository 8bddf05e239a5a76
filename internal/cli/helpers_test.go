package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/keystore/keystoretest"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/service"
	"github.com/ksyq12/certdeploy/internal/store"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

const testPassword = "changeit-42"

const testServerXML = `<Server port="8005" shutdown="SHUTDOWN">
  <Service name="Catalina">
    <Connector port="8443" scheme="https" SSLEnabled="true"
               keystoreFile="conf/tomcat.jks" keystorePass="changeit-42" />
  </Service>
</Server>
`

// tomcatHost is a fake Tomcat install with mocked external processes
type tomcatHost struct {
	base     string
	confDir  string
	certDir  string
	javaHome string
	exec     *executor.MockExecutor
	services *service.MockManager
	fetcher  *store.MockFetcher
	keyring  *MockKeyring
	builder  *MockDependenciesBuilder
}

func newTomcatHost(t *testing.T) *tomcatHost {
	t.Helper()
	base := t.TempDir()
	h := &tomcatHost{
		base:     base,
		confDir:  filepath.Join(base, "conf"),
		certDir:  filepath.Join(base, "certs"),
		javaHome: filepath.Join(base, "jre"),
		exec:     &executor.MockExecutor{},
		services: service.NewMockManager(),
		keyring:  &MockKeyring{},
	}

	writeFile(t, filepath.Join(h.confDir, "server.xml"), testServerXML)
	writeFile(t, filepath.Join(h.javaHome, "bin", "keytool"), "#!/bin/sh\n")

	h.fetcher = &store.MockFetcher{
		FetchFunc: func(_ context.Context, _, key, destDir string) (string, error) {
			dest, err := store.Destination(key, destDir)
			if err != nil {
				return "", err
			}
			return keystoretest.WritePFX(t, dest, "tomcat.example.com", testPassword, time.Now().AddDate(0, 6, 0)), nil
		},
	}

	h.builder = NewMockDeps().
		WithConfig(config.New()).
		WithFetcher(h.fetcher).
		WithServiceManager(h.services).
		WithExecutor(h.exec).
		WithKeyring(h.keyring)
	return h
}

func (h *tomcatHost) keytoolPath() string {
	return filepath.Join(h.javaHome, "bin", "keytool")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// captureOutput redirects the output package for the duration of the test
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	output.SetWriters(&out, &errOut)
	t.Cleanup(func() { output.SetWriters(nil, nil) })
	return &out, &errOut
}

// setJSON sets the --json flag for the duration of the test
func setJSON(t *testing.T, on bool) {
	t.Helper()
	old := jsonOutput
	jsonOutput = on
	t.Cleanup(func() { jsonOutput = old })
}
