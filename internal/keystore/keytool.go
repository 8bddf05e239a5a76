package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
)

// SourceTypePKCS12 is the keytool store type of a .pfx bundle
const SourceTypePKCS12 = "PKCS12"

// Keytool runs the JDK keytool
type Keytool struct {
	binary string
	exec   executor.CommandExecutor
}

// ImportInputs are the arguments for Import
type ImportInputs struct {
	Keytool         string // absolute path returned by Locate
	Source          string // .pfx file
	Destination     string // keystore file, created if absent
	Password        string // used for both source and destination
	DestinationType string // optional, e.g. JKS; keytool default when empty
}

// New creates a Keytool for the given binary name (keytool or keytool.exe)
func New(binary string) *Keytool {
	return &Keytool{
		binary: binary,
		exec:   executor.NewSystemExecutor(),
	}
}

// NewWithExecutor creates a Keytool with a custom executor (for testing)
func NewWithExecutor(binary string, exec executor.CommandExecutor) *Keytool {
	return &Keytool{
		binary: binary,
		exec:   exec,
	}
}

// Locate returns <javaHome>/bin/<binary>
func (k *Keytool) Locate(javaHome string) (string, error) {
	if javaHome == "" {
		return "", &deployerrors.DeployError{
			Code:    deployerrors.ErrCodeConfig,
			Message: deployerrors.ErrKeytoolNotFound.Message,
			Err:     fmt.Errorf("java home not set (use --java-home or JAVA_HOME)"),
		}
	}

	path := filepath.Join(javaHome, "bin", k.binary)
	info, err := os.Stat(path)
	if err != nil {
		return "", deployerrors.Wrap(deployerrors.ErrCodeConfig, deployerrors.ErrKeytoolNotFound.Message, err)
	}
	if info.IsDir() {
		return "", deployerrors.Wrap(deployerrors.ErrCodeConfig, deployerrors.ErrKeytoolNotFound.Message,
			fmt.Errorf("%s is a directory", path))
	}
	return path, nil
}

// ImportArgs returns the keytool arguments for an import
func ImportArgs(in ImportInputs) []string {
	args := []string{
		"-importkeystore",
		"-srckeystore", in.Source,
		"-srcstoretype", SourceTypePKCS12,
		"-srcstorepass", in.Password,
		"-destkeystore", in.Destination,
		"-deststorepass", in.Password,
	}
	if in.DestinationType != "" {
		args = append(args, "-deststoretype", in.DestinationType)
	}
	return append(args, "-noprompt")
}

// Import copies every entry of the PKCS#12 source into the destination keystore
func (k *Keytool) Import(in ImportInputs) error {
	if in.Keytool == "" {
		return deployerrors.ErrKeytoolNotFound
	}
	if _, err := executor.Run(k.exec, []string{in.Password}, in.Keytool, ImportArgs(in)...); err != nil {
		return deployerrors.Wrap(deployerrors.ErrCodeExecution, deployerrors.ErrImportFailed.Message, err)
	}
	return nil
}

// Aliases lists the entry aliases of a keystore
func (k *Keytool) Aliases(keytool, keystore, password string) ([]string, error) {
	out, err := executor.Run(k.exec, []string{password}, keytool,
		"-list", "-keystore", keystore, "-storepass", password)
	if err != nil {
		return nil, err
	}
	return parseAliases(string(out)), nil
}

// parseAliases extracts aliases from `keytool -list` output, whose entry
// lines look like "tomcat, Oct 16, 2026, PrivateKeyEntry,".
func parseAliases(out string) []string {
	var aliases []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, "Entry,") {
			continue
		}
		if i := strings.Index(line, ","); i > 0 {
			aliases = append(aliases, line[:i])
		}
	}
	return aliases
}
