package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/deployer"
	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/spf13/cobra"
)

// requestFlags are the deployment parameters shared by several commands.
// Empty flags fall back to the profile.
type requestFlags struct {
	bucket     string
	key        string
	configDir  string
	configFile string
	certDir    string
	service    string
	javaHome   string
	store      string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.bucket, "bucket", "b", "", "Object-store bucket (container for azblob)")
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Object key of the .pfx bundle")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "", "Directory holding the server configuration")
	cmd.Flags().StringVar(&f.configFile, "config-file", "", "Server configuration file name (default server.xml)")
	cmd.Flags().StringVar(&f.certDir, "cert-dir", "", "Local staging directory for the certificate")
	cmd.Flags().StringVarP(&f.service, "service", "s", "", "Service to restart (default Tomcat9)")
	cmd.Flags().StringVar(&f.javaHome, "java-home", "", "Java installation root holding bin/keytool (default $JAVA_HOME)")
	cmd.Flags().StringVar(&f.store, "store", "", fmt.Sprintf("Object store backend (%s)", strings.Join(config.ValidStores(), ", ")))
}

// request merges the flags over the profile. Password and java home are
// resolved separately.
func (f *requestFlags) request(cfg *config.Config) deployer.Request {
	return deployer.Request{
		Bucket:      pick(f.bucket, cfg.Bucket),
		ObjectKey:   pick(f.key, cfg.ObjectKey),
		ConfigDir:   pick(f.configDir, cfg.ConfigDir),
		ConfigFile:  pick(f.configFile, cfg.ConfigFile),
		CertDir:     pick(f.certDir, cfg.CertDir),
		ServiceName: pick(f.service, cfg.ServiceName),
	}.WithDefaults()
}

// storeKind returns the backend to fetch with
func (f *requestFlags) storeKind(cfg *config.Config) (string, error) {
	kind := pick(f.store, cfg.Store, config.StoreS3)
	if !config.IsValidStore(kind) {
		return "", invalidStore(kind)
	}
	return kind, nil
}

// javaHomeFor resolves the keytool installation root: flag, profile,
// JAVA_HOME, then the platform's usual install locations.
func (f *requestFlags) javaHomeFor(cfg *config.Config, p *platform.Platform) string {
	if home := pick(f.javaHome, cfg.JavaHome, deps.Getenv("JAVA_HOME")); home != "" {
		return home
	}
	return p.GuessJavaHome()
}

// pick returns the first non-empty value
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadConfig loads the profile named by --config, or the default profile
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, deployerrors.Wrap(deployerrors.ErrCodeConfig, "failed to load config", err)
	}
	return cfg, nil
}

func invalidStore(kind string) error {
	return deployerrors.Validation(fmt.Sprintf("invalid store: %s. Valid stores: %s", kind, strings.Join(config.ValidStores(), ", ")))
}

// commandContext returns the command's context; tests call run functions
// with a nil command.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}
