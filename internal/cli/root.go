package cli

import (
	"errors"
	"os"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	configPath string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "certdeploy",
	Short: "Deploy PKCS#12 certificates into Java keystores",
	Long: `certdeploy fetches a PKCS#12 certificate from an object store, imports it
into the Java keystore referenced by the server's https connector, and
restarts the service so the new certificate takes effect.

Every step must succeed; the first failure aborts the run with a non-zero
exit status. Nothing is retried or rolled back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err for the user. With --verbose the error code and
// failed step are logged as well.
func reportError(err error) {
	output.Error("%v", err)
	if logger.GetLevel() != logger.LevelDebug {
		return
	}
	var de *deployerrors.DeployError
	if !errors.As(err, &de) {
		logger.LogError(err, "certdeploy failed")
		return
	}
	logger.ErrorFields("certdeploy failed", map[string]interface{}{
		"code": de.Code,
		"step": de.Step,
	})
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Profile file (default ~/.config/certdeploy/config.yaml)")
}
