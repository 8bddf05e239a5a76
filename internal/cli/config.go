package cli

import (
	"fmt"
	"os"

	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initFlags requestFlags
	initForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the deployment profile",
	Long: `The profile holds defaults for every deploy flag except the password.
Flags given on the command line override it.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective profile",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a profile from the given flags",
	Long: `Write a profile from the given flags and the built-in defaults.

Examples:
  certdeploy config init --bucket certs --key tomcat/prod.pfx \
      --config-dir /opt/tomcat/conf --cert-dir /opt/certs`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	initFlags.register(configInitCmd)
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing profile")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if path := cfg.Path(); path != "" {
		output.Print("# %s", path)
	}
	output.Print("%s", data)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if path := cfg.Path(); path != "" && !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %s already exists (use --force to overwrite)", path)
		}
	}

	req := initFlags.request(cfg)
	kind, err := initFlags.storeKind(cfg)
	if err != nil {
		return err
	}

	cfg.Bucket = req.Bucket
	cfg.ObjectKey = req.ObjectKey
	cfg.ConfigDir = req.ConfigDir
	cfg.ConfigFile = req.ConfigFile
	cfg.CertDir = req.CertDir
	cfg.ServiceName = req.ServiceName
	cfg.JavaHome = pick(initFlags.javaHome, cfg.JavaHome)
	cfg.Store = kind

	if err := deps.ConfigLoader.Save(cfg); err != nil {
		return err
	}
	return outputResult(cfg, "Profile written to %s", cfg.Path())
}
