package cli

import (
	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/secret"
	"github.com/spf13/cobra"
)

var passwordService string

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Manage the keystore password in the OS keyring",
}

var passwordSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the keystore password for a service",
	Long: `Read the keystore password from stdin and store it in the OS keyring
(Windows Credential Manager, Secret Service, macOS Keychain) under the
service name. deploy uses it when no flag or environment variable is set.

Examples:
  certdeploy password set --service Tomcat9 < password.txt`,
	Args: cobra.NoArgs,
	RunE: runPasswordSet,
}

func init() {
	passwordSetCmd.Flags().StringVarP(&passwordService, "service", "s", "", "Service the password belongs to (default from profile)")

	passwordCmd.AddCommand(passwordSetCmd)
	rootCmd.AddCommand(passwordCmd)
}

// PasswordResult is the JSON output of password set
type PasswordResult struct {
	Success bool   `json:"success"`
	Service string `json:"service"`
	Keyring string `json:"keyring"`
}

func runPasswordSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := pick(passwordService, cfg.ServiceName)

	password, err := input.ReadLine(deps.StdinReader)
	if err != nil {
		return err
	}
	if err := secret.Store(deps.Keyring, name, password); err != nil {
		return err
	}

	result := PasswordResult{Success: true, Service: name, Keyring: secret.KeyringService}
	return outputResult(result, "Stored keystore password for %s in the OS keyring", name)
}
