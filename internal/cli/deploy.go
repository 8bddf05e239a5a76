package cli

import (
	"time"

	"github.com/ksyq12/certdeploy/internal/deployer"
	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/keystore"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/secret"
	"github.com/spf13/cobra"
)

var (
	deployFlags         requestFlags
	deployPassword      string
	deployPasswordStdin bool
	deployDryRun        bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Fetch a certificate and import it into the server keystore",
	Long: `Fetch a PKCS#12 certificate from the object store, stop the service,
import the certificate into the keystore named by the https connector of the
server configuration, and start the service again.

The keystore password is taken from --password, --password-stdin,
$CERTDEPLOY_KEYSTORE_PASSWORD, $KEYSTORE_PASSWORD or the OS keyring, in
that order.

A failure after the service was stopped leaves it stopped.

The bundle is opened with the password before the service is stopped. A
bundle with no private key, or with more than one, is not rejected: a
warning is printed and keytool decides what gets imported.

Examples:
  certdeploy deploy --bucket certs --key tomcat/prod.pfx \
      --config-dir 'C:\Tomcat9\conf' --cert-dir 'C:\certs'
  echo "$PFX_PASSWORD" | certdeploy deploy --password-stdin --service tomcat
  certdeploy deploy --dry-run --json`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	deployFlags.register(deployCmd)
	deployCmd.Flags().StringVarP(&deployPassword, "password", "p", "", "Keystore password (prefer --password-stdin)")
	deployCmd.Flags().BoolVar(&deployPasswordStdin, "password-stdin", false, "Read the keystore password from stdin")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Resolve and validate everything, change nothing")
	deployCmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := deployFlags.request(cfg)

	// Resolve the password before anything touches the host
	lookup := secret.Lookup{
		Flag:    deployPassword,
		Getenv:  deps.Getenv,
		Keyring: deps.Keyring,
		Account: req.ServiceName,
	}
	if deployPasswordStdin {
		lookup.Stdin = deps.StdinReader
	}
	password, source, err := secret.Resolve(lookup)
	if err != nil {
		return err
	}
	if source != secret.SourceNone {
		logger.Debug("Keystore password from %s", source)
	}
	req.Password = password
	if err := req.Validate(); err != nil {
		return deployerrors.WithStep(deployer.StepValidate, err)
	}

	kind, err := deployFlags.storeKind(cfg)
	if err != nil {
		return err
	}

	p, err := deps.PlatformDetector.Detect()
	if err != nil {
		return err
	}
	req.JavaHome = deployFlags.javaHomeFor(cfg, p)

	fetcher, err := deps.FetcherFactory.Create(kind, cfg, p)
	if err != nil {
		return err
	}
	services, err := deps.ServiceFactory.Create(p.ServiceManager)
	if err != nil {
		return err
	}

	d := deployer.New(fetcher, services, keystore.NewWithExecutor(p.KeytoolBinary, deps.Executor),
		deployer.WithDryRun(deployDryRun))

	if !jsonOutput {
		output.Info("Deploying %s/%s to %s via %s...", req.Bucket, req.ObjectKey, req.ServiceName, fetcher.Name())
	}

	result, deployErr := d.Deploy(commandContext(cmd), req)

	if jsonOutput {
		if err := output.JSON(result); err != nil {
			return err
		}
		return deployErr
	}

	displayDeployResult(result)
	return deployErr
}

func displayDeployResult(result *deployer.Result) {
	if result == nil {
		return
	}

	rows := make([][]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		duration := "-"
		if s.Status != deployer.StatusSkipped {
			duration = s.Duration.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{s.Name, s.Status, duration})
	}
	output.Print("")
	output.Table([]string{"STEP", "STATUS", "DURATION"}, rows)
	output.Print("")

	for _, w := range result.Warnings {
		output.Warn("%s", w)
	}

	if result.DryRun {
		output.Info("Dry run, nothing was changed. Planned actions:")
		for _, p := range result.Plan {
			output.Print("  %s", p)
		}
		return
	}

	if info := result.CertInfo; info != nil && info.Subject != "" {
		output.Info("Certificate %s, valid until %s", info.Subject, info.NotAfter.Format("2006-01-02"))
	}
	if result.Success {
		output.Success("Imported %s into %s, service %s restarted", result.Certificate, result.Keystore, result.Service)
	}
}
