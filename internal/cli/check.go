package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/keystore"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/secret"
	"github.com/ksyq12/certdeploy/internal/serverxml"
	"github.com/ksyq12/certdeploy/internal/store"
	"github.com/spf13/cobra"
)

var checkFlags requestFlags

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"doctor"},
	Short:   "Check that a deployment can run on this host",
	Long: `Run diagnostic checks without changing anything.

Checks:
  - Platform and service manager
  - Object-store tooling (aws CLI, Azure account URL, file root)
  - keytool under the Java installation root
  - Target service state
  - https connector and keystore in the server configuration
  - Keystore password availability
  - Staged certificate bundle, if one is present

Examples:
  certdeploy check --config-dir /opt/tomcat/conf
  certdeploy check --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkFlags.register(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

// Check statuses
const (
	checkSuccess = "success"
	checkWarning = "warning"
	checkError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// CheckReport contains all diagnostic results
type CheckReport struct {
	Platform string        `json:"platform"`
	Checks   []CheckResult `json:"checks"`
}

// Failed returns the number of checks with error status
func (r *CheckReport) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == checkError {
			n++
		}
	}
	return n
}

func (r *CheckReport) add(name, status, format string, args ...interface{}) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := &CheckReport{Platform: platform.String()}
	p, err := deps.PlatformDetector.Detect()
	if err != nil {
		report.add("platform", checkError, "%v", err)
	} else {
		report.add("platform", checkSuccess, "%s, services managed by %s", p.OS, p.ServiceManager)
		runChecks(report, cfg, p)
	}

	if jsonOutput {
		if err := output.JSON(report); err != nil {
			return err
		}
	} else {
		displayCheckReport(report)
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d check(s) failed", n)
	}
	return nil
}

func runChecks(report *CheckReport, cfg *config.Config, p *platform.Platform) {
	req := checkFlags.request(cfg)

	checkStore(report, cfg, p)
	checkKeytool(report, checkFlags.javaHomeFor(cfg, p), p)
	checkService(report, req.ServiceName, p)

	password, source, _ := secret.Resolve(secret.Lookup{
		Getenv:  deps.Getenv,
		Keyring: deps.Keyring,
		Account: req.ServiceName,
	})
	switch {
	case password != "":
		report.add("password", checkSuccess, "Keystore password available from %s", source)
	default:
		report.add("password", checkWarning, "No keystore password in %s or the keyring for %s (pass --password at deploy time)",
			secret.EnvPassword, req.ServiceName)
	}

	if req.ConfigDir == "" {
		report.add("server-config", checkWarning, "No config dir given, server configuration not checked")
	} else {
		checkServerConfig(report, filepath.Join(req.ConfigDir, req.ConfigFile))
	}

	if req.CertDir != "" && req.ObjectKey != "" && password != "" {
		checkStagedCertificate(report, req.ObjectKey, req.CertDir, password)
	}
}

func checkStore(report *CheckReport, cfg *config.Config, p *platform.Platform) {
	kind, err := checkFlags.storeKind(cfg)
	if err != nil {
		report.add("store", checkError, "%v", err)
		return
	}

	switch kind {
	case config.StoreS3:
		if err := store.NewS3CLIFetcherWithExecutor(p.AWSBinary, deps.Executor).Available(); err != nil {
			report.add("store", checkError, "AWS CLI (%s) not found on PATH: %v", p.AWSBinary, err)
		} else {
			report.add("store", checkSuccess, "AWS CLI (%s) installed", p.AWSBinary)
		}
	case config.StoreAzBlob:
		if cfg.Azure.AccountURL == "" {
			report.add("store", checkError, "azblob store selected but azure.account_url is not set")
		} else {
			report.add("store", checkSuccess, "Azure Blob Storage account %s", cfg.Azure.AccountURL)
		}
	case config.StoreFile:
		if info, err := os.Stat(cfg.File.Root); err == nil && info.IsDir() {
			report.add("store", checkSuccess, "File store root %s", cfg.File.Root)
		} else {
			report.add("store", checkError, "File store root %q is not a directory", cfg.File.Root)
		}
	}
}

func checkKeytool(report *CheckReport, javaHome string, p *platform.Platform) {
	path, err := keystore.NewWithExecutor(p.KeytoolBinary, deps.Executor).Locate(javaHome)
	if err != nil {
		report.add("keytool", checkError, "%v", err)
		return
	}
	report.add("keytool", checkSuccess, "keytool found (%s)", path)
}

func checkService(report *CheckReport, name string, p *platform.Platform) {
	mgr, err := deps.ServiceFactory.Create(p.ServiceManager)
	if err != nil {
		report.add("service", checkError, "%v", err)
		return
	}
	if err := mgr.Available(); err != nil {
		report.add("service", checkError, "%s not available: %v", mgr.Name(), err)
		return
	}
	status, err := mgr.Status(name)
	if err != nil {
		report.add("service", checkError, "Service %s: %v", name, err)
		return
	}
	report.add("service", checkSuccess, "Service %s is %s", name, status)
}

func checkServerConfig(report *CheckReport, path string) {
	loc, err := serverxml.Find(path)
	if err != nil {
		report.add("server-config", checkError, "%v", err)
		return
	}
	report.add("server-config", checkSuccess, "https connector on port %s uses %s", loc.Port, loc.File)

	if _, err := os.Stat(loc.File); err != nil {
		report.add("keystore", checkWarning, "Keystore %s does not exist yet, import will create it", loc.File)
		return
	}
	report.add("keystore", checkSuccess, "Keystore %s exists", loc.File)
}

func checkStagedCertificate(report *CheckReport, key, certDir, password string) {
	path, err := store.Destination(key, certDir)
	if err != nil {
		report.add("certificate", checkError, "%v", err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	info, err := keystore.Inspect(path, password)
	if err != nil {
		report.add("certificate", checkError, "%v", err)
		return
	}
	if info.Expired(time.Now()) {
		report.add("certificate", checkWarning, "Staged certificate %s expired on %s", info.Subject, info.NotAfter.Format("2006-01-02"))
		return
	}
	report.add("certificate", checkSuccess, "Staged certificate %s valid until %s", info.Subject, info.NotAfter.Format("2006-01-02"))
}

func displayCheckReport(report *CheckReport) {
	output.Print("Checking %s...", report.Platform)
	for _, check := range report.Checks {
		displayCheck(check)
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case checkSuccess:
		output.Success("%s", check.Message)
	case checkWarning:
		output.Warn("%s", check.Message)
	case checkError:
		output.Error("%s", check.Message)
	}
}
