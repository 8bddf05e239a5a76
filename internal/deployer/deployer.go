// Package deployer runs a certificate deployment: it fetches a PKCS#12
// bundle, stops the service, imports the bundle into the keystore named by
// the server configuration and starts the service again.
//
// Steps run in a fixed order and the first failure ends the run. Nothing is
// retried and nothing is rolled back, so a failure after the service stop
// leaves the service stopped.
package deployer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/keystore"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/serverxml"
	"github.com/ksyq12/certdeploy/internal/service"
	"github.com/ksyq12/certdeploy/internal/store"
)

// Step names, in execution order.
const (
	StepValidate        = "validate"
	StepEnsureDirs      = "ensure-dirs"
	StepResolveKeystore = "resolve-keystore"
	StepFetch           = "fetch"
	StepVerify          = "verify-certificate"
	StepStopService     = "stop-service"
	StepLocateKeytool   = "locate-keytool"
	StepImport          = "import"
	StepStartService    = "start-service"
)

// KeytoolRunner locates and runs keytool. *keystore.Keytool implements it.
type KeytoolRunner interface {
	Locate(javaHome string) (string, error)
	Import(in keystore.ImportInputs) error
}

var _ KeytoolRunner = (*keystore.Keytool)(nil)

// InspectFunc opens a PKCS#12 bundle.
type InspectFunc func(path, password string) (*keystore.CertInfo, error)

// Deployer runs deployments against one fetcher, service manager and keytool.
type Deployer struct {
	fetcher  store.Fetcher
	services service.Manager
	keytool  KeytoolRunner
	inspect  InspectFunc
	now      func() time.Time
	dryRun   bool
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithDryRun makes Deploy resolve and validate everything but run no
// external process and change nothing on disk.
func WithDryRun(dryRun bool) Option {
	return func(d *Deployer) { d.dryRun = dryRun }
}

// WithInspector replaces keystore.Inspect (for testing).
func WithInspector(fn InspectFunc) Option {
	return func(d *Deployer) { d.inspect = fn }
}

// WithClock replaces time.Now for certificate expiry checks.
func WithClock(now func() time.Time) Option {
	return func(d *Deployer) { d.now = now }
}

// New creates a Deployer.
func New(fetcher store.Fetcher, services service.Manager, keytool KeytoolRunner, opts ...Option) *Deployer {
	d := &Deployer{
		fetcher:  fetcher,
		services: services,
		keytool:  keytool,
		inspect:  keystore.Inspect,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// step is one stage of a run. plan, when set, marks the step as having side
// effects: a dry run records its description instead of running it.
type step struct {
	name string
	run  func(ctx context.Context) error
	plan func() string
}

// run carries the values steps hand to later steps.
type run struct {
	req         Request
	location    *serverxml.KeystoreLocation
	certificate string
	keytoolPath string
	stopped     bool
	result      *Result
}

// Deploy runs every step for req and returns the step report. On failure
// the report is returned together with the error; the error is a
// *errors.DeployError naming the failed step.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	r := &run{
		req:    req.WithDefaults(),
		result: &Result{DryRun: d.dryRun},
	}
	r.result.Service = r.req.ServiceName

	steps := d.steps(r)
	for i, s := range steps {
		if err := d.runStep(ctx, r, s); err != nil {
			for _, rest := range steps[i+1:] {
				r.result.add(rest.name, StatusSkipped, 0)
			}
			if r.stopped {
				logger.Error("service %s was left stopped, start it once the failure is fixed", r.req.ServiceName)
			}
			return r.result, err
		}
	}

	r.result.Success = true
	return r.result, nil
}

func (d *Deployer) runStep(ctx context.Context, r *run, s step) error {
	if d.dryRun && s.plan != nil {
		r.result.Plan = append(r.result.Plan, s.plan())
		r.result.add(s.name, StatusSkipped, 0)
		return nil
	}

	if err := ctx.Err(); err != nil {
		err = deployerrors.WithStep(s.name, err)
		r.result.add(s.name, StatusFailed, 0)
		r.result.Error = err.Error()
		return err
	}

	done := logger.Step(s.name)
	start := time.Now()
	err := s.run(ctx)
	done(err)

	if err != nil {
		err = deployerrors.WithStep(s.name, err)
		r.result.add(s.name, StatusFailed, time.Since(start))
		r.result.Error = err.Error()
		return err
	}
	r.result.add(s.name, StatusOK, time.Since(start))
	return nil
}

func (d *Deployer) steps(r *run) []step {
	return []step{
		{name: StepValidate, run: func(context.Context) error {
			return r.req.Validate()
		}},
		{
			name: StepEnsureDirs,
			run: func(context.Context) error {
				return ensureDir(r.req.CertDir)
			},
			plan: func() string { return "create directory " + r.req.CertDir },
		},
		{name: StepResolveKeystore, run: func(context.Context) error {
			return d.resolveKeystore(r)
		}},
		{
			name: StepFetch,
			run: func(ctx context.Context) error {
				path, err := d.fetcher.Fetch(ctx, r.req.Bucket, r.req.ObjectKey, r.req.CertDir)
				if err != nil {
					return fail(deployerrors.ErrFetchFailed, StepFetch, err)
				}
				r.certificate = path
				r.result.Certificate = path
				return nil
			},
			plan: func() string {
				return d.fetcher.Describe(r.req.Bucket, r.req.ObjectKey, r.req.CertDir)
			},
		},
		{
			name: StepVerify,
			run:  func(context.Context) error { return d.verify(r) },
			plan: func() string {
				dest, _ := store.Destination(r.req.ObjectKey, r.req.CertDir)
				return fmt.Sprintf("open %s with the keystore password", dest)
			},
		},
		{
			name: StepStopService,
			run: func(context.Context) error {
				if err := d.services.Stop(r.req.ServiceName); err != nil {
					return fail(deployerrors.ErrServiceStop, StepStopService, err)
				}
				r.stopped = true
				return nil
			},
			plan: func() string {
				return fmt.Sprintf("%s: stop service %s", d.services.Name(), r.req.ServiceName)
			},
		},
		{name: StepLocateKeytool, run: func(context.Context) error {
			path, err := d.keytool.Locate(r.req.JavaHome)
			if err != nil {
				return err
			}
			logger.Debug("Using keytool at %s", path)
			r.keytoolPath = path
			return nil
		}},
		{
			name: StepImport,
			run: func(context.Context) error {
				return d.keytool.Import(r.importInputs())
			},
			plan: func() string {
				in := r.importInputs()
				if in.Source == "" {
					in.Source, _ = store.Destination(r.req.ObjectKey, r.req.CertDir)
				}
				return executor.FormatCommand([]string{in.Password}, in.Keytool, keystore.ImportArgs(in)...)
			},
		},
		{
			name: StepStartService,
			run: func(context.Context) error {
				if err := d.services.Start(r.req.ServiceName); err != nil {
					return fail(deployerrors.ErrServiceStart, StepStartService, err)
				}
				r.stopped = false
				return nil
			},
			plan: func() string {
				return fmt.Sprintf("%s: start service %s", d.services.Name(), r.req.ServiceName)
			},
		},
	}
}

func (d *Deployer) resolveKeystore(r *run) error {
	loc, err := serverxml.Find(filepath.Join(r.req.ConfigDir, r.req.ConfigFile))
	if err != nil {
		return err
	}
	logger.InfoFields("Keystore located", map[string]interface{}{
		"file": loc.File,
		"port": loc.Port,
	})
	if loc.Password != "" && loc.Password != r.req.Password {
		logger.WarnFields("Keystore password differs from the deployment password", map[string]interface{}{
			"config": r.req.ConfigFile,
			"port":   loc.Port,
		})
	}
	r.location = loc
	r.result.Keystore = loc.File

	parent := filepath.Dir(loc.File)
	if d.dryRun {
		r.result.Plan = append(r.result.Plan, "create directory "+parent)
		return nil
	}
	return ensureDir(parent)
}

func (d *Deployer) verify(r *run) error {
	info, err := d.inspect(r.certificate, r.req.Password)
	if err != nil {
		return err
	}
	r.result.CertInfo = info
	if info.Expired(d.now()) {
		msg := fmt.Sprintf("certificate %s expired on %s", info.Subject, info.NotAfter.Format(time.RFC3339))
		logger.WarnFields("Certificate expired", map[string]interface{}{
			"subject":   info.Subject,
			"not_after": info.NotAfter.Format(time.RFC3339),
		})
		r.result.Warnings = append(r.result.Warnings, msg)
	}
	if info.Warning != "" {
		logger.Warn("%s", info.Warning)
		r.result.Warnings = append(r.result.Warnings, info.Warning)
	}
	return nil
}

func (r *run) importInputs() keystore.ImportInputs {
	in := keystore.ImportInputs{
		Keytool:  r.keytoolPath,
		Source:   r.certificate,
		Password: r.req.Password,
	}
	if r.location != nil {
		in.Destination = r.location.File
		in.DestinationType = r.location.Type
	}
	return in
}

// ensureDir creates dir and its parents; an existing directory is not an error.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return deployerrors.Fail(deployerrors.ErrDirectory, StepEnsureDirs, err)
	}
	return nil
}

// fail tags err with step. Errors that are not already classified take the
// sentinel's class.
func fail(sentinel *deployerrors.DeployError, step string, err error) error {
	var de *deployerrors.DeployError
	if deployerrors.As(err, &de) {
		return deployerrors.WithStep(step, err)
	}
	return deployerrors.Fail(sentinel, step, err)
}
