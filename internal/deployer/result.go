package deployer

import (
	"time"

	"github.com/ksyq12/certdeploy/internal/keystore"
)

// Step statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
}

// Result reports a deployment run.
type Result struct {
	Success     bool               `json:"success"`
	DryRun      bool               `json:"dry_run,omitempty"`
	Service     string             `json:"service"`
	Keystore    string             `json:"keystore,omitempty"`
	Certificate string             `json:"certificate,omitempty"`
	CertInfo    *keystore.CertInfo `json:"certificate_info,omitempty"`
	Steps       []StepResult       `json:"steps"`
	Plan        []string           `json:"plan,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func (r *Result) add(name, status string, d time.Duration) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Duration: d})
}

// Step returns the result of the named step, or nil if it is not recorded.
func (r *Result) Step(name string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// FailedStep returns the name of the step that failed, or "".
func (r *Result) FailedStep() string {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s.Name
		}
	}
	return ""
}
