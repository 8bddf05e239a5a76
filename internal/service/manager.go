package service

import (
	"fmt"
	"strings"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/platform"
)

// Manager is the interface every service manager implements
type Manager interface {
	// Name returns the manager name (powershell, systemd)
	Name() string

	// Stop stops the named service and waits for it to stop
	Stop(name string) error

	// Start starts the named service
	Start(name string) error

	// Status returns the manager's description of the service state
	Status(name string) (string, error)

	// Available reports whether the manager's tool can be found
	Available() error
}

// New returns the manager for a platform.ServiceManager identifier
func New(kind string) (Manager, error) {
	return NewWithExecutor(kind, executor.NewSystemExecutor())
}

// NewWithExecutor returns the manager for kind using a custom executor (for testing)
func NewWithExecutor(kind string, exec executor.CommandExecutor) (Manager, error) {
	switch kind {
	case platform.ManagerPowerShell:
		return &PowerShellManager{exec: exec}, nil
	case platform.ManagerSystemd:
		return &SystemdManager{exec: exec}, nil
	default:
		return nil, &deployerrors.DeployError{
			Code:    deployerrors.ErrCodePlatform,
			Message: deployerrors.ErrUnsupportedPlatform.Message,
			Err:     fmt.Errorf("no service manager %q", kind),
		}
	}
}

// ValidateName rejects service names that cannot be passed safely on a
// command line.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return deployerrors.Validation("service name cannot be empty")
	}
	if strings.ContainsAny(name, "'\"`$;&|<>") {
		return deployerrors.Validation(fmt.Sprintf("service name %q contains shell metacharacters", name))
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return deployerrors.Validation(fmt.Sprintf("service name %q contains control characters", name))
		}
	}
	return nil
}
