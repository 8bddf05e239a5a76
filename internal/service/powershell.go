package service

import (
	"fmt"
	"strings"

	"github.com/ksyq12/certdeploy/internal/executor"
)

const powershellBinary = "powershell.exe"

// PowerShellManager controls Windows services through PowerShell cmdlets
type PowerShellManager struct {
	exec executor.CommandExecutor
}

// Name returns the manager name
func (p *PowerShellManager) Name() string {
	return "powershell"
}

// Stop runs Stop-Service, which returns once the service has stopped
func (p *PowerShellManager) Stop(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := p.run(fmt.Sprintf("Stop-Service -Name '%s' -ErrorAction Stop", name))
	return err
}

// Start runs Start-Service
func (p *PowerShellManager) Start(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := p.run(fmt.Sprintf("Start-Service -Name '%s' -ErrorAction Stop", name))
	return err
}

// Status returns the service's Status property (Running, Stopped, ...)
func (p *PowerShellManager) Status(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	out, err := p.run(fmt.Sprintf("(Get-Service -Name '%s' -ErrorAction Stop).Status", name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Available checks that powershell.exe is on PATH
func (p *PowerShellManager) Available() error {
	_, err := p.exec.LookPath(powershellBinary)
	return err
}

func (p *PowerShellManager) run(script string) ([]byte, error) {
	return executor.Run(p.exec, nil, powershellBinary, "-NoProfile", "-NonInteractive", "-Command", script)
}
