package service

import (
	"strings"

	"github.com/ksyq12/certdeploy/internal/executor"
)

// SystemdManager controls services with systemctl
type SystemdManager struct {
	exec executor.CommandExecutor
}

// Name returns the manager name
func (s *SystemdManager) Name() string {
	return "systemd"
}

// Stop runs systemctl stop, which waits for the stop job to finish
func (s *SystemdManager) Stop(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := executor.Run(s.exec, nil, "systemctl", "stop", name)
	return err
}

// Start runs systemctl start
func (s *SystemdManager) Start(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := executor.Run(s.exec, nil, "systemctl", "start", name)
	return err
}

// Status returns the output of systemctl is-active
func (s *SystemdManager) Status(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	// is-active exits non-zero for inactive units but still prints the state
	out, err := s.exec.Execute("systemctl", "is-active", name)
	state := strings.TrimSpace(string(out))
	if err != nil && state == "" {
		return "", err
	}
	return state, nil
}

// Available checks that systemctl is on PATH
func (s *SystemdManager) Available() error {
	_, err := s.exec.LookPath("systemctl")
	return err
}
