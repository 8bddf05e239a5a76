package executor

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments
	Execute(name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output.
// It blocks until the process exits; there is no timeout.
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// ExecError describes a command that could not be started or exited non-zero.
type ExecError struct {
	Command  string // command line, secrets masked
	ExitCode int    // -1 when the process never ran
	Output   string // combined output, secrets masked
	Err      error
}

func (e *ExecError) Error() string {
	out := strings.TrimSpace(e.Output)
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if out == "" {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, out)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Run executes a command and turns a failure into an *ExecError.
// Every occurrence of a secret in the command line or output is masked.
func Run(e CommandExecutor, secrets []string, name string, args ...string) ([]byte, error) {
	output, err := e.Execute(name, args...)
	if err == nil {
		return output, nil
	}
	return output, &ExecError{
		Command:  FormatCommand(secrets, name, args...),
		ExitCode: ExitCode(err),
		Output:   Mask(string(output), secrets...),
		Err:      err,
	}
}

// ExitCode returns the exit status carried by err, or -1 if the process
// did not run to completion.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

// Mask replaces every non-empty secret in text with "****".
func Mask(text string, secrets ...string) string {
	for _, s := range secrets {
		if s == "" {
			continue
		}
		text = strings.ReplaceAll(text, s, "****")
	}
	return text
}

// FormatCommand renders a command line for logs and dry runs.
func FormatCommand(secrets []string, name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(name))
	for _, a := range args {
		parts = append(parts, quote(Mask(a, secrets...)))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// CallsTo returns the recorded calls whose command name is name
func (m *MockExecutor) CallsTo(name string) []CommandCall {
	var calls []CommandCall
	for _, c := range m.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// ExitError is an error carrying an exit code, for mocks that simulate a
// process exiting non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the simulated exit status
func (e *ExitError) ExitCode() int {
	return e.Code
}
