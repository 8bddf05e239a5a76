package executor

import (
	"errors"
	"strings"
	"testing"
)

func TestSystemExecutor_Execute(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("echo command", func(t *testing.T) {
		output, err := exec.Execute("echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(output) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(output))
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.Execute("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestSystemExecutor_LookPath(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("find sh", func(t *testing.T) {
		path, err := exec.LookPath("sh")
		if err != nil {
			t.Fatalf("LookPath failed: %v", err)
		}
		if path == "" {
			t.Error("expected non-empty path")
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.LookPath("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("success returns output", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("done"), nil
			},
		}
		out, err := Run(mock, nil, "aws", "s3", "cp")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != "done" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("failure is masked ExecError", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("bad password s3cret"), &ExitError{Code: 1}
			},
		}
		_, err := Run(mock, []string{"s3cret"}, "keytool", "-srcstorepass", "s3cret")
		var execErr *ExecError
		if !errors.As(err, &execErr) {
			t.Fatalf("expected *ExecError, got %T", err)
		}
		if execErr.ExitCode != 1 {
			t.Errorf("ExitCode = %d, want 1", execErr.ExitCode)
		}
		if strings.Contains(err.Error(), "s3cret") {
			t.Errorf("secret leaked in error: %s", err)
		}
		if !strings.Contains(err.Error(), "keytool -srcstorepass ****") {
			t.Errorf("unexpected error text: %s", err)
		}
	})

	t.Run("process never started", func(t *testing.T) {
		_, err := Run(NewSystemExecutor(), nil, "nonexistent-command-xyz-12345")
		var execErr *ExecError
		if !errors.As(err, &execErr) {
			t.Fatalf("expected *ExecError, got %T", err)
		}
		if execErr.ExitCode != -1 {
			t.Errorf("ExitCode = %d, want -1", execErr.ExitCode)
		}
	})

	t.Run("real non-zero exit", func(t *testing.T) {
		_, err := Run(NewSystemExecutor(), nil, "sh", "-c", "exit 3")
		if ExitCode(err) != 3 {
			t.Errorf("ExitCode = %d, want 3", ExitCode(err))
		}
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"simulated", &ExitError{Code: 5}, 5},
		{"plain error", errors.New("boom"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatCommand(t *testing.T) {
	got := FormatCommand([]string{"pw"}, "powershell.exe", "-Command", "Stop-Service -Name 'Tomcat9'", "pw")
	want := `powershell.exe -Command "Stop-Service -Name 'Tomcat9'" ****`
	if got != want {
		t.Errorf("FormatCommand() = %s, want %s", got, want)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("a secret b secret", "secret", ""); got != "a **** b ****" {
		t.Errorf("Mask() = %q", got)
	}
	if got := Mask("nothing here"); got != "nothing here" {
		t.Errorf("Mask() without secrets changed text: %q", got)
	}
}

func TestMockExecutor_Execute(t *testing.T) {
	t.Run("default behavior", func(t *testing.T) {
		mock := &MockExecutor{}
		output, err := mock.Execute("test", "arg1", "arg2")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if string(output) != "" {
			t.Errorf("expected empty output, got '%s'", string(output))
		}
		if len(mock.Calls) != 1 {
			t.Errorf("expected 1 call, got %d", len(mock.Calls))
		}
		if mock.Calls[0].Name != "test" {
			t.Errorf("expected command 'test', got '%s'", mock.Calls[0].Name)
		}
	})

	t.Run("error case", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("error output"), errors.New("mock error")
			},
		}
		output, err := mock.Execute("test")
		if err == nil {
			t.Error("expected error")
		}
		if string(output) != "error output" {
			t.Errorf("expected 'error output', got '%s'", string(output))
		}
	})

	t.Run("calls filtered by name", func(t *testing.T) {
		mock := &MockExecutor{}
		_, _ = mock.Execute("aws", "s3")
		_, _ = mock.Execute("systemctl", "stop", "tomcat")
		_, _ = mock.Execute("systemctl", "start", "tomcat")
		if n := len(mock.CallsTo("systemctl")); n != 2 {
			t.Errorf("expected 2 systemctl calls, got %d", n)
		}
	})
}

func TestMockExecutor_LookPath(t *testing.T) {
	mock := &MockExecutor{}
	path, err := mock.LookPath("aws")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if path != "/usr/bin/aws" {
		t.Errorf("expected '/usr/bin/aws', got '%s'", path)
	}
}
