package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	deployerrors "github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
)

func TestRootCommands(t *testing.T) {
	want := map[string]bool{"deploy": false, "check": false, "config": false, "password": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s not registered", name)
		}
	}

	for _, flag := range []string{"json", "verbose", "config"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestDeployFlags(t *testing.T) {
	for _, flag := range []string{"bucket", "key", "config-dir", "cert-dir", "password", "password-stdin", "service", "java-home", "store", "dry-run"} {
		if deployCmd.Flags().Lookup(flag) == nil {
			t.Errorf("deploy flag --%s missing", flag)
		}
	}
}

func TestSetVersion(t *testing.T) {
	old := version
	defer SetVersion(old)

	SetVersion("1.2.3")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %s", rootCmd.Version)
	}
}

func TestReportError(t *testing.T) {
	stepErr := deployerrors.Fail(deployerrors.ErrImportFailed, "import", errors.New("exit status 1"))

	tests := []struct {
		name    string
		verbose bool
		err     error
		wantLog []string
	}{
		{
			name:    "quiet",
			verbose: false,
			err:     stepErr,
		},
		{
			name:    "verbose deploy error",
			verbose: true,
			err:     stepErr,
			wantLog: []string{"[ERROR]", "certdeploy failed", "code=EXECUTION", "step=import"},
		},
		{
			name:    "verbose plain error",
			verbose: true,
			err:     errors.New("unknown flag: --bukket"),
			wantLog: []string{"[ERROR]", "certdeploy failed: unknown flag: --bukket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut := captureOutput(t)
			var logs bytes.Buffer
			logger.SetOutput(&logs)
			logger.Init(tt.verbose)
			defer func() {
				logger.SetOutput(nil)
				logger.Init(false)
			}()

			reportError(tt.err)

			if !strings.Contains(errOut.String(), tt.err.Error()) {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.err.Error())
			}
			if len(tt.wantLog) == 0 && logs.Len() != 0 {
				t.Errorf("unexpected log output %q", logs.String())
			}
			for _, want := range tt.wantLog {
				if !strings.Contains(logs.String(), want) {
					t.Errorf("log = %q, want %q", logs.String(), want)
				}
			}
		})
	}
}
