package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	p, err := Detect()

	switch runtime.GOOS {
	case "windows", "linux":
		if err != nil {
			t.Fatalf("Detect() failed on %s: %v", runtime.GOOS, err)
		}
		if p.OS != runtime.GOOS {
			t.Errorf("OS = %s, want %s", p.OS, runtime.GOOS)
		}
	default:
		if err == nil {
			t.Errorf("expected error on unsupported platform %s, but got nil", runtime.GOOS)
		}
	}
}

func TestDetectFor(t *testing.T) {
	tests := []struct {
		goos        string
		wantManager string
		wantKeytool string
		wantErr     bool
	}{
		{"windows", ManagerPowerShell, "keytool.exe", false},
		{"linux", ManagerSystemd, "keytool", false},
		{"darwin", "", "", true},
		{"plan9", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p, err := DetectFor(tt.goos)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.goos) {
					t.Errorf("error should name the platform: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ServiceManager != tt.wantManager {
				t.Errorf("ServiceManager = %s, want %s", p.ServiceManager, tt.wantManager)
			}
			if p.KeytoolBinary != tt.wantKeytool {
				t.Errorf("KeytoolBinary = %s, want %s", p.KeytoolBinary, tt.wantKeytool)
			}
			if len(p.JavaHomeCandidates) == 0 {
				t.Error("expected java home candidates")
			}
		})
	}
}

func TestGuessJavaHome(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")
	jre := filepath.Join(dir, "jre")
	if err := os.MkdirAll(filepath.Join(jre, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(jre, "bin", "keytool"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	p := &Platform{KeytoolBinary: "keytool", JavaHomeCandidates: []string{missing, jre}}
	if got := p.GuessJavaHome(); got != jre {
		t.Errorf("GuessJavaHome() = %q, want %q", got, jre)
	}

	p.JavaHomeCandidates = []string{missing}
	if got := p.GuessJavaHome(); got != "" {
		t.Errorf("GuessJavaHome() = %q, want empty", got)
	}
}

func TestPathExists(t *testing.T) {
	if !pathExists(t.TempDir()) {
		t.Error("temp dir should exist")
	}
	if pathExists("/this/path/should/definitely/not/exist/anywhere") {
		t.Error("non-existent path should return false")
	}
}
