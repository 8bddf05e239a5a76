// Package platform describes the host operating system in the terms a
// certificate deployment needs: which service manager controls services,
// how the keytool executable is named, and where Java usually lives.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Service manager identifiers.
const (
	ManagerPowerShell = "powershell" // Stop-Service / Start-Service
	ManagerSystemd    = "systemd"    // systemctl stop / start
)

// Platform contains the per-OS settings for a deployment run.
type Platform struct {
	OS             string
	ServiceManager string
	KeytoolBinary  string
	AWSBinary      string
	// JavaHomeCandidates are checked in order when JAVA_HOME is unset.
	JavaHomeCandidates []string
}

// Detect returns the platform settings for the running OS.
func Detect() (*Platform, error) {
	return DetectFor(runtime.GOOS)
}

// DetectFor returns the platform settings for goos.
func DetectFor(goos string) (*Platform, error) {
	switch goos {
	case "windows":
		return &Platform{
			OS:             goos,
			ServiceManager: ManagerPowerShell,
			KeytoolBinary:  "keytool.exe",
			AWSBinary:      "aws.exe",
			JavaHomeCandidates: []string{
				`C:\Program Files\Java\jre`,
				`C:\Program Files\Eclipse Adoptium\jre`,
			},
		}, nil
	case "linux":
		return &Platform{
			OS:             goos,
			ServiceManager: ManagerSystemd,
			KeytoolBinary:  "keytool",
			AWSBinary:      "aws",
			JavaHomeCandidates: []string{
				"/usr/lib/jvm/default-java",
				"/usr/lib/jvm/jre",
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s (supported: windows, linux)", goos)
	}
}

// GuessJavaHome returns the first candidate directory that contains
// bin/<keytool>, or "" when none does.
func (p *Platform) GuessJavaHome() string {
	for _, dir := range p.JavaHomeCandidates {
		if pathExists(filepath.Join(dir, "bin", p.KeytoolBinary)) {
			return dir
		}
	}
	return ""
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// String returns a string describing the current platform.
func String() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
