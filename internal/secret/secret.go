// Package secret resolves the keystore password from the sources an
// operator or a scheduled job can provide it through.
package secret

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/logger"
)

// Environment variables checked for the password, in order.
const (
	EnvPassword       = "CERTDEPLOY_KEYSTORE_PASSWORD"
	EnvPasswordLegacy = "KEYSTORE_PASSWORD"
)

// KeyringService is the keyring service name entries are stored under;
// the account is the target service name.
const KeyringService = "certdeploy"

// Source names where a password came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceStdin   Source = "stdin"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Keyring reads and writes OS credential store entries
type Keyring interface {
	Get(service, account string) (string, error)
	Set(service, account, password string) error
}

// OSKeyring is the Keyring backed by the platform credential store
// (Windows Credential Manager, Secret Service, macOS Keychain)
type OSKeyring struct{}

// Get returns the stored password or keyring.ErrNotFound
func (OSKeyring) Get(service, account string) (string, error) {
	return keyring.Get(service, account)
}

// Set stores the password
func (OSKeyring) Set(service, account, password string) error {
	return keyring.Set(service, account, password)
}

// Lookup lists the password sources for one run. Sources are tried in field
// order; unset sources are skipped.
type Lookup struct {
	Flag    string
	Stdin   input.Reader // non-nil only when --password-stdin was given
	Getenv  func(string) string
	Keyring Keyring
	Account string // keyring account, the service name
}

// Resolve returns the first password found and where it came from.
// Finding nothing is not an error here: the deployer rejects an empty
// password so that the failure is reported as a configuration error.
func Resolve(l Lookup) (string, Source, error) {
	if l.Flag != "" {
		return l.Flag, SourceFlag, nil
	}

	if l.Stdin != nil {
		pw, err := input.ReadLine(l.Stdin)
		if err != nil {
			return "", SourceNone, fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return pw, SourceStdin, nil
	}

	if l.Getenv != nil {
		if pw := l.Getenv(EnvPassword); pw != "" {
			return pw, SourceEnv, nil
		}
		if pw := l.Getenv(EnvPasswordLegacy); pw != "" {
			logger.Warn("%s is deprecated, use %s", EnvPasswordLegacy, EnvPassword)
			return pw, SourceEnv, nil
		}
	}

	if l.Keyring != nil && l.Account != "" {
		pw, err := l.Keyring.Get(KeyringService, l.Account)
		switch {
		case err == nil:
			return pw, SourceKeyring, nil
		case errors.Is(err, keyring.ErrNotFound):
			logger.Debug("No keyring entry %s/%s", KeyringService, l.Account)
		default:
			// An unavailable credential store is not fatal; the password
			// is simply missing
			logger.Debug("Keyring unavailable: %v", err)
		}
	}

	return "", SourceNone, nil
}

// Store saves the password for account in the keyring
func Store(k Keyring, account, password string) error {
	if account == "" {
		return fmt.Errorf("keyring account cannot be empty")
	}
	if password == "" {
		return fmt.Errorf("refusing to store an empty password")
	}
	if err := k.Set(KeyringService, account, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}
