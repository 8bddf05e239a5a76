// Package errors provides standardized error types for the certdeploy CLI tool.
//
// Every failure in a deployment run is reported as a DeployError so the CLI
// can print one consistent message and exit non-zero, whatever step failed.
//
// # Error Types
//
// DeployError is the primary error type, containing:
//   - Code: Categorizes the error (CONFIG, EXECUTION, VALIDATION, ...)
//   - Message: Human-readable error description
//   - Step: The deployment step that failed (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// Two codes carry almost every failure:
//   - CONFIG: missing password, no https connector, keytool not found
//   - EXECUTION: an external process (aws, keytool, service manager) exited non-zero
//
// # Sentinel Errors
//
// Each failure class has a sentinel. A sentinel with an empty Message matches
// every error of its code; one with a Message matches only that failure:
//
//	errors.Is(err, errors.ErrConfig)          // any configuration error
//	errors.Is(err, errors.ErrPasswordMissing) // exactly the missing password
//
// # Usage
//
//	// Tag a failure with its sentinel and the step it happened in
//	return errors.Fail(errors.ErrFetchFailed, "fetch", err)
//
//	// Plain configuration or validation errors
//	return errors.Config("server.xml has no https connector")
//	return errors.Validation("bucket cannot be empty")
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeConfig, "failed to load profile", err)
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeConfig     ErrorCode = "CONFIG"     // Fatal configuration error
	ErrCodeValidation ErrorCode = "VALIDATION" // Input validation failed
	ErrCodeExecution  ErrorCode = "EXECUTION"  // External process failed
	ErrCodePlatform   ErrorCode = "PLATFORM"   // Unsupported operating system
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Internal/unexpected error
)

// DeployError represents a structured error with context about the failed step.
type DeployError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Step    string    // Deployment step (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Step != "" {
		return fmt.Sprintf("%s: %s", e.Step, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Codes must be equal; a target with a message must also match the message.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsExecution reports whether err is an external process failure.
func IsExecution(err error) bool {
	return errors.Is(err, ErrExecution)
}

// Category sentinels, matching any error of their code.
var (
	ErrConfig     = &DeployError{Code: ErrCodeConfig}
	ErrValidation = &DeployError{Code: ErrCodeValidation}
	ErrExecution  = &DeployError{Code: ErrCodeExecution}
	ErrPlatform   = &DeployError{Code: ErrCodePlatform}
)

// Sentinel errors for each failure class.
// Use these with errors.Is() for error checking.
var (
	// ErrPasswordMissing indicates no keystore password was supplied by flag, stdin, environment or keyring.
	ErrPasswordMissing = &DeployError{Code: ErrCodeConfig, Message: "keystore password not supplied"}

	// ErrNoHTTPSConnector indicates the server configuration has no connector with scheme="https".
	ErrNoHTTPSConnector = &DeployError{Code: ErrCodeConfig, Message: "no https connector in server configuration"}

	// ErrKeystoreFileMissing indicates the https connector does not reference a keystore file.
	ErrKeystoreFileMissing = &DeployError{Code: ErrCodeConfig, Message: "https connector has no keystore file"}

	// ErrServerConfigInvalid indicates the server configuration could not be read or parsed.
	ErrServerConfigInvalid = &DeployError{Code: ErrCodeConfig, Message: "invalid server configuration"}

	// ErrKeytoolNotFound indicates the keytool executable could not be resolved.
	ErrKeytoolNotFound = &DeployError{Code: ErrCodeConfig, Message: "keytool not found"}

	// ErrDirectory indicates a local directory could not be created.
	ErrDirectory = &DeployError{Code: ErrCodeExecution, Message: "failed to create directory"}

	// ErrFetchFailed indicates the object-store copy failed.
	ErrFetchFailed = &DeployError{Code: ErrCodeExecution, Message: "certificate fetch failed"}

	// ErrCertificateInvalid indicates the downloaded PKCS#12 bundle could not be opened.
	ErrCertificateInvalid = &DeployError{Code: ErrCodeExecution, Message: "certificate bundle unreadable"}

	// ErrServiceStop indicates the service manager failed to stop the service.
	ErrServiceStop = &DeployError{Code: ErrCodeExecution, Message: "failed to stop service"}

	// ErrImportFailed indicates keytool failed to import the certificate.
	ErrImportFailed = &DeployError{Code: ErrCodeExecution, Message: "keystore import failed"}

	// ErrServiceStart indicates the service manager failed to start the service.
	ErrServiceStart = &DeployError{Code: ErrCodeExecution, Message: "failed to start service"}

	// ErrUnsupportedPlatform indicates no service manager exists for this OS.
	ErrUnsupportedPlatform = &DeployError{Code: ErrCodePlatform, Message: "unsupported platform"}
)

// Fail creates an error of the sentinel's class, tagged with the step and cause.
func Fail(sentinel *DeployError, step string, err error) error {
	return &DeployError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Step:    step,
		Err:     err,
	}
}

// Config creates a configuration error with a custom message.
func Config(msg string) error {
	return &DeployError{
		Code:    ErrCodeConfig,
		Message: msg,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &DeployError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &DeployError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WithStep returns err tagged with step. A DeployError without a step is
// copied with the step set; any other error is wrapped as INTERNAL.
func WithStep(step string, err error) error {
	if err == nil {
		return nil
	}
	var de *DeployError
	if errors.As(err, &de) {
		if de.Step != "" {
			return err
		}
		cp := *de
		cp.Step = step
		return &cp
	}
	return &DeployError{Code: ErrCodeInternal, Step: step, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
