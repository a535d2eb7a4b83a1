// Package errors defines the stable error taxonomy for the analysis engine.
//
// File- and rule-scoped failures (parse errors, timeouts, pattern rule
// panics) are recoverable and recorded on the run; only configuration-level
// failures and unreadable roots abort a run.
package errors

import "fmt"

// Code is a stable error code covering every failure mode.
type Code string

const (
	// ParseFailure indicates a file could not be fully parsed. Recoverable:
	// the unit is kept with a partial or empty symbol tree.
	ParseFailure Code = "PARSE_ERROR"
	// ParseTimeout indicates a per-file parse exceeded its deadline.
	// Recoverable; treated as a parse error subtype.
	ParseTimeout Code = "PARSE_TIMEOUT"
	// PatternRule indicates a pattern rule failed internally. Recoverable:
	// the rule is skipped for the run.
	PatternRule Code = "PATTERN_RULE_ERROR"
	// ConfigInvalid indicates invalid configuration (bad root path, bad
	// option values). Fatal.
	ConfigInvalid Code = "CONFIG_INVALID"
	// StoreCorrupt indicates the fingerprint store could not be decoded. Fatal.
	StoreCorrupt Code = "STORE_CORRUPT"
	// ArtifactWrite indicates an artifact could not be written. Fatal for
	// that artifact only; remaining artifacts are still written.
	ArtifactWrite Code = "ARTIFACT_WRITE"
	// Internal indicates an unexpected error.
	Internal Code = "INTERNAL_ERROR"
)

// EngineError is an error with a stable code and optional cause.
type EngineError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// New creates an EngineError.
func New(code Code, message string, cause error) *EngineError {
	return &EngineError{Code: code, Message: message, cause: cause}
}

// Newf creates an EngineError with a formatted message and no cause.
func Newf(code Code, format string, args ...interface{}) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether an error code aborts the whole run.
func IsFatal(code Code) bool {
	switch code {
	case ConfigInvalid, StoreCorrupt:
		return true
	}
	return false
}

// CodeOf extracts the engine error code from err, or Internal if err is not
// an EngineError.
func CodeOf(err error) Code {
	if ee, ok := err.(*EngineError); ok {
		return ee.Code
	}
	return Internal
}
