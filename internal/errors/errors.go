package errors

import (
	"fmt"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrNotGitRepository indicates the target path is not inside a git working tree
	ErrNotGitRepository = cerr.New("not inside a git working tree")

	// ErrGitOperationFailed indicates a git command returned an error
	ErrGitOperationFailed = cerr.New("git operation failed")

	// ErrInvalidConfiguration indicates an invalid or conflicting user configuration
	ErrInvalidConfiguration = cerr.New("invalid configuration")

	// ErrInvalidFlag indicates a command-line flag could not be parsed
	ErrInvalidFlag = cerr.New("invalid flag")

	// ErrLimitsExceeded indicates the diff is larger than the configured limits
	// and interactive bucketing was not requested
	ErrLimitsExceeded = cerr.New("commit size limits exceeded")

	// ErrCommitFailed indicates staging or committing a bucket failed.
	// It is fatal for the bucketing session.
	ErrCommitFailed = cerr.New("bucket commit failed")

	// ErrPromptAborted indicates the prompt provider could not produce an answer,
	// either because input was closed or the user aborted
	ErrPromptAborted = cerr.New("prompt aborted")

	// ErrLockAcquisitionFailure indicates a lock file could not be acquired
	ErrLockAcquisitionFailure = cerr.New("failed to acquire lock")

	// ErrAlreadyRunning indicates another bucketing session holds the repository lock
	ErrAlreadyRunning = cerr.New("another gitslice session is already running for this repository")
)

// New creates a new error with the given message and a stack trace.
func New(message string) error {
	return cerr.New(message)
}

// Errorf creates a new formatted error.
func Errorf(format string, args ...interface{}) error {
	return cerr.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
// Unlike the standard fmt.Errorf pattern it returns nil for a nil error.
func Wrap(err error, message string) error {
	return cerr.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return cerr.Wrapf(err, format, args...)
}

// Mark returns err unchanged in message and chain, but makes errors.Is(err, sentinel) true.
func Mark(err error, sentinel error) error {
	return cerr.Mark(err, sentinel)
}

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error {
	return cerr.WithHint(err, hint)
}

// Hint returns all hints attached anywhere in err's chain, one per line.
func Hint(err error) string {
	return strings.Join(cerr.GetAllHints(err), "\n")
}

// Is reports whether target is in err's chain.
func Is(err, target error) bool {
	return cerr.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return cerr.As(err, target)
}

// GitError represents an error that occurred during a Git operation.
// It captures the command details, underlying error, and command output.
type GitError struct {
	Operation string
	Args      []string
	Err       error
	Output    string
}

// Error implements the error interface with a detailed, user-friendly error message.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError creates a new GitError with the given parameters.
func NewGitError(operation string, args []string, err error, output string) *GitError {
	return &GitError{
		Operation: operation,
		Args:      args,
		Err:       err,
		Output:    output,
	}
}

// LockError represents an error that occurred when interacting with file locks.
// It includes the lock file path, process ID if available, and underlying error.
type LockError struct {
	LockFile string
	PID      int
	Err      error
}

// Error implements the error interface with details about the lock file and process.
func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("lock error with file %s (PID: %d): %v", e.LockFile, e.PID, e.Err)
	}
	return fmt.Sprintf("lock error with file %s: %v", e.LockFile, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(lockFile string, pid int, err error) *LockError {
	return &LockError{
		LockFile: lockFile,
		PID:      pid,
		Err:      err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
