package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the common logging interface used throughout the application.
// It separates internal (debug) logs from user-facing messages.
type Logger interface {
	// Private logging methods (written to the debug log file only)

	// Info logs an informational message for debugging purposes.
	Info(format string, args ...interface{})

	// Warning logs a warning message. Unless quiet mode is on it is also shown to the user.
	Warning(format string, args ...interface{})

	// Error logs an error message and always shows it to the user on stderr.
	Error(format string, args ...interface{})

	// User-facing logging methods (written to the debug log file and stdout)

	// InfoToUser logs an informational message intended for users.
	// Suppressed in quiet mode.
	InfoToUser(format string, args ...interface{})

	// WarningToUser logs a warning message intended for users.
	// These are always shown, quiet mode included.
	WarningToUser(format string, args ...interface{})

	// Success logs a success message to the user. Suppressed in quiet mode.
	Success(format string, args ...interface{})

	// StatusMessage prints a plain status line to the user. Suppressed in quiet mode.
	// It is not written to the debug log.
	StatusMessage(format string, args ...interface{})

	// Close flushes the debug log and closes its file handle.
	Close() error
}

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// DefaultLogger writes colored messages for the user and, when debug logging is
// enabled, structured JSON lines to a log file.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *zap.Logger
	enabled bool
	logFile string
	quiet   bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New creates a new Logger instance writing to the process stdout and stderr
func New(enabled bool, logFile string, quiet bool) Logger {
	return NewWithOutput(enabled, logFile, quiet, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, quiet bool, stdout, stderr io.Writer) *DefaultLogger {
	l := &DefaultLogger{
		logger:  zap.NewNop(),
		enabled: enabled,
		logFile: logFile,
		quiet:   quiet,
		stdout:  stdout,
		stderr:  stderr,
	}

	if !enabled || logFile == "" {
		l.enabled = false
		return l
	}

	if logDir := filepath.Dir(logFile); logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			_, _ = warningColor.Fprintf(stderr, "⚠️  Failed to create log directory: %v\n", err)
		}
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_, _ = warningColor.Fprintf(stderr, "⚠️  Failed to open log file: %v, debug logging disabled\n", err)
		l.enabled = false
		return l
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zap.DebugLevel)

	l.file = f
	l.logger = zap.New(core).With(zap.Int("pid", os.Getpid()))
	l.logger.Info("gitslice debug logging started")

	if !quiet {
		_, _ = fmt.Fprintf(stdout, "🔍 Debug logging enabled. Logs will be written to: %s\n", logFile)
	}

	return l
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}
	l.logger.Info(fmt.Sprintf(format, args...))
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Info(msg)

	if !l.quiet {
		_, _ = infoColor.Fprintf(l.stdout, "ℹ️  %s\n", msg)
	}
}

// Success logs a success message to both file and stdout
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Info(msg)

	if !l.quiet {
		_, _ = successColor.Fprintf(l.stdout, "✅ %s\n", msg)
	}
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Warn(msg)

	if !l.quiet {
		_, _ = warningColor.Fprintf(l.stdout, "⚠️  %s\n", msg)
	}
}

// WarningToUser logs a warning message to both file and stdout
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Warn(msg)

	_, _ = warningColor.Fprintf(l.stdout, "🚨 %s\n", msg)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Error(msg)

	// Errors are shown regardless of quiet mode
	_, _ = errorColor.Fprintf(l.stderr, "🔴 %s\n", msg)
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.quiet {
		return
	}
	_, _ = fmt.Fprintf(l.stdout, format+"\n", args...)
}

// Close flushes the zap core and closes the log file
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	_ = l.logger.Sync()
	err := l.file.Close()
	l.file = nil
	l.logger = zap.NewNop()
	l.enabled = false
	return err
}

// SetStdout sets a custom writer for user-facing stdout messages only.
// This method is thread-safe and is primarily intended for testing.
func (l *DefaultLogger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

// SetStderr sets a custom writer for user-facing stderr messages only.
// This method is thread-safe and is primarily intended for testing.
func (l *DefaultLogger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}
