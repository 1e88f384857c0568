package errors

import (
	stderrors "errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrap(originalErr, "wrapped message")

	assert.True(t, Is(wrappedErr, originalErr))
	assert.Equal(t, "wrapped message: original error", wrappedErr.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing to wrap"))
}

func TestWrapf(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrapf(originalErr, "wrapped message with %s", "format")

	assert.True(t, Is(wrappedErr, originalErr))
	assert.Equal(t, "wrapped message with format: original error", wrappedErr.Error())
}

func TestMarkKeepsChain(t *testing.T) {
	exitErr := &exec.ExitError{}
	marked := Mark(exitErr, ErrGitOperationFailed)

	assert.True(t, Is(marked, ErrGitOperationFailed))

	var target *exec.ExitError
	assert.True(t, As(marked, &target), "marked error should still expose the original type")
}

func TestHint(t *testing.T) {
	err := WithHint(ErrLimitsExceeded, "run with --interactive")
	err = Wrap(err, "check failed")

	assert.True(t, Is(err, ErrLimitsExceeded))
	assert.Equal(t, "run with --interactive", Hint(err))
	assert.Empty(t, Hint(New("no hint here")))
}

func TestGitError(t *testing.T) {
	err := stderrors.New("exit status 128")
	gitErr := NewGitError("commit", []string{"-m", "msg"}, err, "nothing to commit\n")

	assert.Equal(t, "git commit failed: nothing to commit: exit status 128", gitErr.Error())
	assert.ErrorIs(t, gitErr, err)
}

func TestLockError(t *testing.T) {
	err := stderrors.New("file not found")

	tests := map[string]struct {
		pid      int
		expected string
	}{
		"WithPID":    {pid: 1234, expected: "lock error with file /tmp/lock.file (PID: 1234): file not found"},
		"WithoutPID": {pid: 0, expected: "lock error with file /tmp/lock.file: file not found"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			lockErr := NewLockError("/tmp/lock.file", tc.pid, err)
			assert.Equal(t, tc.expected, lockErr.Error())
			assert.ErrorIs(t, lockErr, err)
		})
	}
}

func TestConfigError(t *testing.T) {
	err := stderrors.New("must be at least 1")

	configErr := NewConfigError("maxFiles", 0, err)
	assert.Equal(t, "configuration error for maxFiles = 0: must be at least 1", configErr.Error())

	configErr = NewConfigError("maxFiles", nil, err)
	assert.Equal(t, "configuration error for maxFiles: must be at least 1", configErr.Error())

	var target *ConfigError
	wrapped := Wrap(configErr, "startup")
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "maxFiles", target.Parameter)
}
