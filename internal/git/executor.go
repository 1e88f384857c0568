package git

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/bashhack/gitslice/internal/errors"
)

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// Execute runs a prepared command and returns an error if it fails
	Execute(ctx context.Context, cmd *exec.Cmd) error

	// ExecuteWithOutput runs a prepared command and returns its stdout
	ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error)

	// ExecuteWithContext builds and runs a command bound to ctx
	ExecuteWithContext(ctx context.Context, name string, args ...string) error

	// ExecuteWithContextAndOutput builds and runs a command bound to ctx and returns its stdout
	ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var stderr bytes.Buffer
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return commandError(cmd, err, stderr.String())
	}
	return nil
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput
func (e *ExecExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(cmd, err, stderr.String())
	}
	return stdout.String(), nil
}

// ExecuteWithContext implements CommandExecutor.ExecuteWithContext
func (e *ExecExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	return e.Execute(ctx, exec.CommandContext(ctx, name, args...))
}

// ExecuteWithContextAndOutput implements CommandExecutor.ExecuteWithContextAndOutput
func (e *ExecExecutor) ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error) {
	return e.ExecuteWithOutput(ctx, exec.CommandContext(ctx, name, args...))
}

// commandError converts a failed run into a GitError. The underlying error keeps
// its chain, so both errors.Is(err, ErrGitOperationFailed) and
// errors.As(err, **exec.ExitError) hold.
func commandError(cmd *exec.Cmd, err error, stderr string) error {
	operation, args := splitCommand(cmd.Args)
	return errors.NewGitError(operation, args, errors.Mark(err, errors.ErrGitOperationFailed), stderr)
}

// splitCommand returns the git subcommand and its arguments, skipping the
// program name and any leading "-C <dir>" pair.
func splitCommand(argv []string) (string, []string) {
	if len(argv) == 0 {
		return "", nil
	}
	rest := argv[1:]
	for len(rest) >= 2 && rest[0] == "-C" {
		rest = rest[2:]
	}
	if len(rest) == 0 {
		return argv[0], nil
	}
	return rest[0], rest[1:]
}
