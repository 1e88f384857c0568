package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/logger"
	"github.com/bashhack/gitslice/internal/numstat"
)

// IsRepository checks if the given path is inside a git working tree.
// If git exits with code 128 the path is not a working tree and (false, nil) is returned.
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(path string) (bool, error) {
	return isRepository(context.Background(), NewExecExecutor(), path)
}

func isRepository(ctx context.Context, executor CommandExecutor, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err := executor.Execute(ctx, cmd); err != nil {
		// Exit code 128 is git's generic fatal error code. For this command it
		// almost always means the directory is not part of a working tree, and
		// every other repository problem is just as fatal to gitslice.
		var exitErr *exec.ExitError
		if gitsliceErrors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return false, nil
		}

		// Unexpected failure (git binary missing, permissions, etc)
		return false, err
	}
	return true, nil
}

// TopLevel returns the root of the working tree containing path.
// git reports diff paths relative to the root, so staging and committing
// must run there rather than in a subdirectory.
func TopLevel(path string) (string, error) {
	return topLevel(context.Background(), NewExecExecutor(), path)
}

func topLevel(ctx context.Context, executor CommandExecutor, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--show-toplevel")
	out, err := executor.ExecuteWithOutput(ctx, cmd)
	if err != nil {
		return "", gitsliceErrors.Wrap(err, "failed to find the working tree root")
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", gitsliceErrors.Errorf("no working tree root for %s", path)
	}
	return filepath.FromSlash(root), nil
}

// Repository runs the git commands of a bucketing session against one working tree.
type Repository struct {
	path     string
	staged   bool
	executor CommandExecutor
	logger   logger.Logger
}

// NewRepository creates a Repository for path using the os/exec executor.
// With staged set, changes are read against HEAD so that staged edits are included.
func NewRepository(path string, staged bool, log logger.Logger) *Repository {
	return NewRepositoryWithExecutor(path, staged, log, NewExecExecutor())
}

// NewRepositoryWithExecutor creates a Repository with a custom executor, mainly for tests.
func NewRepositoryWithExecutor(path string, staged bool, log logger.Logger, executor CommandExecutor) *Repository {
	return &Repository{
		path:     path,
		staged:   staged,
		executor: executor,
		logger:   log,
	}
}

// Path returns the working tree path.
func (r *Repository) Path() string {
	return r.path
}

// Changes returns the current uncommitted changes, one record per file.
// Renames are reported as a deletion plus an addition so that every record
// names a real path.
func (r *Repository) Changes(ctx context.Context) ([]numstat.Change, error) {
	args := []string{"diff", "--numstat", "--no-renames"}
	if r.staged {
		args = append(args, "HEAD")
	}

	out, err := r.runWithOutput(ctx, args...)
	if err != nil {
		return nil, gitsliceErrors.Wrap(err, "failed to read changes")
	}

	changes := numstat.Parse(strings.TrimSpace(out))
	for i := range changes {
		changes[i].File = unquotePath(changes[i].File)
	}
	r.logger.Info("Read %d changed files", len(changes))
	return changes, nil
}

// Stage adds exactly the given paths to the index. Paths gone from the
// working tree are removed from the index instead, which also covers a
// deletion that is already staged.
func (r *Repository) Stage(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return gitsliceErrors.New("no paths to stage")
	}

	var present, missing []string
	for _, p := range paths {
		if _, err := os.Lstat(filepath.Join(r.path, filepath.FromSlash(p))); os.IsNotExist(err) {
			missing = append(missing, p)
		} else {
			present = append(present, p)
		}
	}

	if len(present) > 0 {
		if err := r.run(ctx, append([]string{"add", "--"}, present...)...); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return r.run(ctx, append([]string{"rm", "--cached", "--quiet", "--ignore-unmatch", "--"}, missing...)...)
	}
	return nil
}

// Commit records exactly paths with message. Other staged changes stay in
// the index for a later commit.
func (r *Repository) Commit(ctx context.Context, message string, paths []string) error {
	if len(paths) == 0 {
		return gitsliceErrors.New("no paths to commit")
	}
	return r.run(ctx, append([]string{"commit", "-m", message, "--only", "--"}, paths...)...)
}

func (r *Repository) run(ctx context.Context, args ...string) error {
	allArgs := append([]string{"-C", r.path}, args...)
	r.logger.Info("Running: %s", commandLine("git", allArgs))
	return r.executor.ExecuteWithContext(ctx, "git", allArgs...)
}

func (r *Repository) runWithOutput(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-C", r.path}, args...)
	r.logger.Info("Running: %s", commandLine("git", allArgs))
	return r.executor.ExecuteWithContextAndOutput(ctx, "git", allArgs...)
}

// commandLine renders the shell-equivalent of a command for the debug log.
// Commands are never run through a shell; this is only for reading.
func commandLine(name string, args []string) string {
	words := make([]string, 0, len(args)+1)
	for _, word := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			quoted = strconv.Quote(word)
		}
		words = append(words, quoted)
	}
	return strings.Join(words, " ")
}

// unquotePath undoes git's C-style quoting of unusual path names.
func unquotePath(path string) string {
	if len(path) < 2 || path[0] != '"' || path[len(path)-1] != '"' {
		return path
	}
	unquoted, err := strconv.Unquote(path)
	if err != nil {
		return path
	}
	return unquoted
}
