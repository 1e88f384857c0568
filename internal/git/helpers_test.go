package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bashhack/gitslice/internal/logger"
)

// setupTestRepo creates a git repository with one commit and returns its path.
// The test is skipped when git is not installed.
func setupTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	if len(files) == 0 {
		files = map[string]string{"initial.txt": "Initial content\n"}
	}
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "Initial commit")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLogger() logger.Logger {
	return logger.NewWithOutput(false, "", true, &bytes.Buffer{}, &bytes.Buffer{})
}

// recordingExecutor records the commands it receives instead of running them.
type recordingExecutor struct {
	calls  [][]string
	output string
	err    error
}

func (r *recordingExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	r.calls = append(r.calls, cmd.Args)
	return r.err
}

func (r *recordingExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	r.calls = append(r.calls, cmd.Args)
	return r.output, r.err
}

func (r *recordingExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	return r.Execute(ctx, exec.Command(name, args...))
}

func (r *recordingExecutor) ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error) {
	return r.ExecuteWithOutput(ctx, exec.Command(name, args...))
}
