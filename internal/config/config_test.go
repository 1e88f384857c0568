package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/numstat"
)

// newFlagSet returns a config and a parsed flag set for args.
func newFlagSet(t *testing.T, args ...string) (*Config, *pflag.FlagSet) {
	t.Helper()

	cfg := New()
	fs := pflag.NewFlagSet("gitslice", pflag.ContinueOnError)
	cfg.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cfg, fs
}

// isolate points the config search path and XDG directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, fs := newFlagSet(t, "--repo", dir)
	require.NoError(t, cfg.Load(fs))

	assert.Equal(t, DefaultMaxFiles, cfg.MaxFiles)
	assert.Equal(t, DefaultMaxLines, cfg.MaxLines)
	assert.False(t, cfg.Interactive)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, numstat.Limits{MaxFiles: 10, MaxLines: 1000}, cfg.Limits())
	assert.Equal(t, "dev", cfg.VersionInfo.Version, "version info survives loading")
}

func TestFlagsOverrideEverything(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GITSLICE_MAXFILES", "3")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitslice.yaml"), []byte("maxfiles: 4\nmaxlines: 40\n"), 0o644))

	cfg, fs := newFlagSet(t, "--repo", dir, "--maxFiles", "2", "--interactive", "--quiet")
	require.NoError(t, cfg.Load(fs))

	assert.Equal(t, 2, cfg.MaxFiles)
	assert.Equal(t, 40, cfg.MaxLines, "unset flag falls through to the config file")
	assert.True(t, cfg.Interactive)
	assert.True(t, cfg.Quiet)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GITSLICE_MAXLINES", "0")
	t.Setenv("GITSLICE_NO_COLOR", "true")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitslice.yaml"), []byte("maxlines: 40\nformat: yaml\n"), 0o644))

	cfg, fs := newFlagSet(t, "--repo", dir)
	require.NoError(t, cfg.Load(fs))

	assert.Equal(t, 0, cfg.MaxLines)
	assert.False(t, cfg.Limits().HasLineLimit())
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxfiles: 7\nstaged: true\n"), 0o644))

	cfg, fs := newFlagSet(t, "--repo", dir, "--config", path)
	require.NoError(t, cfg.Load(fs))

	assert.Equal(t, 7, cfg.MaxFiles)
	assert.True(t, cfg.Staged)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	dir := isolate(t)

	cfg, fs := newFlagSet(t, "--repo", dir, "--config", filepath.Join(dir, "nope.yaml"))
	err := cfg.Load(fs)

	require.Error(t, err)
	assert.True(t, gitsliceErrors.Is(err, gitsliceErrors.ErrInvalidConfiguration))
}

func TestValidation(t *testing.T) {
	tests := map[string]struct {
		args      []string
		parameter string
		contains  string
	}{
		"ZeroMaxFiles": {
			args:      []string{"--maxFiles=0"},
			parameter: "maxFiles",
			contains:  "must be at least 1",
		},
		"NegativeMaxLines": {
			args:      []string{"--maxLines=-5"},
			parameter: "maxLines",
			contains:  "must be at least 0",
		},
		"UnknownFormat": {
			args:      []string{"--format=xml"},
			parameter: "format",
			contains:  "must be one of: text, json, yaml",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)

			cfg, fs := newFlagSet(t, append([]string{"--repo", dir}, tc.args...)...)
			err := cfg.Load(fs)
			require.Error(t, err)

			var configErr *gitsliceErrors.ConfigError
			require.True(t, gitsliceErrors.As(err, &configErr))
			assert.Equal(t, tc.parameter, configErr.Parameter)
			assert.Contains(t, err.Error(), tc.contains)
			assert.True(t, gitsliceErrors.Is(err, gitsliceErrors.ErrInvalidConfiguration))
		})
	}
}

func TestFinalize(t *testing.T) {
	dir := isolate(t)

	cfg := New()
	cfg.RepoPath = dir
	require.NoError(t, cfg.Finalize())

	assert.True(t, filepath.IsAbs(cfg.RepoPath))
	assert.Equal(t, filepath.Join(dir, "data", "gitslice", "logs"), filepath.Dir(cfg.LogFile))
	assert.Regexp(t, `gitslice-[0-9a-f]{16}\.log$`, cfg.LogFile)

	cfg.LogFile = "/tmp/explicit.log"
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, "/tmp/explicit.log", cfg.LogFile)
}

func TestFinalizeDefaultsToWorkingDirectory(t *testing.T) {
	isolate(t)

	cfg := New()
	require.NoError(t, cfg.Finalize())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.RepoPath)
}

func TestVersionInfoString(t *testing.T) {
	info := VersionInfo{Version: "v1.2.3", Commit: "abc123", Date: "2025-01-01"}
	assert.Equal(t, "v1.2.3 (abc123) built on 2025-01-01", info.String())
}
