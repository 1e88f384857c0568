package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/numstat"
)

const (
	// DefaultMaxFiles is the default number of files allowed in one commit.
	DefaultMaxFiles = 10

	// DefaultMaxLines is the default number of changed lines (added plus deleted)
	// allowed in one commit. Zero disables the line limit.
	DefaultMaxLines = 1000

	// DefaultFormat is the default report format of the limit check.
	DefaultFormat = "text"

	configName = ".gitslice"
	configType = "yaml"
	envPrefix  = "GITSLICE"
)

// Config holds all gitslice application settings.
// Values come from command-line flags, GITSLICE_* environment variables,
// a .gitslice.yaml file and the defaults, in that order of precedence.
type Config struct {
	// Limits

	// MaxFiles caps the number of files per commit and per bucket.
	MaxFiles int `mapstructure:"maxfiles" validate:"min=1"`

	// MaxLines caps the changed lines per commit and per bucket. Zero disables it.
	MaxLines int `mapstructure:"maxlines" validate:"min=0"`

	// Behavior

	// Interactive starts the bucketing session when the limits are exceeded
	// instead of failing.
	Interactive bool `mapstructure:"interactive"`

	// Staged includes staged changes by diffing against HEAD instead of the index.
	Staged bool `mapstructure:"staged"`

	// RepoPath is the repository to inspect. Empty means the current directory.
	RepoPath string `mapstructure:"repo"`

	// Output

	// Quiet hides informational messages.
	Quiet bool `mapstructure:"quiet"`

	// Format selects the limit check report: text, json or yaml.
	Format string `mapstructure:"format" validate:"oneof=text json yaml"`

	// NoColor disables ANSI colors in terminal output.
	NoColor bool `mapstructure:"no-color"`

	// Debugging options

	// Debug enables the JSON debug log.
	Debug bool `mapstructure:"debug"`

	// LogFile is where the debug log is written. Empty means a per-repository
	// file under $XDG_DATA_HOME/gitslice/logs.
	LogFile string `mapstructure:"log-file"`

	// ConfigFile is an explicit config file path, set with --config.
	ConfigFile string `mapstructure:"config"`

	// VersionInfo contains version, commit, and build date information.
	// This is typically injected at build time.
	VersionInfo VersionInfo `mapstructure:"-"`
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// String renders the version the way --version prints it.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (%s) built on %s", v.Version, v.Commit, v.Date)
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		MaxFiles: DefaultMaxFiles,
		MaxLines: DefaultMaxLines,
		Format:   DefaultFormat,
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// SetupFlags registers the command-line flags on fs, using c's current values as defaults.
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.MaxFiles, "maxFiles", c.MaxFiles, "Max number of files allowed per commit")
	fs.IntVar(&c.MaxLines, "maxLines", c.MaxLines, "Max number of changed lines (added+deleted) allowed per commit. Use 0 to disable line limit.")
	fs.BoolVar(&c.Interactive, "interactive", c.Interactive, "If limits are exceeded, start interactive bucketing instead of just failing.")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "Print less info (for pre-commit hook use).")
	fs.BoolVar(&c.Staged, "staged", c.Staged, "Include staged changes (diff against HEAD)")
	fs.StringVar(&c.RepoPath, "repo", c.RepoPath, "Path to repository (default: current directory)")
	fs.StringVar(&c.Format, "format", c.Format, "Report format of the limit check: text, json or yaml")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colored output")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Path to log file (default: ~/.local/share/gitslice/logs/gitslice-{repo-hash}.log)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to config file (default: .gitslice.yaml in the repository or home directory)")
}

// Load merges the config file, environment and the flags in fs into c, then validates and finalizes it.
// fs may be nil, in which case only the file, environment and c's values are used.
func (c *Config) Load(fs *pflag.FlagSet) error {
	v := viper.New()
	c.applyDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return gitsliceErrors.NewConfigError("flags", nil,
				gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidFlag, err.Error()))
		}
	}

	if configFile := v.GetString("config"); configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return gitsliceErrors.NewConfigError("config", configFile,
				gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidConfiguration, err.Error()))
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if repo := v.GetString("repo"); repo != "" {
			v.AddConfigPath(repo)
		} else {
			v.AddConfigPath(".")
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !gitsliceErrors.As(err, &notFound) {
			return gitsliceErrors.NewConfigError("config", v.ConfigFileUsed(),
				gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidConfiguration, err.Error()))
		}
	}

	versionInfo := c.VersionInfo
	if err := v.Unmarshal(c); err != nil {
		return gitsliceErrors.NewConfigError("config", nil,
			gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidConfiguration, err.Error()))
	}
	c.VersionInfo = versionInfo

	if err := c.Validate(); err != nil {
		return err
	}
	return c.Finalize()
}

// applyDefaults seeds viper with c's current values so that an unset source never zeroes a field.
func (c *Config) applyDefaults(v *viper.Viper) {
	v.SetDefault("maxfiles", c.MaxFiles)
	v.SetDefault("maxlines", c.MaxLines)
	v.SetDefault("interactive", c.Interactive)
	v.SetDefault("quiet", c.Quiet)
	v.SetDefault("staged", c.Staged)
	v.SetDefault("repo", c.RepoPath)
	v.SetDefault("format", c.Format)
	v.SetDefault("no-color", c.NoColor)
	v.SetDefault("debug", c.Debug)
	v.SetDefault("log-file", c.LogFile)
	v.SetDefault("config", c.ConfigFile)
}

// Validate checks the limits and the report format.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !gitsliceErrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return gitsliceErrors.NewConfigError("config", nil,
			gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidConfiguration, err.Error()))
	}

	fe := fieldErrs[0]
	return gitsliceErrors.NewConfigError(flagName(fe.Field()), fe.Value(),
		gitsliceErrors.Wrap(gitsliceErrors.ErrInvalidConfiguration, describeRule(fe)))
}

// flagName maps a struct field to the flag users know it by.
func flagName(field string) string {
	switch field {
	case "MaxFiles":
		return "maxFiles"
	case "MaxLines":
		return "maxLines"
	case "Format":
		return "format"
	default:
		return field
	}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Finalize resolves the repository path and the default log file location.
func (c *Config) Finalize() error {
	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return gitsliceErrors.NewConfigError("repo", "", gitsliceErrors.Wrap(err, "failed to get current directory"))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return gitsliceErrors.NewConfigError("repo", c.RepoPath, gitsliceErrors.Wrap(err, "failed to resolve absolute path"))
	}
	c.RepoPath = absRepoPath

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])
		c.LogFile = filepath.Join(logDir, "gitslice", "logs", fmt.Sprintf("gitslice-%s.log", repoHash))
	}

	return nil
}

// Limits returns the commit size limits.
func (c *Config) Limits() numstat.Limits {
	return numstat.Limits{MaxFiles: c.MaxFiles, MaxLines: c.MaxLines}
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
