package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/bashhack/gitslice/internal/bucket"
	"github.com/bashhack/gitslice/internal/config"
	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/git"
	"github.com/bashhack/gitslice/internal/lock"
	"github.com/bashhack/gitslice/internal/logger"
	"github.com/bashhack/gitslice/internal/numstat"
	"github.com/bashhack/gitslice/internal/prompt"
	"github.com/bashhack/gitslice/internal/render"
)

const limitsHint = "Reduce bloat or run with --interactive to bucket commits."

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies.
// This struct allows injection of both required and optional dependencies,
// enabling flexible configuration and easier testing.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	// The application will panic if this field is nil.
	Config *config.Config

	// Optional components

	// Logger provides logging functionality (optional, a default will be created if nil).
	Logger logger.Logger

	// Locker guards the bucketing session (optional, a default will be created if nil).
	Locker Locker

	// Repository reads, stages and commits changes (optional, defaults to a git.Repository).
	Repository bucket.ChangeSource

	// Prompter asks the bucketing questions (optional, chosen from the terminal if nil).
	Prompter prompt.Prompter

	// I/O dependencies

	// Stdin is where answers are read from (optional, defaults to os.Stdin).
	Stdin *os.File

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// System dependencies

	// Exit is the function to terminate the application (optional, defaults to os.Exit).
	Exit func(code int)

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository checks if a path is inside a Git working tree (optional, defaults to git.IsRepository).
	IsRepository func(string) (bool, error)

	// TopLevel resolves the root of the working tree (optional, defaults to git.TopLevel).
	TopLevel func(string) (string, error)
}

// App is the main gitslice application.
// It checks the working tree against the limits and, when asked to, runs the
// interactive bucketing session.
type App struct {
	// Config holds the application configuration and settings.
	Config *config.Config

	// Logger provides logging functionality for both internal and user-facing messages.
	Logger logger.Logger

	// Locker keeps a second bucketing session out of the same working tree.
	Locker Locker

	// Repository reads, stages and commits changes.
	Repository bucket.ChangeSource

	// Prompter asks the bucketing questions.
	Prompter prompt.Prompter

	// I/O streams

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies

	exit         func(code int)
	execLookPath func(file string) (string, error)
	isRepository func(string) (bool, error)
	topLevel     func(string) (string, error)

	closeOnce sync.Once
	closeErr  error
}

// NewDefaultApp creates an App with standard dependencies.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return NewApp(AppOptions{
		Config:       cfg,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
		IsRepository: git.IsRepository,
		TopLevel:     git.TopLevel,
	})
}

// NewApp creates an App with custom dependencies specified in opts.
// It panics if opts.Config is nil. Other nil dependencies get defaults, some
// of them only in Run once the configuration and working tree are known.
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Repository:   opts.Repository,
		Prompter:     opts.Prompter,
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
		topLevel:     opts.TopLevel,
	}

	if app.Stdin == nil {
		app.Stdin = os.Stdin
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}
	if app.topLevel == nil {
		app.topLevel = git.TopLevel
	}

	return app
}

// userOutput is where messages for people go. Machine-readable reports own
// stdout, so everything else moves to stderr.
func (a *App) userOutput() io.Writer {
	if a.Config.Format != render.FormatText {
		return a.Stderr
	}
	return a.Stdout
}

// Initialize sets up the logger and prompter when they were not provided.
// It expects a loaded configuration.
func (a *App) Initialize() error {
	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Quiet, a.userOutput(), a.Stderr)
	}

	if a.Prompter == nil {
		a.Prompter = prompt.New(a.Stdin, a.userOutput())
	}

	return nil
}

// openRepository moves the configuration to the working tree root and sets up
// the repository and session lock there. git reports diff paths relative to
// the root, and the lock must be the same from every subdirectory.
func (a *App) openRepository() error {
	root, err := a.topLevel(a.Config.RepoPath)
	if err != nil {
		return gitsliceErrors.Mark(err, gitsliceErrors.ErrGitOperationFailed)
	}
	if root != a.Config.RepoPath {
		a.Logger.Info("Using working tree root %s", root)
	}
	a.Config.RepoPath = root

	if a.Locker == nil && a.Config.Interactive {
		locker, err := lock.New(a.Config.RepoPath)
		if err != nil {
			return gitsliceErrors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	if a.Repository == nil {
		a.Repository = git.NewRepository(a.Config.RepoPath, a.Config.Staged, a.Logger)
	}

	return nil
}

// Run checks the current diff against the limits. Within the limits it
// succeeds. Over them it fails with errors.ErrLimitsExceeded, unless the
// session is interactive, in which case the changes are bucketed into commits.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	a.Logger.Info("Starting gitslice %s in %s", a.Config.VersionInfo.Version, a.Config.RepoPath)

	if err := a.checkRequiredCommands(); err != nil {
		return err
	}

	isRepo, err := a.isRepository(a.Config.RepoPath)
	if err != nil {
		a.Logger.Warning("Failed to check if path is a git repository: %v", err)
		return gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "failed to check repository"), gitsliceErrors.ErrGitOperationFailed)
	}
	if !isRepo {
		return gitsliceErrors.WithHint(gitsliceErrors.ErrNotGitRepository,
			"Run gitslice inside a git repository or point --repo at one.")
	}
	a.Logger.Info("Git repository verified")

	if err := a.openRepository(); err != nil {
		return err
	}

	changes, err := a.Repository.Changes(ctx)
	if err != nil {
		return err
	}

	limits := a.Config.Limits()
	report := render.NewReport(changes, limits)
	if err := a.printReport(report); err != nil {
		return err
	}

	if report.Within {
		a.Logger.Success("Within limits – good to commit.")
		return nil
	}

	summary := numstat.Summary{Files: report.Files, Lines: report.Lines}
	verdict := numstat.Verdict{FilesExceeded: report.FilesExceeded, LinesExceeded: report.LinesExceeded}
	described := verdict.Describe(summary, limits)
	a.Logger.WarningToUser("Commit bloat warning: %s.", described)

	if !a.Config.Interactive {
		return gitsliceErrors.WithHint(gitsliceErrors.Wrap(gitsliceErrors.ErrLimitsExceeded, described), limitsHint)
	}

	return a.runBuckets(ctx, limits)
}

func (a *App) printReport(report render.Report) error {
	if a.Config.Format != render.FormatText {
		return render.WriteReport(a.Stdout, a.Config.Format, report)
	}

	a.Logger.StatusMessage("%s", render.DiffSummary(numstat.Summary{Files: report.Files, Lines: report.Lines}))
	a.Logger.StatusMessage("%s", render.LimitsLine(report.Limits))
	return nil
}

func (a *App) runBuckets(ctx context.Context, limits numstat.Limits) error {
	if err := a.Locker.Acquire(); err != nil {
		if gitsliceErrors.Is(err, gitsliceErrors.ErrAlreadyRunning) {
			return err
		}
		return gitsliceErrors.Mark(err, gitsliceErrors.ErrLockAcquisitionFailure)
	}
	if r, ok := a.Locker.(interface{ Recovered() int }); ok && r.Recovered() != 0 {
		a.Logger.Warning("Recovered a stale session lock left by PID %d", r.Recovered())
	}

	a.Logger.InfoToUser("Starting interactive bucketing. Each bucket must fit %s.", limits)

	result, err := bucket.New(a.Repository, a.Prompter, limits, a.Logger).Run(ctx)
	a.Logger.Info("Bucketing ended: %d commits, outcome %s, err %v", result.Buckets, result.Outcome, err)
	if result.Buckets > 0 {
		a.Logger.InfoToUser("Created %d %s.", result.Buckets, plural(result.Buckets, "commit", "commits"))
	}
	return err
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	if _, err := a.execLookPath("git"); err != nil {
		return gitsliceErrors.WithHint(gitsliceErrors.Wrap(err, "git is not found in PATH"),
			"Please install git and try again.")
	}
	return nil
}

// Close releases resources held by the App. It is safe to call more than
// once and from the signal handler; only the first call does the work.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.close()
	})
	return a.closeErr
}

func (a *App) close() error {
	var result *multierror.Error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			result = multierror.Append(result, gitsliceErrors.Wrap(err, "failed to release lock"))
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			result = multierror.Append(result, gitsliceErrors.Wrap(err, "failed to close logger"))
		}
	}

	return result.ErrorOrNil()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
