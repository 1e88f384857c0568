package main

import (
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
)

// newRootCommand builds the gitslice command around app. Flags are bound to
// app.Config and merged with the environment and config file before the run.
func newRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitslice",
		Short: "Keep commits small by splitting an oversized diff into buckets",
		Long: `gitslice checks the uncommitted changes of a git working tree against a
file limit and a line limit.

Within the limits it exits 0. Over them it prints a commit bloat warning and
exits 1, which makes it a natural pre-commit hook. With --interactive it
instead walks you through splitting the changes into several commits, each
within the limits.`,
		Example: `  gitslice
  gitslice --maxFiles 5 --maxLines 300
  gitslice --interactive
  gitslice --quiet --format json`,
		Version:       app.Config.VersionInfo.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Config.Load(cmd.Flags()); err != nil {
				return err
			}
			if app.Config.NoColor {
				color.NoColor = true
			}
			return app.Run(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("gitslice {{.Version}}\n")
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return gitsliceErrors.NewConfigError("flags", nil,
			gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "invalid flag"), gitsliceErrors.ErrInvalidFlag))
	})

	// Flag names are mixed case (maxFiles); accept any spelling of them.
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch strings.ToLower(name) {
		case "maxfiles":
			return "maxFiles"
		case "maxlines":
			return "maxLines"
		}
		return pflag.NormalizedName(name)
	})
	app.Config.SetupFlags(cmd.Flags())

	return cmd
}

// Execute runs the command line args and returns the process exit code.
// Errors are reported on stderr together with any hints they carry.
func (a *App) Execute(ctx context.Context, args []string) int {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if closeErr := a.Close(); closeErr != nil {
		reportError(a.Stderr, gitsliceErrors.Wrap(closeErr, "cleanup failed"))
	}

	if err != nil {
		if ctx.Err() != nil {
			// A killed git command reports its signal, not the cancellation.
			err = gitsliceErrors.Mark(err, context.Canceled)
		}
		reportError(a.Stderr, err)
		return 1
	}
	return 0
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgYellow)
)

func reportError(w io.Writer, err error) {
	if gitsliceErrors.Is(err, context.Canceled) {
		_, _ = errorColor.Fprintln(w, "🔴 Interrupted.")
		return
	}

	_, _ = errorColor.Fprintf(w, "🔴 Error: %v\n", err)
	if hint := gitsliceErrors.Hint(err); hint != "" {
		for _, line := range strings.Split(hint, "\n") {
			_, _ = hintColor.Fprintf(w, "💡 %s\n", line)
		}
	}
}
