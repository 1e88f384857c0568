// Package git provides the Git operations gitslice needs.
//
// It reads the working tree diff as numstat records, stages an explicit list
// of paths and records commits. Everything else (choosing buckets, prompting,
// enforcing limits) lives in the callers.
//
// # Core Components
//
// - Repository: Runs diff, add and commit against one working tree
// - CommandExecutor: Interface for executing Git commands
// - IsRepository: Checks whether a path is inside a Git working tree
// - TopLevel: Resolves the root of the working tree containing a path
//
// # Usage
//
//	root, err := git.TopLevel("/path/to/repo/subdir")
//	if err != nil {
//	    // Handle error
//	}
//	repo := git.NewRepository(root, false, logger)
//
//	changes, err := repo.Changes(ctx)
//	if err != nil {
//	    // Handle error
//	}
//
//	bucket := numstat.Files(changes[:2])
//	if err := repo.Stage(ctx, bucket); err != nil {
//	    // Handle error
//	}
//	if err := repo.Commit(ctx, "Split part 1", bucket); err != nil {
//	    // Handle error
//	}
//
// # Implementation Notes
//
// The package uses the command-line Git executable rather than a Go Git library.
// Commands receive an argument vector and never pass through a shell, so paths
// and commit messages need no escaping. The shell-equivalent command line is
// only rendered for the debug log.
//
// Diff paths are relative to the working tree root, so a Repository should be
// opened at TopLevel. Renames are read with --no-renames, so both sides appear
// as real paths. Commit uses --only so that changes staged outside the bucket
// stay in the index.
//
// Failed commands are returned as *errors.GitError carrying git's stderr. They
// match errors.ErrGitOperationFailed and still unwrap to *exec.ExitError.
//
// # Dependencies
//
// This package requires:
//
// - A functional Git installation in the system PATH
// - A valid Git working tree at the configured path
package git
