// Package main implements gitslice, a guard against oversized commits.
//
// gitslice measures the uncommitted changes of a git working tree with
// "git diff --numstat" and compares them with two limits: the number of files
// and the number of changed lines (added plus deleted). It is meant to run by
// hand before committing or as a pre-commit hook.
//
// # Basic Usage
//
//	gitslice                              # Check against 10 files / 1000 lines
//	gitslice --maxFiles 5 --maxLines 300  # Custom limits
//	gitslice --maxLines 0                 # Only limit the number of files
//	gitslice --interactive                # Split an oversized diff into commits
//	gitslice --quiet                      # Only warnings and errors (hooks)
//	gitslice --format json                # Machine-readable report on stdout
//
// # Configuration Options
//
// Every flag can also be set with a GITSLICE_* environment variable or in a
// .gitslice.yaml file in the repository or home directory:
//
//	--maxFiles      Max files per commit (env: GITSLICE_MAXFILES)
//	--maxLines      Max changed lines per commit, 0 disables (env: GITSLICE_MAXLINES)
//	--interactive   Bucket commits when limits are exceeded (env: GITSLICE_INTERACTIVE)
//	--quiet         Hide informational messages (env: GITSLICE_QUIET)
//	--staged        Include staged changes, diffing against HEAD (env: GITSLICE_STAGED)
//	--repo          Repository path (env: GITSLICE_REPO)
//	--format        text, json or yaml (env: GITSLICE_FORMAT)
//	--no-color      Disable colors (env: GITSLICE_NO_COLOR)
//	--debug         Write a JSON debug log (env: GITSLICE_DEBUG)
//	--log-file      Debug log location (env: GITSLICE_LOG_FILE)
//	--config        Explicit config file
//	--version       Print version information and exit
//
// # Interactive Bucketing
//
// With --interactive an oversized diff starts a session. Each round shows the
// remaining files, asks which of them form the next bucket (at most maxFiles,
// and within maxLines together), asks for a commit message and commits exactly
// those files. The session ends when nothing is left or when you decline
// another bucket. Only one session per repository can run at a time.
//
// # Exit Codes
//
//	0  Within the limits, or the interactive session finished
//	1  Limits exceeded without --interactive, not a git working tree,
//	   git missing, a failed commit, a bad configuration or any other error
package main
