// Package gitslice keeps commits small.
//
// gitslice measures the uncommitted changes of a git working tree and compares
// them with a file limit and a line limit. Over the limits it warns and fails,
// which makes it a natural pre-commit hook. With --interactive it instead walks
// you through splitting the changes into several commits ("buckets") that each
// stay within the limits.
//
// # Quick Start
//
//	# Navigate to your Git repository
//	cd /path/to/your/repo
//
//	# Check the current diff against 10 files / 1000 lines
//	gitslice
//
//	# Split an oversized diff into commits
//	gitslice --interactive --maxFiles 5 --maxLines 300
//
// # Pre-commit Hook
//
//	#!/bin/sh
//	exec gitslice --quiet --staged
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/gitslice: Command-line interface
//   - internal/numstat: Numstat parsing, summaries and limit evaluation
//   - internal/bucket: The interactive bucketing session
//   - internal/git: Git command execution
//   - internal/prompt: Line and checklist prompts
//   - internal/render: Tables and JSON/YAML reports
//   - internal/config: Flags, environment and config file
//   - internal/lock: Per-repository session lock
//   - internal/logger: User messages and the debug log
//   - internal/errors: Error handling utilities
//
// # Platform Support
//
// gitslice runs on macOS, Linux and other Unix-like systems. The session lock
// relies on flock.
//
// # Implementation Notes
//
// gitslice uses the command-line Git executable rather than a Go Git library.
// Commands are executed with an argument vector through an interface that can
// be replaced for testing, so file names and commit messages never pass
// through a shell.
package gitslice
