// Package config provides configuration handling for the gitslice application.
//
// Settings are merged by viper from four sources, highest priority first:
//
// 1. Command-line flags
// 2. GITSLICE_* environment variables
// 3. A .gitslice.yaml file in the repository or the home directory (or --config)
// 4. Default values
//
// # Environment Variables
//
//	GITSLICE_MAXFILES      Max files per commit (default: 10)
//	GITSLICE_MAXLINES      Max changed lines per commit, 0 disables (default: 1000)
//	GITSLICE_INTERACTIVE   Bucket commits interactively when limits are exceeded
//	GITSLICE_QUIET         Hide informational messages
//	GITSLICE_STAGED        Include staged changes in the diff
//	GITSLICE_REPO          Path to repository (default: current directory)
//	GITSLICE_FORMAT        Report format: text, json or yaml
//	GITSLICE_NO_COLOR      Disable colored output
//	GITSLICE_DEBUG         Enable debug logging
//	GITSLICE_LOG_FILE      Path to log file
//
// # Config File
//
//	# .gitslice.yaml
//	maxfiles: 8
//	maxlines: 400
//
// # Usage
//
//	cfg := config.New()
//	cfg.SetupFlags(cmd.Flags())
//	// after the flags are parsed
//	if err := cfg.Load(cmd.Flags()); err != nil {
//	    // Handle error
//	}
//	limits := cfg.Limits()
//
// Validation failures are returned as *errors.ConfigError wrapping
// errors.ErrInvalidConfiguration.
package config
