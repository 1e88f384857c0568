// Package logger provides logging facilities for the gitslice application.
//
// It separates two audiences. Messages for the developer running gitslice are
// printed to the terminal with an emoji prefix and a color. Messages for whoever
// debugs gitslice afterwards go to a JSON log file written by zap, and only when
// debug logging is enabled.
//
// # Core Components
//
// - Logger: The interface injected into every component that reports progress
// - DefaultLogger: Terminal output through fatih/color plus an optional zap file log
//
// # Message Types
//
// - Info: debug log only
// - Warning: debug log, and the terminal unless quiet
// - Error: debug log and stderr, always
// - InfoToUser, Success, StatusMessage: the terminal unless quiet
// - WarningToUser: the terminal, always
//
// Quiet mode exists for pre-commit hooks: a passing check prints nothing, while
// warnings about oversized diffs and errors still reach the user.
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Quiet)
//	defer log.Close()
//
//	log.Info("running %s", command)
//	log.StatusMessage("📊 Current diff: %d files changed", files)
//	log.WarningToUser("Commit bloat warning: %s", details)
//
// Colors are disabled automatically when stdout is not a terminal, and can be
// turned off explicitly through color.NoColor.
package logger
