// Package bucket runs the interactive session that turns an oversized diff
// into several commits that each respect the limits.
//
// The session moves through explicit states, passing the current snapshot of
// changes between them:
//
//	refresh -> select -> commit -> continue? -> refresh ...
//
// Refresh reads the live changes and ends the session when none are left.
// Select asks for at most min(MaxFiles, remaining) files and refuses buckets
// over the line limit without staging anything. Commit stages the chosen
// paths and commits them with a non-empty message. A failed stage or commit
// ends the session immediately.
package bucket
