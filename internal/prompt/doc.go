// Package prompt asks the questions of an interactive bucketing session.
//
// Two implementations of Prompter are provided. LinePrompter reads one answer
// per line from any io.Reader and accepts selections like "1,3-4" or "all".
// TerminalPrompter shows a bubbletea checklist for file selection when both
// stdin and stdout are terminals. New picks between them.
//
// Invalid answers are reported and asked again. Closed input or an abort
// (esc, ctrl+c) ends the prompt with an error matching errors.ErrPromptAborted.
package prompt
