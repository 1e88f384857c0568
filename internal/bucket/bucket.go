package bucket

import (
	"context"
	"strings"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/logger"
	"github.com/bashhack/gitslice/internal/numstat"
	"github.com/bashhack/gitslice/internal/prompt"
	"github.com/bashhack/gitslice/internal/render"
)

// ChangeSource reads and records changes in a working tree.
// *git.Repository is the production implementation.
type ChangeSource interface {
	Changes(ctx context.Context) ([]numstat.Change, error)
	Stage(ctx context.Context, paths []string) error
	// Commit records exactly paths, leaving anything else in the index uncommitted.
	Commit(ctx context.Context, message string, paths []string) error
}

// Outcome tells how a bucketing session ended without error.
type Outcome int

const (
	// OutcomeClean means every change was committed.
	OutcomeClean Outcome = iota

	// OutcomeStopped means the user declined another bucket and changes remain.
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result summarizes a finished session.
type Result struct {
	// Buckets is the number of commits created.
	Buckets int
	Outcome Outcome
}

const (
	continueQuestion = "Do you want to create another bucket for remaining changes?"
	emptyMessage     = "Commit message cannot be empty."
)

type state int

const (
	stateRefresh state = iota
	stateSelect
	stateCommit
	stateContinue
	stateDone
)

// Bucketer splits the working tree into a series of commits, each within the
// limits, by asking the user which files go together.
type Bucketer struct {
	source   ChangeSource
	prompter prompt.Prompter
	limits   numstat.Limits
	logger   logger.Logger
}

// New creates a Bucketer.
func New(source ChangeSource, prompter prompt.Prompter, limits numstat.Limits, log logger.Logger) *Bucketer {
	return &Bucketer{
		source:   source,
		prompter: prompter,
		limits:   limits,
		logger:   log,
	}
}

// session is the state carried between steps.
type session struct {
	number   int
	snapshot []numstat.Change
	bucket   []numstat.Change
	result   Result
}

// Run drives the session until every change is committed, the user stops, or a
// fatal error occurs. Invalid answers are reported and asked again; they never end
// the session. A failed stage or commit ends it with an error matching
// errors.ErrCommitFailed, without asking to continue.
func (b *Bucketer) Run(ctx context.Context) (Result, error) {
	s := &session{number: 1}
	current := stateRefresh

	for current != stateDone {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}

		var err error
		switch current {
		case stateRefresh:
			current, err = b.refresh(ctx, s)
		case stateSelect:
			current, err = b.selectBucket(ctx, s)
		case stateCommit:
			current, err = b.commit(ctx, s)
		case stateContinue:
			current, err = b.confirmContinue(ctx, s)
		}
		if err != nil {
			return s.result, err
		}
	}

	return s.result, nil
}

func (b *Bucketer) refresh(ctx context.Context, s *session) (state, error) {
	changes, err := b.source.Changes(ctx)
	if err != nil {
		return stateDone, gitsliceErrors.Wrap(err, "failed to refresh changes")
	}

	if len(changes) == 0 {
		b.logger.Success("No more changes to commit. All clean.")
		s.result.Outcome = OutcomeClean
		return stateDone, nil
	}

	s.snapshot = changes
	return stateSelect, nil
}

func (b *Bucketer) selectBucket(ctx context.Context, s *session) (state, error) {
	summary := numstat.Summarize(s.snapshot)
	b.logger.StatusMessage("\n📦 Bucket #%d: %d files, %d lines remaining", s.number, summary.Files, summary.Lines)
	b.logger.StatusMessage("%s", render.ChangesTable(s.snapshot))

	req := prompt.SelectRequest{
		Message: selectMessage(s.number, b.limits, len(s.snapshot)),
		Choices: choices(s.snapshot),
		Max:     min(b.limits.MaxFiles, len(s.snapshot)),
	}

	for {
		paths, err := b.prompter.SelectFiles(ctx, req)
		if err != nil {
			return stateDone, err
		}

		if err := req.Validate(paths); err != nil {
			b.logger.WarningToUser("%s", err.Error())
			continue
		}

		bucket := numstat.Select(s.snapshot, paths)
		lines := numstat.Summarize(bucket).Lines
		if b.limits.HasLineLimit() && lines > b.limits.MaxLines {
			b.logger.WarningToUser("This bucket has %d line changes, which exceeds the line limit of %d. Please select fewer files.",
				lines, b.limits.MaxLines)
			continue
		}

		s.bucket = bucket
		return stateCommit, nil
	}
}

func (b *Bucketer) commit(ctx context.Context, s *session) (state, error) {
	paths := numstat.Files(s.bucket)
	b.logger.Info("Staging bucket #%d: %v", s.number, paths)

	if err := b.source.Stage(ctx, paths); err != nil {
		return stateDone, gitsliceErrors.Mark(
			gitsliceErrors.Wrapf(err, "failed to stage bucket #%d", s.number), gitsliceErrors.ErrCommitFailed)
	}

	message, err := b.prompter.Input(ctx, commitQuestion(s.number), validateMessage)
	if err != nil {
		return stateDone, err
	}

	if err := b.source.Commit(ctx, message, paths); err != nil {
		return stateDone, gitsliceErrors.Mark(
			gitsliceErrors.Wrapf(err, "failed to commit bucket #%d", s.number), gitsliceErrors.ErrCommitFailed)
	}

	summary := numstat.Summarize(s.bucket)
	b.logger.Success("Committed bucket #%d: %d files, %d lines.", s.number, summary.Files, summary.Lines)
	s.result.Buckets++
	s.bucket = nil
	return stateContinue, nil
}

func (b *Bucketer) confirmContinue(ctx context.Context, s *session) (state, error) {
	again, err := b.prompter.Confirm(ctx, continueQuestion, true)
	if err != nil {
		return stateDone, err
	}

	if !again {
		b.logger.StatusMessage("👋 Done. You can handle remaining changes manually.")
		s.result.Outcome = OutcomeStopped
		return stateDone, nil
	}

	s.number++
	return stateRefresh, nil
}

func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return gitsliceErrors.New(emptyMessage)
	}
	return nil
}

func choices(changes []numstat.Change) []prompt.Choice {
	out := make([]prompt.Choice, len(changes))
	for i, c := range changes {
		out[i] = prompt.Choice{Label: c.String(), Value: c.File}
	}
	return out
}
