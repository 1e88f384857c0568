package bucket

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/logger"
	"github.com/bashhack/gitslice/internal/numstat"
	"github.com/bashhack/gitslice/internal/prompt"
)

func init() {
	color.NoColor = true
}

// fakeSource serves one snapshot per Changes call and records what is staged and committed.
type fakeSource struct {
	snapshots [][]numstat.Change
	refreshes int
	staged    [][]string
	commits   []string
	committed [][]string

	changesErr error
	stageErr   error
	commitErr  error
}

func (f *fakeSource) Changes(ctx context.Context) ([]numstat.Change, error) {
	if f.changesErr != nil {
		return nil, f.changesErr
	}
	if f.refreshes >= len(f.snapshots) {
		return nil, nil
	}
	snapshot := f.snapshots[f.refreshes]
	f.refreshes++
	return snapshot, nil
}

func (f *fakeSource) Stage(ctx context.Context, paths []string) error {
	if f.stageErr != nil {
		return f.stageErr
	}
	f.staged = append(f.staged, paths)
	return nil
}

func (f *fakeSource) Commit(ctx context.Context, message string, paths []string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, message)
	f.committed = append(f.committed, paths)
	return nil
}

// scriptedPrompter answers from queues and records every request.
type scriptedPrompter struct {
	selections [][]string
	messages   []string
	confirms   []bool

	requests  []prompt.SelectRequest
	asked     []string
	confirmed int
}

func (p *scriptedPrompter) SelectFiles(ctx context.Context, req prompt.SelectRequest) ([]string, error) {
	p.requests = append(p.requests, req)
	if len(p.selections) == 0 {
		return nil, gitsliceErrors.ErrPromptAborted
	}
	next := p.selections[0]
	p.selections = p.selections[1:]
	return next, nil
}

func (p *scriptedPrompter) Input(ctx context.Context, message string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, message)
	for len(p.messages) > 0 {
		next := p.messages[0]
		p.messages = p.messages[1:]
		if validate == nil || validate(next) == nil {
			return next, nil
		}
	}
	return "", gitsliceErrors.ErrPromptAborted
}

func (p *scriptedPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	p.confirmed++
	if len(p.confirms) == 0 {
		return def, nil
	}
	next := p.confirms[0]
	p.confirms = p.confirms[1:]
	return next, nil
}

var abc = []numstat.Change{
	{File: "a", Added: 10},
	{File: "b", Deleted: 5},
	{File: "c", Added: 2000},
}

func newTestBucketer(source ChangeSource, p prompt.Prompter, limits numstat.Limits) (*Bucketer, *bytes.Buffer) {
	var out bytes.Buffer
	log := logger.NewWithOutput(false, "", false, &out, &out)
	return New(source, p, limits, log), &out
}

func TestOversizedBucketIsRejectedThenSmallerOneCommitted(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{abc}}
	p := &scriptedPrompter{
		selections: [][]string{{"a", "c"}, {"a", "b"}},
		messages:   []string{"Split part 1"},
	}

	b, out := newTestBucketer(source, p, numstat.Limits{MaxFiles: 2, MaxLines: 100})
	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{Buckets: 1, Outcome: OutcomeClean}, result)
	assert.Equal(t, [][]string{{"a", "b"}}, source.staged, "the rejected bucket is never staged")
	assert.Equal(t, []string{"Split part 1"}, source.commits)
	assert.Equal(t, 1, p.confirmed)

	require.Len(t, p.requests, 2, "rejection goes back to selection")
	assert.Equal(t, p.requests[0], p.requests[1], "the same snapshot is offered again")
	assert.Equal(t, 2, p.requests[0].Max)
	assert.Equal(t, "a (+10 -0)", p.requests[0].Choices[0].Label)

	assert.Contains(t, out.String(), "This bucket has 2010 line changes, which exceeds the line limit of 100. Please select fewer files.")
	assert.Contains(t, out.String(), "No more changes to commit. All clean.")
}

func TestSeveralBucketsUntilClean(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{
		abc,
		{{File: "c", Added: 2000}},
	}}
	p := &scriptedPrompter{
		selections: [][]string{{"a", "b"}, {"c"}},
		messages:   []string{"first", "second"},
	}

	b, _ := newTestBucketer(source, p, numstat.Limits{MaxFiles: 2})
	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{Buckets: 2, Outcome: OutcomeClean}, result)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, source.staged)
	assert.Equal(t, source.staged, source.committed, "each commit covers exactly its staged bucket")
	assert.Equal(t, []string{"Commit message for bucket #1:", "Commit message for bucket #2:"}, p.asked)
	assert.Equal(t, 1, p.requests[1].Max, "the cap clamps to the remaining file count")
}

func TestDecliningStopsWithChangesLeft(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{abc, abc[2:]}}
	p := &scriptedPrompter{
		selections: [][]string{{"b"}},
		messages:   []string{"only b"},
		confirms:   []bool{false},
	}

	b, out := newTestBucketer(source, p, numstat.Limits{MaxFiles: 10, MaxLines: 100})
	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{Buckets: 1, Outcome: OutcomeStopped}, result)
	assert.Equal(t, 1, source.refreshes, "no refresh after declining")
	assert.Contains(t, out.String(), "Done. You can handle remaining changes manually.")
}

func TestNothingToCommit(t *testing.T) {
	source := &fakeSource{}
	p := &scriptedPrompter{}

	b, _ := newTestBucketer(source, p, numstat.Limits{MaxFiles: 10})
	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{Outcome: OutcomeClean}, result)
	assert.Empty(t, p.requests)
}

func TestBlankCommitMessageIsRefused(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{abc[:1]}}
	p := &scriptedPrompter{
		selections: [][]string{{"a"}},
		messages:   []string{"", "   ", "\t\n", "real message"},
	}

	b, _ := newTestBucketer(source, p, numstat.Limits{MaxFiles: 10})
	_, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"real message"}, source.commits)
	assert.EqualError(t, validateMessage(""), emptyMessage)
	assert.EqualError(t, validateMessage("   "), emptyMessage)
	assert.NoError(t, validateMessage("  padded  "))
}

func TestInvalidSelectionIsAskedAgain(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{abc}}
	p := &scriptedPrompter{
		selections: [][]string{{}, {"a", "b", "c"}, {"b"}},
		messages:   []string{"b"},
	}

	b, out := newTestBucketer(source, p, numstat.Limits{MaxFiles: 2})
	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Buckets)
	assert.Len(t, p.requests, 3)
	assert.Contains(t, out.String(), "Select at least one file.")
	assert.Contains(t, out.String(), "You can select at most 2 files.")
}

func TestFatalFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := map[string]struct {
		source   *fakeSource
		sentinel error
		staged   int
	}{
		"StageFails": {
			source:   &fakeSource{snapshots: [][]numstat.Change{abc}, stageErr: boom},
			sentinel: gitsliceErrors.ErrCommitFailed,
		},
		"CommitFails": {
			source:   &fakeSource{snapshots: [][]numstat.Change{abc}, commitErr: boom},
			sentinel: gitsliceErrors.ErrCommitFailed,
			staged:   1,
		},
		"RefreshFails": {
			source: &fakeSource{changesErr: boom},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p := &scriptedPrompter{
				selections: [][]string{{"a"}},
				messages:   []string{"msg"},
			}

			b, _ := newTestBucketer(tc.source, p, numstat.Limits{MaxFiles: 2, MaxLines: 100})
			result, err := b.Run(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			if tc.sentinel != nil {
				assert.True(t, gitsliceErrors.Is(err, tc.sentinel))
			}
			assert.Zero(t, result.Buckets)
			assert.Len(t, tc.source.staged, tc.staged)
			assert.Zero(t, p.confirmed, "a fatal failure never asks to continue")
		})
	}
}

func TestPromptAbortIsFatal(t *testing.T) {
	source := &fakeSource{snapshots: [][]numstat.Change{abc}}
	p := &scriptedPrompter{}

	b, _ := newTestBucketer(source, p, numstat.Limits{MaxFiles: 2})
	_, err := b.Run(context.Background())

	require.Error(t, err)
	assert.True(t, gitsliceErrors.Is(err, gitsliceErrors.ErrPromptAborted))
	assert.Empty(t, source.staged)
}

func TestCancelledContextStopsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{snapshots: [][]numstat.Change{abc}}
	b, _ := newTestBucketer(source, &scriptedPrompter{}, numstat.Limits{MaxFiles: 2})

	_, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, source.refreshes)
}

func TestSelectMessage(t *testing.T) {
	assert.Equal(t, "Select files for bucket #1 (max 2 files, 100 lines):", selectMessage(1, numstat.Limits{MaxFiles: 2, MaxLines: 100}, 3))
	assert.Equal(t, "Select files for bucket #3 (max 1 files):", selectMessage(3, numstat.Limits{MaxFiles: 10}, 1))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "clean", OutcomeClean.String())
	assert.Equal(t, "stopped", OutcomeStopped.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
