package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type testState struct {
	StageErrors

	Visited   []string
	Condition bool
	Memorized bool
}

func (s *testState) visit(name string) Stage[*testState] {
	return Stage[*testState]{
		Name: name,
		Run: func(ctx context.Context, state *testState) error {
			state.Visited = append(state.Visited, name)
			return nil
		},
	}
}

func newTestEngine() *Engine {
	return New(nopLogger{}, time.Minute)
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	state := &testState{}
	p := Pipeline[*testState]{
		Name:   "test",
		Stages: []Stage[*testState]{state.visit("first"), state.visit("second"), state.visit("third")},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, state.Visited)
	assert.Empty(t, state.Errors)
}

func TestRunEntryStageFailureAborts(t *testing.T) {
	state := &testState{}
	p := Pipeline[*testState]{
		Name: "test",
		Stages: []Stage[*testState]{
			{
				Name:  "load",
				Entry: true,
				Run: func(ctx context.Context, s *testState) error {
					return errors.New("boom")
				},
			},
			state.visit("after"),
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry stage load")
	assert.Empty(t, state.Visited, "stages after a failed entry must not run")
}

func TestRunIsolatesMidStageFailure(t *testing.T) {
	state := &testState{}
	p := Pipeline[*testState]{
		Name: "test",
		Stages: []Stage[*testState]{
			state.visit("first"),
			{
				Name: "broken",
				Run: func(ctx context.Context, s *testState) error {
					return errors.New("stage exploded")
				},
			},
			state.visit("last"),
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last"}, state.Visited)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "broken", state.Errors[0].Stage)
	assert.Equal(t, "stage exploded", state.Errors[0].Reason)
}

func TestRunRecoversStagePanic(t *testing.T) {
	state := &testState{}
	p := Pipeline[*testState]{
		Name: "test",
		Stages: []Stage[*testState]{
			{
				Name: "panics",
				Run: func(ctx context.Context, s *testState) error {
					panic("unexpected nil")
				},
			},
			state.visit("after"),
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, state.Visited)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0].Reason, "panic")
}

func TestRunForkTakesThenBranch(t *testing.T) {
	state := &testState{Condition: true}
	p := Pipeline[*testState]{
		Name:   "test",
		Stages: []Stage[*testState]{state.visit("generate"), state.visit("save")},
		Fork: &Fork[*testState]{
			After:     "generate",
			Condition: func(s *testState) bool { return s.Condition },
			Then:      []Stage[*testState]{state.visit("evaluate")},
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate", "evaluate", "save"}, state.Visited)
}

func TestRunForkTakesElseBranch(t *testing.T) {
	state := &testState{Condition: false}
	p := Pipeline[*testState]{
		Name:   "test",
		Stages: []Stage[*testState]{state.visit("generate"), state.visit("save")},
		Fork: &Fork[*testState]{
			After:     "generate",
			Condition: func(s *testState) bool { return s.Condition },
			Then:      []Stage[*testState]{state.visit("evaluate")},
			Else:      []Stage[*testState]{state.visit("skip-note")},
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate", "skip-note", "save"}, state.Visited)
}

func TestRunForkBranchFailureIsIsolated(t *testing.T) {
	state := &testState{Condition: true}
	p := Pipeline[*testState]{
		Name:   "test",
		Stages: []Stage[*testState]{state.visit("generate"), state.visit("save")},
		Fork: &Fork[*testState]{
			After:     "generate",
			Condition: func(s *testState) bool { return s.Condition },
			Then: []Stage[*testState]{
				{
					Name: "evaluate",
					Run: func(ctx context.Context, s *testState) error {
						return errors.New("grading failed")
					},
				},
			},
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate", "save"}, state.Visited)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "evaluate", state.Errors[0].Stage)
}

func TestRunDeadlineSkipsRemainingStages(t *testing.T) {
	state := &testState{}
	e := New(nopLogger{}, 30*time.Millisecond)
	p := Pipeline[*testState]{
		Name: "test",
		Stages: []Stage[*testState]{
			{
				Name: "slow",
				Run: func(ctx context.Context, s *testState) error {
					s.Visited = append(s.Visited, "slow")
					select {
					case <-ctx.Done():
					case <-time.After(time.Second):
					}
					return nil
				},
			},
			state.visit("never"),
		},
	}

	err := Run(context.Background(), e, p, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"slow"}, state.Visited)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "never", state.Errors[0].Stage)
	assert.Contains(t, state.Errors[0].Reason, "skipped")
}

func TestRunMemorizeFailureIsSwallowed(t *testing.T) {
	state := &testState{}
	p := Pipeline[*testState]{
		Name:   "test",
		Stages: []Stage[*testState]{state.visit("only")},
		Memorize: func(ctx context.Context, s *testState) error {
			s.Memorized = true
			return errors.New("memory store offline")
		},
	}

	err := Run(context.Background(), newTestEngine(), p, state)
	require.NoError(t, err)
	assert.True(t, state.Memorized)
	assert.Empty(t, state.Errors, "memorize failures never surface")
}

func TestRunMemorizeRunsAfterDeadline(t *testing.T) {
	state := &testState{}
	e := New(nopLogger{}, 20*time.Millisecond)
	p := Pipeline[*testState]{
		Name: "test",
		Stages: []Stage[*testState]{
			{
				Name: "slow",
				Run: func(ctx context.Context, s *testState) error {
					<-ctx.Done()
					return nil
				},
			},
		},
		Memorize: func(ctx context.Context, s *testState) error {
			// Detached context must still be alive here.
			if err := ctx.Err(); err != nil {
				return err
			}
			s.Memorized = true
			return nil
		},
	}

	err := Run(context.Background(), e, p, state)
	require.NoError(t, err)
	assert.True(t, state.Memorized)
}
