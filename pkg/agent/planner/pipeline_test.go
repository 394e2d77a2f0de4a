package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestFallbackPlanRoundRobinSubjects(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{
		Requirements: Requirements{
			Subjects:     []string{"math", "physics"},
			DurationDays: 4,
			DailyHours:   2,
			Goals:        []string{"pass finals"},
		},
	}

	plan := p.fallbackPlan(state, 4)

	require.Len(t, plan.DailySchedule, 4)

	wantSubjects := map[string]string{
		"2026-03-02": "math",
		"2026-03-03": "physics",
		"2026-03-04": "math",
		"2026-03-05": "physics",
	}
	for date, subject := range wantSubjects {
		tasks, ok := plan.DailySchedule[date]
		require.True(t, ok, "missing schedule for %s", date)
		require.Len(t, tasks, 2)
		assert.Equal(t, subject, tasks[0].Subject)
		assert.Equal(t, subject, tasks[1].Subject)
	}
}

func TestFallbackPlanTimeSplit(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{
		Requirements: Requirements{
			Subjects:     []string{"chemistry"},
			DurationDays: 1,
			DailyHours:   2,
		},
	}

	plan := p.fallbackPlan(state, 1)

	tasks := plan.DailySchedule["2026-03-02"]
	require.Len(t, tasks, 2)

	study, practice := tasks[0], tasks[1]
	assert.Equal(t, "study", study.Activity)
	assert.Equal(t, 72, study.DurationMinutes, "60 percent of 120 minutes")
	assert.Equal(t, "high", study.Priority)

	assert.Equal(t, "practice", practice.Activity)
	assert.Equal(t, 48, practice.DurationMinutes, "40 percent of 120 minutes")
	assert.Equal(t, "medium", practice.Priority)
}

func TestFallbackPlanFocusAreasCappedAtThree(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{
		Requirements: Requirements{Subjects: []string{"math"}, DailyHours: 1},
		WeakAreas:    []string{"algebra", "trig", "limits", "series"},
	}

	plan := p.fallbackPlan(state, 1)

	assert.Equal(t, []string{"algebra", "trig", "limits"}, plan.FocusAreas)
	assert.Equal(t, []string{"Stay consistent", "Take breaks", "Review regularly"}, plan.LearningTips)
	assert.Equal(t, 1.0, plan.TotalHours)
}

func TestFallbackPlanDefaults(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{}

	plan := p.fallbackPlan(state, 2)

	require.Len(t, plan.DailySchedule, 2)
	for _, tasks := range plan.DailySchedule {
		require.Len(t, tasks, 2)
		assert.Equal(t, "general", tasks[0].Subject)
	}
	assert.Equal(t, 2.0, plan.TotalHours)
}

func TestAnalyzeRequirementsStructuredInput(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{
		ProvidedSubjects:   []string{"biology"},
		ProvidedDays:       14,
		ProvidedDailyHours: 3,
	}

	require.NoError(t, p.analyzeRequirements(context.Background(), state))

	assert.Equal(t, []string{"biology"}, state.Requirements.Subjects)
	assert.Equal(t, 14, state.Requirements.DurationDays)
	assert.Equal(t, 3.0, state.Requirements.DailyHours)
	assert.Empty(t, state.Errors, "structured input must not touch the model")
}

func TestAnalyzeRequirementsStructuredInputDefaults(t *testing.T) {
	p := &Pipeline{now: fixedNow}
	state := &State{ProvidedSubjects: []string{"history"}}

	require.NoError(t, p.analyzeRequirements(context.Background(), state))

	assert.Equal(t, 7, state.Requirements.DurationDays)
	assert.Equal(t, 2.0, state.Requirements.DailyHours)
}
