package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLLM struct{}

func (failingLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("model offline")
}

func (failingLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("model offline")
}

func TestFallbackAnalysisKeepsRawInput(t *testing.T) {
	p := &Pipeline{}

	analysis := p.fallbackAnalysis("explain derivatives please")

	assert.Equal(t, "explain derivatives please", analysis.Topic)
	assert.Equal(t, "general", analysis.Subject)
	assert.Equal(t, "medium", analysis.Difficulty)
	assert.Equal(t, []string{"explain derivatives please"}, analysis.Concepts)
}

func TestGenerateExplanationTransportError(t *testing.T) {
	p := &Pipeline{llm: failingLLM{}}
	state := &State{
		Analysis: Analysis{Topic: "limits", Subject: "math"},
	}

	require.Error(t, p.generateExplanation(context.Background(), state))

	assert.NotEmpty(t, state.Result.SessionId)
	assert.Equal(t, "limits", state.Result.Topic)
	assert.Equal(t, "math", state.Result.Subject)
	assert.Contains(t, state.Result.Error, "Failed to generate explanation")
	assert.NotNil(t, state.Result.Examples)

	// Without an explanation there is nothing to remember.
	require.NoError(t, p.memorize(context.Background(), state))
}

func TestAddressesWeakArea(t *testing.T) {
	p := &Pipeline{}

	state := &State{
		Analysis:  Analysis{Topic: "Integration"},
		WeakAreas: []string{"algebra", "integration"},
	}
	assert.True(t, p.addressesWeakArea(state), "match is case insensitive")

	state.WeakAreas = []string{"algebra"}
	assert.False(t, p.addressesWeakArea(state))

	state.WeakAreas = nil
	assert.False(t, p.addressesWeakArea(state))
}

func TestFormatLearningHistory(t *testing.T) {
	p := &Pipeline{}

	t.Run("empty history", func(t *testing.T) {
		formatted := p.formatLearningHistory(nil)
		assert.Equal(t, "No previous learning history for this topic.", formatted)
	})

	t.Run("caps at three entries", func(t *testing.T) {
		history := make([]*entity.MemoryRecord, 0, 5)
		for i := 0; i < 5; i++ {
			history = append(history, &entity.MemoryRecord{
				CreatedAt: time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC),
				Metadata:  map[string]interface{}{"performance": "good"},
			})
		}

		formatted := p.formatLearningHistory(history)
		assert.Equal(t, 3, countLines(formatted))
		assert.Contains(t, formatted, "good performance")
	})

	t.Run("missing performance defaults to neutral", func(t *testing.T) {
		history := []*entity.MemoryRecord{{
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Metadata:  map[string]interface{}{},
		}}

		formatted := p.formatLearningHistory(history)
		assert.Contains(t, formatted, "neutral performance")
	})
}

func countLines(s string) int {
	count := 0
	for _, r := range s {
		if r == '\n' {
			count++
		}
	}
	return count
}
