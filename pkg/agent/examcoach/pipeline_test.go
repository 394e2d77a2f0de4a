package examcoach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequestStructuredInput(t *testing.T) {
	p := &Pipeline{}
	state := &State{
		ProvidedAnalysis: &Analysis{
			Topic:         "redox reactions",
			Subject:       "chemistry",
			QuestionCount: 5,
		},
	}

	require.NoError(t, p.analyzeRequest(context.Background(), state))

	assert.Equal(t, "create", state.Analysis.ActionType)
	assert.Equal(t, "redox reactions", state.Analysis.Topic)
	assert.Equal(t, []string{"multiple_choice"}, state.Analysis.QuestionTypes)
	assert.Equal(t, "medium", state.Analysis.Difficulty)
	assert.False(t, state.HasAnswers)
	assert.Empty(t, state.Errors, "structured input must not touch the model")
}

func TestAnalyzeRequestStructuredAnswers(t *testing.T) {
	p := &Pipeline{}
	state := &State{
		ProvidedAnalysis: &Analysis{
			ActionType:      "evaluate",
			Topic:           "redox reactions",
			AnswersProvided: map[string]string{"q_1": "Zn"},
		},
	}

	require.NoError(t, p.analyzeRequest(context.Background(), state))

	assert.Equal(t, "evaluate", state.Analysis.ActionType)
	assert.True(t, state.HasAnswers, "provided answers route the run through evaluation")
}

func TestGenerateQuestionsZeroCount(t *testing.T) {
	p := &Pipeline{}
	state := &State{}
	state.Analysis = Analysis{Topic: "limits", Subject: "math", QuestionCount: 0}

	require.NoError(t, p.generateQuestions(context.Background(), state))

	assert.NotNil(t, state.Result.Questions, "empty, not null")
	assert.Empty(t, state.Result.Questions)
	assert.NotEmpty(t, state.Result.ExamId)
	assert.Equal(t, "exam_generated", state.Result.Action)
}

func TestFallbackExamShape(t *testing.T) {
	p := &Pipeline{}
	state := &State{}
	state.Analysis = Analysis{
		Topic:         "redox",
		Subject:       "chemistry",
		QuestionTypes: []string{"mcq"},
	}

	exam := p.fallbackExam(state, 6)

	assert.NotEmpty(t, exam.ExamId)
	assert.Len(t, exam.Questions, 6)
	assert.Equal(t, 18, exam.TimeLimitMinutes, "three minutes per question")
	assert.Contains(t, exam.Instructions, "6 questions")
	assert.Contains(t, exam.Instructions, "redox")
}

func TestFallbackEvaluationUsesConfiguredDefaults(t *testing.T) {
	p := &Pipeline{fallbackScore: 85.0, fallbackCorrectCount: 8}

	evaluation := p.fallbackEvaluation()

	assert.Equal(t, 85.0, evaluation.TotalScore)
	assert.Equal(t, 8, evaluation.CorrectCount)
	assert.Equal(t, "Good performance overall", evaluation.OverallFeedback)
	assert.Equal(t, []string{"needs review"}, evaluation.WeakAreas)
	assert.Equal(t, []string{"basic concepts"}, evaluation.StrongAreas)
}

func TestFallbackAnalysisDefaults(t *testing.T) {
	p := &Pipeline{}

	analysis := p.fallbackAnalysis("quiz me on thermodynamics")

	assert.Equal(t, "create", analysis.ActionType)
	assert.Equal(t, "quiz me on thermodynamics", analysis.Topic)
	assert.Equal(t, 10, analysis.QuestionCount)
	assert.Equal(t, []string{"multiple_choice", "short_answer"}, analysis.QuestionTypes)
}
