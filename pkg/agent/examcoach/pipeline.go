package examcoach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/pkg/logger"
	"eduverse-be/internal/repository/unitofwork"
	"eduverse-be/pkg/agent/engine"
	"eduverse-be/pkg/agent/parse"
	"eduverse-be/pkg/llm"
	"eduverse-be/pkg/memory"

	"github.com/google/uuid"
)

// Analysis is the structured exam request.
type Analysis struct {
	ActionType      string            `json:"action_type"` // create or evaluate
	Topic           string            `json:"topic"`
	Subject         string            `json:"subject"`
	QuestionCount   int               `json:"question_count"`
	QuestionTypes   []string          `json:"question_types"`
	Difficulty      string            `json:"difficulty"`
	AnswersProvided map[string]string `json:"answers_provided"` // question id -> answer
}

// Question is one exam item.
type Question struct {
	Id            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"` // mcq or short_answer
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

// Exam is the generated paper.
type Exam struct {
	ExamId           string     `json:"exam_id"`
	Questions        []Question `json:"questions"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	Instructions     string     `json:"instructions"`
}

// QuestionResult is per-question grading feedback.
type QuestionResult struct {
	QuestionId string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Feedback   string `json:"feedback"`
}

// Evaluation is the grading payload.
type Evaluation struct {
	TotalScore      float64          `json:"total_score"`
	CorrectCount    int              `json:"correct_count"`
	QuestionResults []QuestionResult `json:"question_results,omitempty"`
	OverallFeedback string           `json:"overall_feedback"`
	WeakAreas       []string         `json:"weak_areas"`
	StrongAreas     []string         `json:"strong_areas"`
}

type Result struct {
	Action           string              `json:"action"` // exam_generated or answers_evaluated
	ExamId           string              `json:"exam_id"`
	Topic            string              `json:"topic"`
	Subject          string              `json:"subject"`
	Questions        []Question          `json:"questions"`
	TimeLimitMinutes int                 `json:"time_limit_minutes"`
	Instructions     string              `json:"instructions"`
	Evaluation       *Evaluation         `json:"evaluation,omitempty"`
	Saved            bool                `json:"saved"`
	DocumentId       string              `json:"document_id,omitempty"`
	StageErrors      []engine.StageError `json:"stage_errors,omitempty"`
}

type ExamHistoryItem struct {
	Score     float64  `json:"score"`
	WeakAreas []string `json:"weak_areas"`
	Timestamp string   `json:"timestamp"`
}

type State struct {
	engine.StageErrors

	UserId uuid.UUID
	Input  string

	// Structured request fields; when Topic is set the LLM analysis is skipped.
	ProvidedAnalysis *Analysis

	Profile     *entity.UserProfile
	Analysis    Analysis
	HasAnswers  bool
	WeakAreas   []string
	ExamHistory []ExamHistoryItem

	Result Result
}

type Pipeline struct {
	engine     *engine.Engine
	llm        llm.LLMProvider
	memory     memory.Store
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	fallbackScore        float64
	fallbackCorrectCount int
}

func NewPipeline(
	eng *engine.Engine,
	llmProvider llm.LLMProvider,
	store memory.Store,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	fallbackScore float64,
	fallbackCorrectCount int,
) *Pipeline {
	if fallbackScore <= 0 {
		fallbackScore = 85.0
	}
	if fallbackCorrectCount <= 0 {
		fallbackCorrectCount = 8
	}
	return &Pipeline{
		engine:               eng,
		llm:                  llmProvider,
		memory:               store,
		uowFactory:           uowFactory,
		logger:               log,
		fallbackScore:        fallbackScore,
		fallbackCorrectCount: fallbackCorrectCount,
	}
}

// Run executes the exam pipeline. The run forks after question generation:
// with answers present it grades them first, otherwise it saves directly.
func (p *Pipeline) Run(ctx context.Context, userId uuid.UUID, input string, provided *Analysis) (*Result, error) {
	state := &State{
		UserId:           userId,
		Input:            input,
		ProvidedAnalysis: provided,
	}

	pipeline := engine.Pipeline[*State]{
		Name: "exam-coach",
		Stages: []engine.Stage[*State]{
			{Name: "load_profile", Entry: true, Run: p.loadProfile},
			{Name: "analyze_request", Run: p.analyzeRequest},
			{Name: "gather_context", Run: p.gatherContext},
			{Name: "generate_questions", Run: p.generateQuestions},
			{Name: "save_results", Run: p.saveResults},
		},
		Fork: &engine.Fork[*State]{
			After:     "generate_questions",
			Condition: func(s *State) bool { return s.HasAnswers },
			Then: []engine.Stage[*State]{
				{Name: "evaluate_answers", Run: p.evaluateAnswers},
			},
		},
		Memorize: p.memorize,
	}

	if err := engine.Run(ctx, p.engine, pipeline, state); err != nil {
		return nil, err
	}

	state.Result.StageErrors = state.Errors
	return &state.Result, nil
}

func (p *Pipeline) loadProfile(ctx context.Context, state *State) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.UserProfileRepository().FindByUserId(ctx, state.UserId)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	state.Profile = profile
	return nil
}

func (p *Pipeline) analyzeRequest(ctx context.Context, state *State) error {
	// Structured request wins over LLM extraction.
	if state.ProvidedAnalysis != nil && state.ProvidedAnalysis.Topic != "" {
		analysis := *state.ProvidedAnalysis
		if analysis.ActionType == "" {
			analysis.ActionType = "create"
		}
		if len(analysis.QuestionTypes) == 0 {
			analysis.QuestionTypes = []string{"multiple_choice"}
		}
		if analysis.Difficulty == "" {
			analysis.Difficulty = "medium"
		}
		state.Analysis = analysis
		state.HasAnswers = analysis.AnswersProvided != nil
		return nil
	}

	var prompt strings.Builder
	prompt.WriteString("Analyze this exam/quiz request:\n")
	prompt.WriteString(fmt.Sprintf("Request: %q\n\n", state.Input))
	prompt.WriteString("Determine:\n")
	prompt.WriteString("1. Is this a request to CREATE a new exam or EVALUATE existing answers?\n")
	prompt.WriteString("2. Topic/subject for the exam\n")
	prompt.WriteString("3. Number of questions desired\n")
	prompt.WriteString("4. Question types (multiple choice, short answer, essay, etc.)\n")
	prompt.WriteString("5. Difficulty level\n")
	prompt.WriteString("6. If evaluating: extract the answers provided\n\n")
	prompt.WriteString("Return as JSON with keys: action_type, topic, subject, question_count, question_types, difficulty, answers_provided\n")

	response, err := p.llm.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		state.Analysis = p.fallbackAnalysis(state.Input)
		state.HasAnswers = false
		return fmt.Errorf("request analysis: %w", err)
	}

	result := parse.JSONWithFallback(response, func(reason string) Analysis {
		return p.fallbackAnalysis(state.Input)
	})
	state.Analysis = result.Value
	if result.Failed {
		state.RecordStageError("analyze_request", result.Reason)
	}
	if state.Analysis.QuestionCount <= 0 {
		state.Analysis.QuestionCount = 10
	}
	state.HasAnswers = state.Analysis.AnswersProvided != nil
	return nil
}

func (p *Pipeline) fallbackAnalysis(input string) Analysis {
	return Analysis{
		ActionType:    "create",
		Topic:         input,
		Subject:       "general",
		QuestionCount: 10,
		QuestionTypes: []string{"multiple_choice", "short_answer"},
		Difficulty:    "medium",
	}
}

func (p *Pipeline) gatherContext(ctx context.Context, state *State) error {
	weakAreas, err := p.memory.WeakAreas(ctx, state.UserId)
	if err != nil {
		return fmt.Errorf("weak areas: %w", err)
	}
	state.WeakAreas = weakAreas

	records, err := p.memory.Recent(ctx, state.UserId, entity.MemoryTypeExamPerformance, 20)
	if err != nil {
		return fmt.Errorf("exam history: %w", err)
	}
	for _, record := range records {
		if topic, ok := record.Metadata["topic"].(string); !ok || topic != state.Analysis.Topic {
			continue
		}
		item := ExamHistoryItem{}
		if score, ok := record.Metadata["score"].(float64); ok {
			item.Score = score
		}
		if areas, ok := record.Metadata["weak_areas"].([]interface{}); ok {
			for _, area := range areas {
				if s, ok := area.(string); ok {
					item.WeakAreas = append(item.WeakAreas, s)
				}
			}
		}
		if ts, ok := record.Metadata["timestamp"].(string); ok {
			item.Timestamp = ts
		}
		state.ExamHistory = append(state.ExamHistory, item)
	}
	return nil
}

func (p *Pipeline) generateQuestions(ctx context.Context, state *State) error {
	questionCount := state.Analysis.QuestionCount
	topic := state.Analysis.Topic
	subject := state.Analysis.Subject

	// A caller explicitly asking for zero questions gets an empty exam, not
	// a defaulted one.
	if questionCount <= 0 {
		state.Result = Result{
			Action:       "exam_generated",
			ExamId:       uuid.New().String(),
			Topic:        topic,
			Subject:      subject,
			Questions:    []Question{},
			Instructions: fmt.Sprintf("No questions requested for %s.", topic),
		}
		return nil
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("You are an expert educator creating a %s exam on %q. Generate exactly %d high-quality questions.\n\n", subject, topic, questionCount))
	prompt.WriteString("EXAM SPECIFICATIONS:\n")
	prompt.WriteString(fmt.Sprintf("- Topic: %s\n", topic))
	prompt.WriteString(fmt.Sprintf("- Subject: %s\n", subject))
	prompt.WriteString(fmt.Sprintf("- Question types: %s\n", strings.Join(state.Analysis.QuestionTypes, ", ")))
	prompt.WriteString(fmt.Sprintf("- Difficulty: %s\n\n", state.Analysis.Difficulty))
	prompt.WriteString("FORMATTING RULES FOR MCQ:\n")
	prompt.WriteString("1. Write the question WITHOUT including A), B), C), D) options in the question text\n")
	prompt.WriteString("2. Put each option content in the \"options\" array\n")
	prompt.WriteString("3. The \"correct_answer\" should match exactly one of the options\n\n")
	prompt.WriteString("CRITICAL: Respond with ONLY the JSON below. No other text.\n\n")
	prompt.WriteString("{\n")
	prompt.WriteString(fmt.Sprintf("  \"exam_id\": %q,\n", uuid.New().String()))
	prompt.WriteString("  \"questions\": [\n")
	prompt.WriteString("    {\n")
	prompt.WriteString("      \"id\": \"q_1\",\n")
	prompt.WriteString("      \"question\": \"Write question text without A) B) C) D) options\",\n")
	prompt.WriteString("      \"type\": \"mcq\",\n")
	prompt.WriteString("      \"options\": [\"First option\", \"Second option\", \"Third option\", \"Fourth option\"],\n")
	prompt.WriteString("      \"correct_answer\": \"First option\",\n")
	prompt.WriteString("      \"explanation\": \"Detailed explanation why the correct answer is right\",\n")
	prompt.WriteString("      \"points\": 1\n")
	prompt.WriteString("    }\n")
	prompt.WriteString("  ],\n")
	prompt.WriteString(fmt.Sprintf("  \"time_limit_minutes\": %d,\n", questionCount*3))
	prompt.WriteString(fmt.Sprintf("  \"instructions\": \"Complete all %d questions on %s. Show work for calculations.\"\n", questionCount, topic))
	prompt.WriteString("}\n")

	exam := Exam{}
	// Question lists are long; the HuggingFace default token cap truncates them.
	response, err := p.llm.Generate(ctx, prompt.String(), llm.WithMaxTokens(4000))
	if err != nil {
		exam = p.fallbackExam(state, questionCount)
		state.RecordStageError("generate_questions", err.Error())
	} else {
		result := parse.JSONWithFallback(response, func(reason string) Exam {
			return p.fallbackExam(state, questionCount)
		})
		exam = result.Value
		if result.Failed {
			state.RecordStageError("generate_questions", result.Reason)
		}
	}

	if exam.ExamId == "" {
		exam.ExamId = uuid.New().String()
	}
	if exam.TimeLimitMinutes <= 0 {
		exam.TimeLimitMinutes = questionCount * 3 // 3 minutes per question
	}
	for i := range exam.Questions {
		if exam.Questions[i].Id == "" {
			exam.Questions[i].Id = fmt.Sprintf("q_%d", i+1)
		}
		if exam.Questions[i].Points <= 0 {
			exam.Questions[i].Points = 1
		}
	}

	state.Result = Result{
		Action:           "exam_generated",
		ExamId:           exam.ExamId,
		Topic:            topic,
		Subject:          subject,
		Questions:        exam.Questions,
		TimeLimitMinutes: exam.TimeLimitMinutes,
		Instructions:     exam.Instructions,
	}
	if state.Result.Instructions == "" {
		state.Result.Instructions = fmt.Sprintf("Answer all %d questions about %s. Show your work for calculation problems.", questionCount, topic)
	}
	return nil
}

func (p *Pipeline) fallbackExam(state *State, questionCount int) Exam {
	return Exam{
		ExamId:           uuid.New().String(),
		Questions:        FallbackQuestions(state.Analysis.Topic, state.Analysis.Subject, questionCount, state.Analysis.QuestionTypes),
		TimeLimitMinutes: questionCount * 3,
		Instructions:     fmt.Sprintf("Answer all %d questions about %s. Show your work for calculation problems.", questionCount, state.Analysis.Topic),
	}
}

func (p *Pipeline) evaluateAnswers(ctx context.Context, state *State) error {
	if state.Analysis.AnswersProvided == nil {
		return nil
	}

	questionsJson, _ := json.MarshalIndent(state.Result.Questions, "", "  ")
	answersJson, _ := json.MarshalIndent(state.Analysis.AnswersProvided, "", "  ")

	var prompt strings.Builder
	prompt.WriteString("Evaluate the student's exam answers.\n\n")
	prompt.WriteString("Original Questions and Correct Answers:\n")
	prompt.Write(questionsJson)
	prompt.WriteString("\n\nStudent's Answers:\n")
	prompt.Write(answersJson)
	prompt.WriteString("\n\nInstructions:\n")
	prompt.WriteString("1. Grade each answer carefully\n")
	prompt.WriteString("2. Provide detailed feedback for incorrect answers\n")
	prompt.WriteString("3. Identify areas of strength and weakness\n")
	prompt.WriteString("4. Calculate overall score\n")
	prompt.WriteString("5. Suggest improvement areas\n\n")
	prompt.WriteString("Return as JSON with:\n")
	prompt.WriteString("- total_score: percentage score\n")
	prompt.WriteString("- correct_count: number of correct answers\n")
	prompt.WriteString("- question_results: array with individual question feedback\n")
	prompt.WriteString("- overall_feedback: general feedback\n")
	prompt.WriteString("- weak_areas: topics that need improvement\n")
	prompt.WriteString("- strong_areas: topics student did well on\n")

	evaluation := Evaluation{}
	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		evaluation = p.fallbackEvaluation()
		state.RecordStageError("evaluate_answers", err.Error())
	} else {
		result := parse.JSONWithFallback(response, func(reason string) Evaluation {
			return p.fallbackEvaluation()
		})
		evaluation = result.Value
		if result.Failed {
			state.RecordStageError("evaluate_answers", result.Reason)
		}
	}

	state.Result.Action = "answers_evaluated"
	state.Result.Evaluation = &evaluation
	return nil
}

func (p *Pipeline) fallbackEvaluation() Evaluation {
	return Evaluation{
		TotalScore:      p.fallbackScore,
		CorrectCount:    p.fallbackCorrectCount,
		OverallFeedback: "Good performance overall",
		WeakAreas:       []string{"needs review"},
		StrongAreas:     []string{"basic concepts"},
	}
}

func (p *Pipeline) saveResults(ctx context.Context, state *State) error {
	fields := map[string]interface{}{
		"exam_id":            state.Result.ExamId,
		"topic":              state.Result.Topic,
		"subject":            state.Result.Subject,
		"action":             state.Result.Action,
		"questions":          entity.SerializedField(state.Result.Questions),
		"time_limit_minutes": state.Result.TimeLimitMinutes,
		"instructions":       state.Result.Instructions,
	}
	if state.Result.Evaluation != nil {
		fields["score"] = state.Result.Evaluation.TotalScore
		fields["correct_count"] = state.Result.Evaluation.CorrectCount
		fields["feedback"] = state.Result.Evaluation.OverallFeedback
		fields["weak_areas"] = entity.SerializedField(state.Result.Evaluation.WeakAreas)
		fields["strong_areas"] = entity.SerializedField(state.Result.Evaluation.StrongAreas)
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	document := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionExamResults,
		Fields:     fields,
	}
	if err := uow.StudyDocumentRepository().Create(ctx, document); err != nil {
		return fmt.Errorf("save exam result: %w", err)
	}
	state.Result.Saved = true
	state.Result.DocumentId = document.Id.String()
	return nil
}

func (p *Pipeline) memorize(ctx context.Context, state *State) error {
	// Only evaluated runs feed exam performance back into memory.
	if state.Result.Evaluation == nil {
		return nil
	}
	return p.memory.AddExamPerformance(ctx, state.UserId, state.Result.Topic,
		state.Result.Evaluation.TotalScore, state.Result.Evaluation.WeakAreas)
}
