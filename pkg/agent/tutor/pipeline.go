package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/pkg/logger"
	"eduverse-be/internal/repository/unitofwork"
	"eduverse-be/pkg/agent/engine"
	"eduverse-be/pkg/agent/parse"
	"eduverse-be/pkg/llm"
	"eduverse-be/pkg/memory"

	"github.com/google/uuid"
)

// Analysis is the structured reading of the student's request.
type Analysis struct {
	Topic      string   `json:"topic"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
	Concepts   []string `json:"concepts"`
}

// Explanation is the personalized tutoring payload.
type Explanation struct {
	Explanation         string   `json:"explanation"`
	Examples            []string `json:"examples"`
	AdditionalResources []string `json:"additional_resources"`
	LearningTips        []string `json:"learning_tips"`
	DifficultyAddressed bool     `json:"difficulty_addressed"`
}

type Result struct {
	SessionId           string              `json:"session_id"`
	Topic               string              `json:"topic"`
	Subject             string              `json:"subject"`
	Explanation         string              `json:"explanation"`
	Examples            []string            `json:"examples"`
	AdditionalResources []string            `json:"additional_resources"`
	LearningTips        []string            `json:"learning_tips"`
	DifficultyAddressed bool                `json:"difficulty_addressed"`
	Error               string              `json:"error,omitempty"`
	Saved               bool                `json:"saved"`
	DocumentId          string              `json:"document_id,omitempty"`
	StageErrors         []engine.StageError `json:"stage_errors,omitempty"`
}

// State flows through the tutoring stages.
type State struct {
	engine.StageErrors

	UserId uuid.UUID
	Input  string

	Profile         *entity.UserProfile
	Analysis        Analysis
	LearningHistory []*entity.MemoryRecord
	WeakAreas       []string

	Explanation Explanation
	Result      Result
}

type Pipeline struct {
	engine     *engine.Engine
	llm        llm.LLMProvider
	memory     memory.Store
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPipeline(
	eng *engine.Engine,
	llmProvider llm.LLMProvider,
	store memory.Store,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		engine:     eng,
		llm:        llmProvider,
		memory:     store,
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Run executes the tutoring pipeline: load profile, analyze the request,
// retrieve memory context, generate the explanation, persist the session.
func (p *Pipeline) Run(ctx context.Context, userId uuid.UUID, input string) (*Result, error) {
	state := &State{
		UserId: userId,
		Input:  input,
	}

	pipeline := engine.Pipeline[*State]{
		Name: "tutor",
		Stages: []engine.Stage[*State]{
			{Name: "load_profile", Entry: true, Run: p.loadProfile},
			{Name: "analyze_request", Run: p.analyzeRequest},
			{Name: "retrieve_context", Run: p.retrieveContext},
			{Name: "generate_explanation", Run: p.generateExplanation},
			{Name: "save_session", Run: p.saveSession},
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
	state.Profile = profile // nil profile is fine, defaults apply
	return nil
}

func (p *Pipeline) analyzeRequest(ctx context.Context, state *State) error {
	var prompt strings.Builder
	prompt.WriteString("Analyze this learning request and extract the key information:\n")
	prompt.WriteString(fmt.Sprintf("Request: %q\n\n", state.Input))
	prompt.WriteString("Extract:\n")
	prompt.WriteString("1. Main topic\n")
	prompt.WriteString("2. Subject area\n")
	prompt.WriteString("3. Difficulty level (if mentioned)\n")
	prompt.WriteString("4. Specific questions or concepts\n\n")
	prompt.WriteString("Return as JSON with keys: topic, subject, difficulty, concepts\n")

	response, err := p.llm.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		state.Analysis = p.fallbackAnalysis(state.Input)
		return fmt.Errorf("analysis generation: %w", err)
	}

	result := parse.JSONWithFallback(response, func(reason string) Analysis {
		return p.fallbackAnalysis(state.Input)
	})
	state.Analysis = result.Value
	if result.Failed {
		state.RecordStageError("analyze_request", result.Reason)
	}
	return nil
}

func (p *Pipeline) fallbackAnalysis(input string) Analysis {
	return Analysis{
		Topic:      input,
		Subject:    "general",
		Difficulty: "medium",
		Concepts:   []string{input},
	}
}

func (p *Pipeline) retrieveContext(ctx context.Context, state *State) error {
	history, err := p.memory.LearningHistory(ctx, state.UserId, state.Analysis.Topic, 5)
	if err != nil {
		return fmt.Errorf("learning history: %w", err)
	}
	state.LearningHistory = history

	weakAreas, err := p.memory.WeakAreas(ctx, state.UserId)
	if err != nil {
		return fmt.Errorf("weak areas: %w", err)
	}
	state.WeakAreas = weakAreas
	return nil
}

func (p *Pipeline) generateExplanation(ctx context.Context, state *State) error {
	learningStyle := "visual"
	if state.Profile != nil && state.Profile.LearningStyle != "" {
		learningStyle = state.Profile.LearningStyle
	}

	weakAreas := "None identified"
	if len(state.WeakAreas) > 0 {
		weakAreas = strings.Join(state.WeakAreas, ", ")
	}

	var prompt strings.Builder
	prompt.WriteString("You are an expert AI tutor. Create a personalized explanation for this student.\n\n")
	prompt.WriteString(fmt.Sprintf("Student Request: %q\n", state.Input))
	prompt.WriteString(fmt.Sprintf("Topic: %s\n", state.Analysis.Topic))
	prompt.WriteString(fmt.Sprintf("Subject: %s\n\n", state.Analysis.Subject))
	prompt.WriteString("Student Profile:\n")
	prompt.WriteString(fmt.Sprintf("- Learning Style: %s\n", learningStyle))
	prompt.WriteString(fmt.Sprintf("- Known Weak Areas: %s\n\n", weakAreas))
	prompt.WriteString("Previous Learning History (if any):\n")
	prompt.WriteString(p.formatLearningHistory(state.LearningHistory))
	prompt.WriteString("\n\nInstructions:\n")
	prompt.WriteString("1. Provide a clear, personalized explanation adapted to their learning style\n")
	prompt.WriteString("2. If this is a topic they've struggled with before, acknowledge it and provide additional support\n")
	prompt.WriteString("3. Include 2-3 concrete examples\n")
	prompt.WriteString("4. Suggest 2-3 additional learning resources\n")
	prompt.WriteString("5. If they're visual learners, suggest diagrams/visuals\n")
	prompt.WriteString("6. If they're auditory learners, suggest verbal techniques\n")
	prompt.WriteString("7. If they're kinesthetic learners, suggest hands-on activities\n\n")
	prompt.WriteString("Format your response as JSON with:\n")
	prompt.WriteString("- explanation: main explanation text\n")
	prompt.WriteString("- examples: list of examples\n")
	prompt.WriteString("- additional_resources: list of suggested resources\n")
	prompt.WriteString("- learning_tips: personalized study tips\n")
	prompt.WriteString("- difficulty_addressed: boolean if this addresses a known weak area\n")

	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		// The session still gets an id and an error annotation so the
		// caller receives a usable, degraded result.
		state.Result = Result{
			SessionId:           uuid.New().String(),
			Topic:               state.Analysis.Topic,
			Subject:             state.Analysis.Subject,
			Examples:            []string{},
			AdditionalResources: []string{},
			LearningTips:        []string{},
			Error:               fmt.Sprintf("Failed to generate explanation: %v", err),
		}
		return fmt.Errorf("explanation generation: %w", err)
	}

	result := parse.JSONWithFallback(response, func(reason string) Explanation {
		// Unparseable output still carries the explanation as plain text.
		return Explanation{
			Explanation:         response,
			Examples:            []string{},
			AdditionalResources: []string{},
			LearningTips:        []string{},
			DifficultyAddressed: p.addressesWeakArea(state),
		}
	})
	state.Explanation = result.Value
	if result.Failed {
		state.RecordStageError("generate_explanation", result.Reason)
	}

	state.Result = Result{
		SessionId:           uuid.New().String(),
		Topic:               state.Analysis.Topic,
		Subject:             state.Analysis.Subject,
		Explanation:         state.Explanation.Explanation,
		Examples:            state.Explanation.Examples,
		AdditionalResources: state.Explanation.AdditionalResources,
		LearningTips:        state.Explanation.LearningTips,
		DifficultyAddressed: state.Explanation.DifficultyAddressed,
	}
	return nil
}

func (p *Pipeline) addressesWeakArea(state *State) bool {
	for _, area := range state.WeakAreas {
		if strings.EqualFold(area, state.Analysis.Topic) {
			return true
		}
	}
	return false
}

func (p *Pipeline) saveSession(ctx context.Context, state *State) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	document := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionTutoringSessions,
		Fields: map[string]interface{}{
			"session_id":           state.Result.SessionId,
			"topic":                state.Result.Topic,
			"subject":              state.Result.Subject,
			"explanation":          state.Result.Explanation,
			"examples":             state.Result.Examples,
			"additional_resources": state.Result.AdditionalResources,
			"learning_tips":        state.Result.LearningTips,
			"difficulty_addressed": state.Result.DifficultyAddressed,
			"timestamp":            time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := uow.StudyDocumentRepository().Create(ctx, document); err != nil {
		return fmt.Errorf("save tutoring session: %w", err)
	}
	state.Result.Saved = true
	state.Result.DocumentId = document.Id.String()
	return nil
}

func (p *Pipeline) memorize(ctx context.Context, state *State) error {
	// Nothing worth remembering when no explanation was produced.
	if state.Result.Explanation == "" {
		return nil
	}
	performance := "good"
	if state.Result.DifficultyAddressed {
		performance = "improving"
	}
	return p.memory.AddLearningContext(ctx, state.UserId, state.Result.Topic, state.Result.Explanation, performance)
}

func (p *Pipeline) formatLearningHistory(history []*entity.MemoryRecord) string {
	if len(history) == 0 {
		return "No previous learning history for this topic."
	}

	limit := len(history)
	if limit > 3 {
		limit = 3
	}

	var formatted strings.Builder
	for _, record := range history[:limit] {
		performance := "neutral"
		if p, ok := record.Metadata["performance"].(string); ok && p != "" {
			performance = p
		}
		formatted.WriteString(fmt.Sprintf("- %s: %s performance\n", record.CreatedAt.Format(time.RFC3339), performance))
	}
	return formatted.String()
}
