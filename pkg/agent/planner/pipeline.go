package planner

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

// Requirements is the structured planning request.
type Requirements struct {
	Subjects     []string `json:"subjects"`
	DurationDays int      `json:"duration_days"`
	DailyHours   float64  `json:"daily_hours"`
	Goals        []string `json:"goals"`
	Priorities   []string `json:"priorities"`
}

// Task is a single scheduled activity.
type Task struct {
	Topic           string `json:"topic"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        string `json:"priority"`
	Activity        string `json:"activity"` // study, practice, review
}

// Plan is the generated schedule payload.
type Plan struct {
	DailySchedule map[string][]Task `json:"daily_schedule"`
	WeeklyGoals   []string          `json:"weekly_goals"`
	TotalHours    float64           `json:"total_hours"` // daily hours, not total
	FocusAreas    []string          `json:"focus_areas"`
	LearningTips  []string          `json:"learning_tips"`
}

type ExamHistoryItem struct {
	Topic     string   `json:"topic"`
	Score     float64  `json:"score"`
	WeakAreas []string `json:"weak_areas"`
}

type DifficultyItem struct {
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficulty_level"`
}

type Result struct {
	PlanId       string              `json:"plan_id"`
	StartDate    string              `json:"start_date"`
	EndDate      string              `json:"end_date"`
	DurationDays int                 `json:"duration_days"`
	Plan         Plan                `json:"plan"`
	Saved        bool                `json:"saved"`
	DocumentId   string              `json:"document_id,omitempty"`
	StageErrors  []engine.StageError `json:"stage_errors,omitempty"`
}

type State struct {
	engine.StageErrors

	UserId uuid.UUID
	Input  string

	// Structured requirements supplied by the caller; skips LLM analysis.
	ProvidedSubjects   []string
	ProvidedDays       int
	ProvidedDailyHours float64

	Profile         *entity.UserProfile
	Requirements    Requirements
	WeakAreas       []string
	ExamHistory     []ExamHistoryItem
	DifficultyAreas []DifficultyItem

	Result Result
}

type Pipeline struct {
	engine     *engine.Engine
	llm        llm.LLMProvider
	memory     memory.Store
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
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
		now:        time.Now,
	}
}

func (p *Pipeline) Run(ctx context.Context, userId uuid.UUID, input string, subjects []string, days int, dailyHours float64) (*Result, error) {
	state := &State{
		UserId:             userId,
		Input:              input,
		ProvidedSubjects:   subjects,
		ProvidedDays:       days,
		ProvidedDailyHours: dailyHours,
	}

	pipeline := engine.Pipeline[*State]{
		Name: "planner",
		Stages: []engine.Stage[*State]{
			{Name: "load_profile", Entry: true, Run: p.loadProfile},
			{Name: "analyze_requirements", Run: p.analyzeRequirements},
			{Name: "gather_context", Run: p.gatherContext},
			{Name: "generate_plan", Run: p.generatePlan},
			{Name: "save_plan", Run: p.savePlan},
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

func (p *Pipeline) analyzeRequirements(ctx context.Context, state *State) error {
	// Structured input from the request body wins over LLM extraction.
	if len(state.ProvidedSubjects) > 0 {
		days := state.ProvidedDays
		if days <= 0 {
			days = 7
		}
		hours := state.ProvidedDailyHours
		if hours <= 0 {
			hours = 2
		}
		state.Requirements = Requirements{
			Subjects:     state.ProvidedSubjects,
			DurationDays: days,
			DailyHours:   hours,
			Goals:        []string{"improve understanding"},
			Priorities:   []string{},
		}
		return nil
	}

	var prompt strings.Builder
	prompt.WriteString("Analyze this study planning request:\n")
	prompt.WriteString(fmt.Sprintf("Request: %q\n\n", state.Input))
	prompt.WriteString("Extract:\n")
	prompt.WriteString("1. Subjects to study\n")
	prompt.WriteString("2. Time duration (days/weeks)\n")
	prompt.WriteString("3. Daily study hours available\n")
	prompt.WriteString("4. Specific goals or deadlines\n")
	prompt.WriteString("5. Priority topics\n\n")
	prompt.WriteString("Return as JSON with keys: subjects, duration_days, daily_hours, goals, priorities\n")
	prompt.WriteString("If not specified, use reasonable defaults.\n")

	response, err := p.llm.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		state.Requirements = fallbackRequirements()
		return fmt.Errorf("requirements analysis: %w", err)
	}

	result := parse.JSONWithFallback(response, func(reason string) Requirements {
		return fallbackRequirements()
	})
	state.Requirements = result.Value
	if result.Failed {
		state.RecordStageError("analyze_requirements", result.Reason)
	}
	if state.Requirements.DurationDays <= 0 {
		state.Requirements.DurationDays = 7
	}
	if state.Requirements.DailyHours <= 0 {
		state.Requirements.DailyHours = 2
	}
	if len(state.Requirements.Subjects) == 0 {
		state.Requirements.Subjects = []string{"general"}
	}
	return nil
}

func fallbackRequirements() Requirements {
	return Requirements{
		Subjects:     []string{"general"},
		DurationDays: 7,
		DailyHours:   2,
		Goals:        []string{"improve understanding"},
		Priorities:   []string{},
	}
}

func (p *Pipeline) gatherContext(ctx context.Context, state *State) error {
	weakAreas, err := p.memory.WeakAreas(ctx, state.UserId)
	if err != nil {
		return fmt.Errorf("weak areas: %w", err)
	}
	state.WeakAreas = weakAreas

	// Window of the 10 most recent memories, same as the exam/difficulty scan.
	recent, err := p.memory.Recent(ctx, state.UserId, "", 10)
	if err != nil {
		return fmt.Errorf("recent memories: %w", err)
	}

	for _, record := range recent {
		switch record.MetadataType {
		case entity.MemoryTypeExamPerformance:
			item := ExamHistoryItem{}
			if topic, ok := record.Metadata["topic"].(string); ok {
				item.Topic = topic
			}
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
			state.ExamHistory = append(state.ExamHistory, item)
		case entity.MemoryTypeDifficulty:
			item := DifficultyItem{}
			if topic, ok := record.Metadata["topic"].(string); ok {
				item.Topic = topic
			}
			if level, ok := record.Metadata["difficulty_level"].(string); ok {
				item.DifficultyLevel = level
			}
			state.DifficultyAreas = append(state.DifficultyAreas, item)
		}
	}
	return nil
}

func (p *Pipeline) generatePlan(ctx context.Context, state *State) error {
	startDate := p.now()
	durationDays := state.Requirements.DurationDays
	endDate := startDate.AddDate(0, 0, durationDays)

	learningStyle := "visual"
	if state.Profile != nil && state.Profile.LearningStyle != "" {
		learningStyle = state.Profile.LearningStyle
	}

	difficulties := make([]string, 0, len(state.DifficultyAreas))
	for _, area := range state.DifficultyAreas {
		difficulties = append(difficulties, area.Topic)
	}

	var prompt strings.Builder
	prompt.WriteString("Create a personalized study plan for this student.\n\n")
	prompt.WriteString("Requirements:\n")
	prompt.WriteString(fmt.Sprintf("- Subjects: %s\n", strings.Join(state.Requirements.Subjects, ", ")))
	prompt.WriteString(fmt.Sprintf("- Duration: %d days\n", durationDays))
	prompt.WriteString(fmt.Sprintf("- Daily hours available: %.1f hours\n", state.Requirements.DailyHours))
	prompt.WriteString(fmt.Sprintf("- Goals: %s\n\n", strings.Join(state.Requirements.Goals, ", ")))
	prompt.WriteString("Student Context:\n")
	prompt.WriteString(fmt.Sprintf("- Learning Style: %s\n", learningStyle))
	prompt.WriteString(fmt.Sprintf("- Weak Areas: %s\n", strings.Join(state.WeakAreas, ", ")))
	prompt.WriteString(fmt.Sprintf("- Recent Difficulties: %s\n\n", strings.Join(difficulties, ", ")))
	prompt.WriteString("Instructions:\n")
	prompt.WriteString("1. Prioritize weak areas and recent difficulties\n")
	prompt.WriteString("2. Balance time across all subjects\n")
	prompt.WriteString("3. Include varied learning activities\n")
	prompt.WriteString("4. Adapt to their learning style\n")
	prompt.WriteString("5. Include review and practice sessions\n")
	prompt.WriteString("6. Set realistic daily goals\n\n")
	prompt.WriteString("Return as JSON with:\n")
	prompt.WriteString("- daily_schedule: object with date keys (YYYY-MM-DD) and task arrays\n")
	prompt.WriteString("  (each task: topic, subject, duration_minutes, priority, activity)\n")
	prompt.WriteString("- weekly_goals: array of goals\n")
	prompt.WriteString("- total_hours: daily study hours (0-24)\n")
	prompt.WriteString("- focus_areas: prioritized topics\n")
	prompt.WriteString("- learning_tips: personalized study tips\n")

	plan := Plan{}
	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		plan = p.fallbackPlan(state, durationDays)
		state.RecordStageError("generate_plan", err.Error())
	} else {
		result := parse.JSONWithFallback(response, func(reason string) Plan {
			return p.fallbackPlan(state, durationDays)
		})
		plan = result.Value
		if result.Failed {
			state.RecordStageError("generate_plan", result.Reason)
		}
	}

	state.Result = Result{
		PlanId:       uuid.New().String(),
		StartDate:    startDate.Format(time.RFC3339),
		EndDate:      endDate.Format(time.RFC3339),
		DurationDays: durationDays,
		Plan:         plan,
	}
	return nil
}

// fallbackPlan builds a deterministic schedule: subjects round-robin across
// days, each day split 60% study / 40% practice of the available hours.
func (p *Pipeline) fallbackPlan(state *State, durationDays int) Plan {
	subjects := state.Requirements.Subjects
	if len(subjects) == 0 {
		subjects = []string{"general"}
	}
	dailyHours := state.Requirements.DailyHours
	if dailyHours <= 0 {
		dailyHours = 2
	}

	schedule := make(map[string][]Task, durationDays)
	for day := 0; day < durationDays; day++ {
		date := p.now().AddDate(0, 0, day).Format("2006-01-02")
		subject := subjects[day%len(subjects)]

		schedule[date] = []Task{
			{
				Topic:           subject + " review",
				Subject:         subject,
				DurationMinutes: int(dailyHours * 60 * 0.6),
				Priority:        "high",
				Activity:        "study",
			},
			{
				Topic:           subject + " practice",
				Subject:         subject,
				DurationMinutes: int(dailyHours * 60 * 0.4),
				Priority:        "medium",
				Activity:        "practice",
			},
		}
	}

	focusAreas := state.WeakAreas
	if len(focusAreas) > 3 {
		focusAreas = focusAreas[:3]
	}

	return Plan{
		DailySchedule: schedule,
		WeeklyGoals:   state.Requirements.Goals,
		TotalHours:    dailyHours,
		FocusAreas:    focusAreas,
		LearningTips:  []string{"Stay consistent", "Take breaks", "Review regularly"},
	}
}

func (p *Pipeline) savePlan(ctx context.Context, state *State) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	document := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionStudySchedules,
		Fields: map[string]interface{}{
			"plan_id":        state.Result.PlanId,
			"start_date":     state.Result.StartDate,
			"end_date":       state.Result.EndDate,
			"duration_days":  state.Result.DurationDays,
			"daily_schedule": entity.SerializedField(state.Result.Plan.DailySchedule),
			"weekly_goals":   state.Result.Plan.WeeklyGoals,
			"total_hours":    state.Result.Plan.TotalHours,
			"learning_tips":  state.Result.Plan.LearningTips,
		},
	}
	if err := uow.StudyDocumentRepository().Create(ctx, document); err != nil {
		return fmt.Errorf("save study plan: %w", err)
	}
	state.Result.Saved = true
	state.Result.DocumentId = document.Id.String()
	return nil
}

func (p *Pipeline) memorize(ctx context.Context, state *State) error {
	summary := fmt.Sprintf("Study plan created for %d days focusing on: %s",
		state.Result.DurationDays, strings.Join(state.Result.Plan.FocusAreas, ", "))
	_, err := p.memory.Add(ctx, state.UserId, summary, entity.MemoryTypeStudyPlan, map[string]interface{}{
		"plan_id":       state.Result.PlanId,
		"duration_days": state.Result.DurationDays,
		"focus_areas":   state.Result.Plan.FocusAreas,
	})
	return err
}
