package curator

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
	"eduverse-be/pkg/websearch"

	"github.com/google/uuid"
)

// Analysis is the structured reading of the resource request.
type Analysis struct {
	Topic         string   `json:"topic"`
	Subject       string   `json:"subject"`
	ResourceTypes []string `json:"resource_types"`
	Difficulty    string   `json:"difficulty"`
	Requirements  []string `json:"requirements"`
}

// CuratedResource is a ranked, annotated search hit.
type CuratedResource struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	Rating         float64 `json:"rating"`
	Source         string  `json:"source"`
	WhyRecommended string  `json:"why_recommended"`
}

// Curation is the LLM ranking payload.
type Curation struct {
	CuratedResources []CuratedResource `json:"curated_resources"`
	TotalFound       int               `json:"total_found"`
	SearchSummary    string            `json:"search_summary"`
	Recommendations  []string          `json:"recommendations"`
}

type Result struct {
	CollectionId     string              `json:"collection_id"`
	Topic            string              `json:"topic"`
	Subject          string              `json:"subject"`
	CuratedResources []CuratedResource   `json:"curated_resources"`
	TotalFound       int                 `json:"total_found"`
	SearchSummary    string              `json:"search_summary"`
	Recommendations  []string            `json:"recommendations"`
	Error            string              `json:"error,omitempty"`
	Saved            bool                `json:"saved"`
	DocumentId       string              `json:"document_id,omitempty"`
	StageErrors      []engine.StageError `json:"stage_errors,omitempty"`
}

type State struct {
	engine.StageErrors

	UserId uuid.UUID
	Input  string

	Profile      *entity.UserProfile
	Analysis     Analysis
	WeakAreas    []string
	RawResources []websearch.Resource

	Result Result
}

type Pipeline struct {
	engine     *engine.Engine
	llm        llm.LLMProvider
	search     websearch.SearchProvider
	memory     memory.Store
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	fallbackLimit  int
	fallbackRating float64
}

func NewPipeline(
	eng *engine.Engine,
	llmProvider llm.LLMProvider,
	search websearch.SearchProvider,
	store memory.Store,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	fallbackLimit int,
	fallbackRating float64,
) *Pipeline {
	if fallbackLimit <= 0 {
		fallbackLimit = 8
	}
	if fallbackRating <= 0 {
		fallbackRating = 4.0
	}
	return &Pipeline{
		engine:         eng,
		llm:            llmProvider,
		search:         search,
		memory:         store,
		uowFactory:     uowFactory,
		logger:         log,
		fallbackLimit:  fallbackLimit,
		fallbackRating: fallbackRating,
	}
}

func (p *Pipeline) Run(ctx context.Context, userId uuid.UUID, input string) (*Result, error) {
	state := &State{
		UserId: userId,
		Input:  input,
	}

	pipeline := engine.Pipeline[*State]{
		Name: "curator",
		Stages: []engine.Stage[*State]{
			{Name: "load_profile", Entry: true, Run: p.loadProfile},
			{Name: "analyze_request", Run: p.analyzeRequest},
			{Name: "search_resources", Run: p.searchResources},
			{Name: "curate_and_rank", Run: p.curateAndRank},
			{Name: "save_resources", Run: p.saveResources},
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

	weakAreas, err := p.memory.WeakAreas(ctx, state.UserId)
	if err == nil {
		state.WeakAreas = weakAreas
	}
	return nil
}

func (p *Pipeline) analyzeRequest(ctx context.Context, state *State) error {
	var prompt strings.Builder
	prompt.WriteString("Analyze this resource request:\n")
	prompt.WriteString(fmt.Sprintf("Request: %q\n\n", state.Input))
	prompt.WriteString("Extract:\n")
	prompt.WriteString("1. Topic/subject to find resources for\n")
	prompt.WriteString("2. Preferred resource types (video, article, course, etc.)\n")
	prompt.WriteString("3. Difficulty level\n")
	prompt.WriteString("4. Specific requirements or preferences\n\n")
	prompt.WriteString("Return as JSON with keys: topic, subject, resource_types, difficulty, requirements\n")

	response, err := p.llm.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		state.Analysis = p.fallbackAnalysis(state.Input)
		return fmt.Errorf("request analysis: %w", err)
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
		Topic:         input,
		Subject:       "general",
		ResourceTypes: []string{"video", "article", "course"},
		Difficulty:    "medium",
		Requirements:  []string{},
	}
}

func (p *Pipeline) searchResources(ctx context.Context, state *State) error {
	topic := state.Analysis.Topic
	subject := state.Analysis.Subject
	if subject == "" {
		subject = "general"
	}

	wants := func(kind string) bool {
		for _, t := range state.Analysis.ResourceTypes {
			if strings.EqualFold(t, kind) {
				return true
			}
		}
		return false
	}

	var all []websearch.Resource
	var searchErrs []string

	if wants("video") {
		videos, err := p.search.SearchVideos(ctx, topic, subject, 5)
		if err != nil {
			searchErrs = append(searchErrs, err.Error())
		} else {
			all = append(all, videos...)
		}
	}
	if wants("article") {
		articles, err := p.search.SearchArticles(ctx, topic, subject, 5)
		if err != nil {
			searchErrs = append(searchErrs, err.Error())
		} else {
			all = append(all, articles...)
		}
	}
	if wants("course") {
		courses, err := p.search.SearchCourses(ctx, topic, subject, 3)
		if err != nil {
			searchErrs = append(searchErrs, err.Error())
		} else {
			all = append(all, courses...)
		}
	}
	if !wants("video") && !wants("article") && !wants("course") {
		general, err := p.search.SearchEducationalResources(ctx, topic, subject, 10)
		if err != nil {
			searchErrs = append(searchErrs, err.Error())
		} else {
			all = append(all, general...)
		}
	}

	state.RawResources = all
	if len(all) == 0 && len(searchErrs) > 0 {
		return fmt.Errorf("all searches failed: %s", strings.Join(searchErrs, "; "))
	}
	return nil
}

func (p *Pipeline) curateAndRank(ctx context.Context, state *State) error {
	if len(state.RawResources) == 0 {
		state.Result = Result{
			CollectionId:     uuid.New().String(),
			Topic:            state.Analysis.Topic,
			Subject:          state.Analysis.Subject,
			CuratedResources: []CuratedResource{},
			TotalFound:       0,
			SearchSummary:    "No resources found",
			Recommendations:  []string{},
			Error:            "No resources found",
		}
		return nil
	}

	learningStyle := "visual"
	if state.Profile != nil && state.Profile.LearningStyle != "" {
		learningStyle = state.Profile.LearningStyle
	}

	evaluated := state.RawResources
	if len(evaluated) > 15 {
		evaluated = evaluated[:15]
	}
	resourcesJson, _ := json.MarshalIndent(evaluated, "", "  ")

	var prompt strings.Builder
	prompt.WriteString("You are an expert educational content curator. Review and rank these resources for a student.\n\n")
	prompt.WriteString(fmt.Sprintf("Student Request: %s in %s\n", state.Analysis.Topic, state.Analysis.Subject))
	prompt.WriteString("Student Profile:\n")
	prompt.WriteString(fmt.Sprintf("- Learning Style: %s\n", learningStyle))
	prompt.WriteString(fmt.Sprintf("- Weak Areas: %s\n", strings.Join(state.WeakAreas, ", ")))
	prompt.WriteString(fmt.Sprintf("- Difficulty Level: %s\n\n", state.Analysis.Difficulty))
	prompt.WriteString("Resources to evaluate:\n")
	prompt.Write(resourcesJson)
	prompt.WriteString("\n\nInstructions:\n")
	prompt.WriteString("1. Rank resources by educational quality and relevance\n")
	prompt.WriteString("2. Filter out low-quality or irrelevant content\n")
	prompt.WriteString("3. Prioritize resources that match the student's learning style\n")
	prompt.WriteString("4. Include a brief explanation of why each resource is valuable\n")
	prompt.WriteString("5. Ensure variety in resource types and sources\n\n")
	prompt.WriteString("Return as JSON with:\n")
	prompt.WriteString("- curated_resources: array of top resources with enhanced descriptions\n")
	prompt.WriteString("- total_found: number of resources found\n")
	prompt.WriteString("- search_summary: brief summary of what was found\n")
	prompt.WriteString("- recommendations: specific recommendations based on student profile\n\n")
	prompt.WriteString("Each resource should have: title, url, type, description, rating (1-5), source, why_recommended\n")

	curation := Curation{}
	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		curation = p.fallbackCuration(state)
		state.RecordStageError("curate_and_rank", err.Error())
	} else {
		result := parse.JSONWithFallback(response, func(reason string) Curation {
			return p.fallbackCuration(state)
		})
		curation = result.Value
		if result.Failed {
			state.RecordStageError("curate_and_rank", result.Reason)
		}
		if len(curation.CuratedResources) == 0 {
			curation.CuratedResources = p.fallbackCuration(state).CuratedResources
		}
	}

	state.Result = Result{
		CollectionId:     uuid.New().String(),
		Topic:            state.Analysis.Topic,
		Subject:          state.Analysis.Subject,
		CuratedResources: curation.CuratedResources,
		TotalFound:       curation.TotalFound,
		SearchSummary:    curation.SearchSummary,
		Recommendations:  curation.Recommendations,
	}
	if state.Result.TotalFound == 0 {
		state.Result.TotalFound = len(state.RawResources)
	}
	return nil
}

// fallbackCuration keeps the first N raw hits with a flat default rating.
func (p *Pipeline) fallbackCuration(state *State) Curation {
	limit := p.fallbackLimit
	if limit > len(state.RawResources) {
		limit = len(state.RawResources)
	}

	curated := make([]CuratedResource, 0, limit)
	for _, resource := range state.RawResources[:limit] {
		curated = append(curated, CuratedResource{
			Title:          resource.Title,
			URL:            resource.URL,
			Type:           resource.Type,
			Description:    resource.Description,
			Rating:         p.fallbackRating,
			Source:         resource.Source,
			WhyRecommended: "Quality educational content from trusted source",
		})
	}

	return Curation{
		CuratedResources: curated,
		TotalFound:       len(state.RawResources),
		SearchSummary:    fmt.Sprintf("Found %d resources for %s", len(state.RawResources), state.Analysis.Topic),
		Recommendations:  []string{"Review multiple sources", "Start with videos for visual learning"},
	}
}

func (p *Pipeline) saveResources(ctx context.Context, state *State) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	document := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionCuratedResources,
		Fields: map[string]interface{}{
			"collection_id":     state.Result.CollectionId,
			"topic":             state.Result.Topic,
			"subject":           state.Result.Subject,
			"curated_resources": entity.SerializedField(state.Result.CuratedResources),
			"total_found":       state.Result.TotalFound,
			"search_summary":    state.Result.SearchSummary,
			"recommendations":   state.Result.Recommendations,
		},
	}
	if err := uow.StudyDocumentRepository().Create(ctx, document); err != nil {
		return fmt.Errorf("save curated resources: %w", err)
	}
	state.Result.Saved = true
	state.Result.DocumentId = document.Id.String()
	return nil
}

func (p *Pipeline) memorize(ctx context.Context, state *State) error {
	summary := fmt.Sprintf("Found %d resources for %s in %s",
		state.Result.TotalFound, state.Result.Topic, state.Result.Subject)
	_, err := p.memory.Add(ctx, state.UserId, summary, entity.MemoryTypeResourceSearch, map[string]interface{}{
		"collection_id":  state.Result.CollectionId,
		"topic":          state.Result.Topic,
		"subject":        state.Result.Subject,
		"resource_count": state.Result.TotalFound,
	})
	return err
}
