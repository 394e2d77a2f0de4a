package syllabus

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

// Topic is one unit of a parsed syllabus or a learning path.
type Topic struct {
	TopicId            string   `json:"topic_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	WeekNumber         int      `json:"week_number"`
	EstimatedHours     int      `json:"estimated_hours"`
	Prerequisites      []string `json:"prerequisites"`
	LearningObjectives []string `json:"learning_objectives"`
	Activities         []string `json:"activities,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
}

// ParsedSyllabus is the structured reading of raw syllabus text.
type ParsedSyllabus struct {
	CourseOverview     string   `json:"course_overview"`
	MainTopics         []Topic  `json:"main_topics"`
	TotalDurationWeeks int      `json:"total_duration_weeks"`
	AssessmentMethods  []string `json:"assessment_methods"`
	OverallDifficulty  string   `json:"overall_difficulty"`
	KeySkills          []string `json:"key_skills"`
}

// LearningPath sequences the topics into a week-by-week plan.
type LearningPath struct {
	PathId              string  `json:"path_id"`
	CourseName          string  `json:"course_name"`
	Subject             string  `json:"subject"`
	TotalWeeks          int     `json:"total_weeks"`
	TotalEstimatedHours int     `json:"total_estimated_hours"`
	Topics              []Topic `json:"learning_path"`
	Milestones          []int   `json:"milestones"`
	RecommendedPace     string  `json:"recommended_pace"`
}

// PathResource ties a found web resource to a learning path topic.
type PathResource struct {
	ResourceId           string  `json:"resource_id"`
	TopicId              string  `json:"topic_id"`
	PathId               string  `json:"path_id"`
	Title                string  `json:"title"`
	URL                  string  `json:"url"`
	Type                 string  `json:"type"`
	Description          string  `json:"description"`
	Source               string  `json:"source"`
	RelevanceScore       float64 `json:"relevance_score"`
	DifficultyLevel      string  `json:"difficulty_level"`
	EstimatedTimeMinutes int     `json:"estimated_time_minutes"`
}

// Coverage summarizes how well the found resources cover the path's topics.
type Coverage struct {
	TotalTopics              int            `json:"total_topics"`
	TopicsWithResources      int            `json:"topics_with_resources"`
	TotalResources           int            `json:"total_resources"`
	ResourceDistribution     map[string]int `json:"resource_distribution"`
	AverageResourcesPerTopic float64        `json:"average_resources_per_topic"`
	WellCoveredTopics        []string       `json:"well_covered_topics"`
	UnderCoveredTopics       []string       `json:"under_covered_topics"`
}

type Result struct {
	AnalysisId          string              `json:"analysis_id"`
	LearningPath        LearningPath        `json:"learning_path"`
	Resources           []PathResource      `json:"resources"`
	CoverageAnalysis    Coverage            `json:"coverage_analysis"`
	Recommendations     []string            `json:"recommendations"`
	TotalResourcesFound int                 `json:"total_resources_found"`
	Saved               bool                `json:"saved"`
	PathDocumentId      string              `json:"path_document_id,omitempty"`
	AnalysisDocumentId  string              `json:"analysis_document_id,omitempty"`
	StageErrors         []engine.StageError `json:"stage_errors,omitempty"`
}

type State struct {
	engine.StageErrors

	UserId          uuid.UUID
	SyllabusContent string
	Subject         string
	CourseName      string

	Profile *entity.UserProfile

	Parsed          ParsedSyllabus
	LearningPath    LearningPath
	Resources       []PathResource
	Coverage        Coverage
	Recommendations []string

	Result Result
}

type Pipeline struct {
	engine     *engine.Engine
	llm        llm.LLMProvider
	search     websearch.SearchProvider
	memory     memory.Store
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPipeline(
	eng *engine.Engine,
	llmProvider llm.LLMProvider,
	search websearch.SearchProvider,
	store memory.Store,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		engine:     eng,
		llm:        llmProvider,
		search:     search,
		memory:     store,
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Run analyzes raw syllabus text: parse topics, build a learning path, find
// web resources per topic, score the coverage, and persist everything.
func (p *Pipeline) Run(ctx context.Context, userId uuid.UUID, syllabusContent, subject, courseName string) (*Result, error) {
	if subject == "" {
		subject = "General"
	}
	if courseName == "" {
		courseName = "Course"
	}
	state := &State{
		UserId:          userId,
		SyllabusContent: syllabusContent,
		Subject:         subject,
		CourseName:      courseName,
	}

	pipeline := engine.Pipeline[*State]{
		Name: "syllabus-analyzer",
		Stages: []engine.Stage[*State]{
			{Name: "load_profile", Entry: true, Run: p.loadProfile},
			{Name: "parse_syllabus", Run: p.parseSyllabus},
			{Name: "generate_learning_path", Run: p.generateLearningPath},
			{Name: "find_resources", Run: p.findResources},
			{Name: "analyze_coverage", Run: p.analyzeCoverage},
			{Name: "save_analysis", Run: p.saveAnalysis},
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
	if strings.TrimSpace(state.SyllabusContent) == "" {
		return fmt.Errorf("no syllabus content provided")
	}
	uow := p.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.UserProfileRepository().FindByUserId(ctx, state.UserId)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	state.Profile = profile
	return nil
}

func (p *Pipeline) parseSyllabus(ctx context.Context, state *State) error {

	var prompt strings.Builder
	prompt.WriteString("Analyze this syllabus content and extract structured information:\n\n")
	prompt.WriteString("SYLLABUS CONTENT:\n")
	prompt.WriteString(state.SyllabusContent)
	prompt.WriteString(fmt.Sprintf("\n\nSubject: %s\n", state.Subject))
	prompt.WriteString(fmt.Sprintf("Course: %s\n\n", state.CourseName))
	prompt.WriteString("Extract and organize:\n")
	prompt.WriteString("1. Course overview and objectives\n")
	prompt.WriteString("2. Main topics/chapters with descriptions\n")
	prompt.WriteString("3. Weekly or module breakdown if available\n")
	prompt.WriteString("4. Prerequisites mentioned\n")
	prompt.WriteString("5. Learning objectives for each topic\n")
	prompt.WriteString("6. Estimated time/duration for each topic\n")
	prompt.WriteString("7. Assessment methods mentioned\n\n")
	prompt.WriteString("Return as JSON with:\n")
	prompt.WriteString("- course_overview: string description\n")
	prompt.WriteString("- main_topics: array of objects with {title, description, week_number, estimated_hours, prerequisites, learning_objectives}\n")
	prompt.WriteString("- total_duration_weeks: number\n")
	prompt.WriteString("- assessment_methods: array of strings\n")
	prompt.WriteString("- overall_difficulty: string (beginner/intermediate/advanced)\n")
	prompt.WriteString("- key_skills: array of skills students will gain\n")

	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		// Regex extraction keeps the run going without the model.
		state.Parsed = p.fallbackParsed(state.SyllabusContent)
		return fmt.Errorf("syllabus parsing: %w", err)
	}

	result := parse.JSONWithFallback(response, func(reason string) ParsedSyllabus {
		return p.fallbackParsed(state.SyllabusContent)
	})
	state.Parsed = result.Value
	if result.Failed {
		state.RecordStageError("parse_syllabus", result.Reason)
	}

	for i := range state.Parsed.MainTopics {
		if state.Parsed.MainTopics[i].TopicId == "" {
			state.Parsed.MainTopics[i].TopicId = uuid.New().String()
		}
	}
	return nil
}

func (p *Pipeline) fallbackParsed(content string) ParsedSyllabus {
	return ParsedSyllabus{
		CourseOverview:     "Course analysis available",
		MainTopics:         ExtractTopics(content),
		TotalDurationWeeks: 12,
		AssessmentMethods:  []string{"assignments", "exams"},
		OverallDifficulty:  "intermediate",
		KeySkills:          []string{},
	}
}

func (p *Pipeline) generateLearningPath(ctx context.Context, state *State) error {
	learningStyle := "visual"
	if state.Profile != nil && state.Profile.LearningStyle != "" {
		learningStyle = state.Profile.LearningStyle
	}

	topicsJson, _ := json.MarshalIndent(state.Parsed.MainTopics, "", "  ")

	var prompt strings.Builder
	prompt.WriteString("Create a detailed learning path based on this syllabus analysis:\n\n")
	prompt.WriteString(fmt.Sprintf("Course: %s\n", state.CourseName))
	prompt.WriteString(fmt.Sprintf("Subject: %s\n", state.Subject))
	prompt.WriteString(fmt.Sprintf("Overview: %s\n", state.Parsed.CourseOverview))
	prompt.WriteString("Topics:\n")
	prompt.Write(topicsJson)
	prompt.WriteString(fmt.Sprintf("\nDuration: %d weeks\n", state.Parsed.TotalDurationWeeks))
	prompt.WriteString(fmt.Sprintf("Difficulty: %s\n\n", state.Parsed.OverallDifficulty))
	prompt.WriteString("Student Profile:\n")
	prompt.WriteString(fmt.Sprintf("- Learning Style: %s\n\n", learningStyle))
	prompt.WriteString("Create an optimized learning path with:\n")
	prompt.WriteString("1. Logical topic sequencing based on prerequisites\n")
	prompt.WriteString("2. Realistic time estimates for each topic\n")
	prompt.WriteString("3. Learning objectives for each topic\n")
	prompt.WriteString("4. Suggested learning activities for their learning style\n")
	prompt.WriteString("5. Milestone checkpoints\n")
	prompt.WriteString("6. Review and assessment points\n\n")
	prompt.WriteString("Return as JSON with:\n")
	prompt.WriteString("- course_name: string\n")
	prompt.WriteString("- subject: string\n")
	prompt.WriteString("- total_weeks: number\n")
	prompt.WriteString("- total_estimated_hours: number\n")
	prompt.WriteString("- learning_path: array of topics with {topic_id, title, description, week_number, estimated_hours, prerequisites, learning_objectives, activities}\n")
	prompt.WriteString("- milestones: array of checkpoint weeks\n")
	prompt.WriteString("- recommended_pace: string description\n")

	path := LearningPath{}
	response, err := p.llm.Generate(ctx, prompt.String())
	if err != nil {
		path = p.fallbackLearningPath(state)
		state.RecordStageError("generate_learning_path", err.Error())
	} else {
		result := parse.JSONWithFallback(response, func(reason string) LearningPath {
			return p.fallbackLearningPath(state)
		})
		path = result.Value
		if result.Failed {
			state.RecordStageError("generate_learning_path", result.Reason)
		}
	}

	path.PathId = uuid.New().String()
	path.CourseName = state.CourseName
	path.Subject = state.Subject
	for i := range path.Topics {
		if path.Topics[i].TopicId == "" {
			path.Topics[i].TopicId = uuid.New().String()
		}
	}
	state.LearningPath = path
	return nil
}

func (p *Pipeline) fallbackLearningPath(state *State) LearningPath {
	topics := state.Parsed.MainTopics
	if len(topics) == 0 {
		topics = []Topic{{
			TopicId:            uuid.New().String(),
			Title:              "Course Introduction",
			Description:        "Introduction to the course content",
			WeekNumber:         1,
			EstimatedHours:     2,
			Prerequisites:      []string{},
			LearningObjectives: []string{},
		}}
	}

	totalHours := 0
	for _, topic := range topics {
		hours := topic.EstimatedHours
		if hours <= 0 {
			hours = 3
		}
		totalHours += hours
	}

	// A checkpoint every third topic.
	var milestones []int
	for week := 1; week <= len(topics); week += 3 {
		milestones = append(milestones, week)
	}

	return LearningPath{
		CourseName:          state.CourseName,
		Subject:             state.Subject,
		TotalWeeks:          len(topics),
		TotalEstimatedHours: totalHours,
		Topics:              topics,
		Milestones:          milestones,
		RecommendedPace:     "Follow weekly schedule with regular review",
	}
}

func (p *Pipeline) findResources(ctx context.Context, state *State) error {
	if len(state.LearningPath.Topics) == 0 {
		state.Resources = []PathResource{}
		return fmt.Errorf("no topics found in learning path")
	}

	// First 10 topics only, to stay inside search rate limits.
	topics := state.LearningPath.Topics
	if len(topics) > 10 {
		topics = topics[:10]
	}

	var resources []PathResource
	for _, topic := range topics {
		if topic.Title == "" {
			continue
		}
		difficulty := topic.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}

		videos, err := p.search.SearchVideos(ctx, topic.Title, state.Subject, 3)
		if err == nil {
			resources = append(resources, p.toPathResources(videos, topic.TopicId, state.LearningPath.PathId, "video", difficulty, 30)...)
		}
		articles, err := p.search.SearchArticles(ctx, topic.Title, state.Subject, 2)
		if err == nil {
			resources = append(resources, p.toPathResources(articles, topic.TopicId, state.LearningPath.PathId, "article", difficulty, 15)...)
		}
		courses, err := p.search.SearchCourses(ctx, topic.Title, state.Subject, 1)
		if err == nil {
			resources = append(resources, p.toPathResources(courses, topic.TopicId, state.LearningPath.PathId, "course", difficulty, 120)...)
		}
	}

	state.Resources = resources
	return nil
}

func (p *Pipeline) toPathResources(found []websearch.Resource, topicId, pathId, resourceType, difficulty string, minutes int) []PathResource {
	resources := make([]PathResource, 0, len(found))
	for _, r := range found {
		score := r.RelevanceScore
		if score == 0 {
			switch resourceType {
			case "video":
				score = 0.8
			case "article":
				score = 0.7
			case "course":
				score = 0.9
			}
		}
		resources = append(resources, PathResource{
			ResourceId:           uuid.New().String(),
			TopicId:              topicId,
			PathId:               pathId,
			Title:                r.Title,
			URL:                  r.URL,
			Type:                 resourceType,
			Description:          r.Description,
			Source:               r.Source,
			RelevanceScore:       score,
			DifficultyLevel:      difficulty,
			EstimatedTimeMinutes: minutes,
		})
	}
	return resources
}

func (p *Pipeline) analyzeCoverage(ctx context.Context, state *State) error {
	topics := state.LearningPath.Topics
	coverage := Coverage{
		TotalTopics:          len(topics),
		TotalResources:       len(state.Resources),
		ResourceDistribution: map[string]int{"video": 0, "article": 0, "course": 0},
		WellCoveredTopics:    []string{},
		UnderCoveredTopics:   []string{},
	}

	perTopic := make(map[string]int)
	for _, resource := range state.Resources {
		perTopic[resource.TopicId]++
		if _, ok := coverage.ResourceDistribution[resource.Type]; ok {
			coverage.ResourceDistribution[resource.Type]++
		}
	}
	coverage.TopicsWithResources = len(perTopic)
	if len(topics) > 0 {
		coverage.AverageResourcesPerTopic = float64(len(state.Resources)) / float64(len(topics))
	}

	for _, topic := range topics {
		count := perTopic[topic.TopicId]
		if count >= 3 {
			coverage.WellCoveredTopics = append(coverage.WellCoveredTopics, topic.Title)
		} else if count < 2 {
			coverage.UnderCoveredTopics = append(coverage.UnderCoveredTopics, topic.Title)
		}
	}

	var recommendations []string
	if len(coverage.UnderCoveredTopics) > 0 {
		shown := coverage.UnderCoveredTopics
		if len(shown) > 3 {
			shown = shown[:3]
		}
		recommendations = append(recommendations, fmt.Sprintf("Need more resources for: %s", strings.Join(shown, ", ")))
	}
	if float64(coverage.ResourceDistribution["video"]) < float64(coverage.TotalResources)*0.3 {
		recommendations = append(recommendations, "Consider adding more video content for visual learners")
	}
	if coverage.AverageResourcesPerTopic < 2 {
		recommendations = append(recommendations, "Each topic should have at least 2-3 different resource types")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Excellent resource coverage! Ready to start learning.")
	}

	state.Coverage = coverage
	state.Recommendations = recommendations

	// The computed answer is the result from here on; persistence only
	// annotates it.
	state.Result = Result{
		AnalysisId:          uuid.New().String(),
		LearningPath:        state.LearningPath,
		Resources:           state.Resources,
		CoverageAnalysis:    coverage,
		Recommendations:     recommendations,
		TotalResourcesFound: len(state.Resources),
	}
	return nil
}

func (p *Pipeline) saveAnalysis(ctx context.Context, state *State) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	pathDocument := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionLearningPaths,
		Fields: map[string]interface{}{
			"path_id":               state.LearningPath.PathId,
			"course_name":           state.LearningPath.CourseName,
			"subject":               state.LearningPath.Subject,
			"total_weeks":           state.LearningPath.TotalWeeks,
			"total_estimated_hours": state.LearningPath.TotalEstimatedHours,
			"learning_path_topics":  entity.SerializedField(state.LearningPath.Topics),
			"milestones":            entity.SerializedField(state.LearningPath.Milestones),
			"recommended_pace":      state.LearningPath.RecommendedPace,
		},
	}
	if err := uow.StudyDocumentRepository().Create(ctx, pathDocument); err != nil {
		return fmt.Errorf("save learning path: %w", err)
	}

	for _, resource := range state.Resources {
		resourceDocument := &entity.StudyDocument{
			Id:         uuid.New(),
			UserId:     state.UserId,
			Collection: entity.CollectionSyllabusResources,
			Fields: map[string]interface{}{
				"resource_id":            resource.ResourceId,
				"topic_id":               resource.TopicId,
				"path_id":                resource.PathId,
				"title":                  resource.Title,
				"url":                    resource.URL,
				"type":                   resource.Type,
				"description":            resource.Description,
				"source":                 resource.Source,
				"relevance_score":        resource.RelevanceScore,
				"difficulty_level":       resource.DifficultyLevel,
				"estimated_time_minutes": resource.EstimatedTimeMinutes,
			},
		}
		if err := uow.StudyDocumentRepository().Create(ctx, resourceDocument); err != nil {
			return fmt.Errorf("save syllabus resource: %w", err)
		}
	}

	analysisDocument := &entity.StudyDocument{
		Id:         uuid.New(),
		UserId:     state.UserId,
		Collection: entity.CollectionSyllabusAnalysis,
		Fields: map[string]interface{}{
			"syllabus_id":           state.Result.AnalysisId,
			"path_id":               state.LearningPath.PathId,
			"course_overview":       state.Parsed.CourseOverview,
			"total_resources_found": len(state.Resources),
			"coverage_analysis":     entity.SerializedField(state.Coverage),
			"recommendations":       entity.SerializedField(state.Recommendations),
			"assessment_methods":    entity.SerializedField(state.Parsed.AssessmentMethods),
			"key_skills":            entity.SerializedField(state.Parsed.KeySkills),
			"overall_difficulty":    state.Parsed.OverallDifficulty,
		},
	}
	if err := uow.StudyDocumentRepository().Create(ctx, analysisDocument); err != nil {
		return fmt.Errorf("save syllabus analysis: %w", err)
	}

	state.Result.Saved = true
	state.Result.PathDocumentId = pathDocument.Id.String()
	state.Result.AnalysisDocumentId = analysisDocument.Id.String()
	return nil
}

func (p *Pipeline) memorize(ctx context.Context, state *State) error {
	content := fmt.Sprintf("Analyzed syllabus for %s. Created learning path with %d topics and found %d resources.",
		state.LearningPath.CourseName, len(state.LearningPath.Topics), len(state.Resources))
	_, err := p.memory.Add(ctx, state.UserId, content, entity.MemoryTypeSyllabusAnalysis, map[string]interface{}{
		"analysis_id":     state.Result.AnalysisId,
		"path_id":         state.LearningPath.PathId,
		"course_name":     state.LearningPath.CourseName,
		"subject":         state.LearningPath.Subject,
		"topics_count":    len(state.LearningPath.Topics),
		"resources_found": len(state.Resources),
	})
	return err
}
