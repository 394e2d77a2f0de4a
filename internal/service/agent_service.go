package service

import (
	"context"

	"eduverse-be/internal/dto"
	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/specification"
	"eduverse-be/internal/repository/unitofwork"
	"eduverse-be/pkg/agent/curator"
	"eduverse-be/pkg/agent/examcoach"
	"eduverse-be/pkg/agent/planner"
	"eduverse-be/pkg/agent/syllabus"
	"eduverse-be/pkg/agent/tutor"

	"github.com/google/uuid"
)

type IAgentService interface {
	Tutor(ctx context.Context, userId uuid.UUID, req *dto.TutorRequest) (*dto.TutorResponse, error)
	Plan(ctx context.Context, userId uuid.UUID, req *dto.PlannerRequest) (*dto.PlannerResponse, error)
	Curate(ctx context.Context, userId uuid.UUID, req *dto.CuratorRequest) (*dto.CuratorResponse, error)
	CreateExam(ctx context.Context, userId uuid.UUID, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	EvaluateExam(ctx context.Context, userId uuid.UUID, req *dto.EvaluateExamRequest) (*dto.ExamResponse, error)
	AnalyzeSyllabus(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeSyllabusRequest) (*dto.SyllabusResponse, error)
	GetLearningPaths(ctx context.Context, userId uuid.UUID) ([]*dto.LearningPathSummary, error)
	GetSyllabusResources(ctx context.Context, userId uuid.UUID, pathId string) ([]*dto.SyllabusResourceItem, error)
	Status(ctx context.Context) *dto.AgentStatusResponse
}

type agentService struct {
	tutorPipeline    *tutor.Pipeline
	plannerPipeline  *planner.Pipeline
	curatorPipeline  *curator.Pipeline
	examPipeline     *examcoach.Pipeline
	syllabusPipeline *syllabus.Pipeline
	uowFactory       unitofwork.RepositoryFactory
}

func NewAgentService(
	tutorPipeline *tutor.Pipeline,
	plannerPipeline *planner.Pipeline,
	curatorPipeline *curator.Pipeline,
	examPipeline *examcoach.Pipeline,
	syllabusPipeline *syllabus.Pipeline,
	uowFactory unitofwork.RepositoryFactory,
) IAgentService {
	return &agentService{
		tutorPipeline:    tutorPipeline,
		plannerPipeline:  plannerPipeline,
		curatorPipeline:  curatorPipeline,
		examPipeline:     examPipeline,
		syllabusPipeline: syllabusPipeline,
		uowFactory:       uowFactory,
	}
}

func (s *agentService) Tutor(ctx context.Context, userId uuid.UUID, req *dto.TutorRequest) (*dto.TutorResponse, error) {
	result, err := s.tutorPipeline.Run(ctx, userId, req.Message)
	if err != nil {
		return nil, err
	}
	return &dto.TutorResponse{Agent: "tutor", Result: result}, nil
}

func (s *agentService) Plan(ctx context.Context, userId uuid.UUID, req *dto.PlannerRequest) (*dto.PlannerResponse, error) {
	result, err := s.plannerPipeline.Run(ctx, userId, req.Message, req.Subjects, req.Days, req.DailyHours)
	if err != nil {
		return nil, err
	}
	return &dto.PlannerResponse{Agent: "planner", Result: result}, nil
}

func (s *agentService) Curate(ctx context.Context, userId uuid.UUID, req *dto.CuratorRequest) (*dto.CuratorResponse, error) {
	result, err := s.curatorPipeline.Run(ctx, userId, req.Message)
	if err != nil {
		return nil, err
	}
	return &dto.CuratorResponse{Agent: "curator", Result: result}, nil
}

func (s *agentService) CreateExam(ctx context.Context, userId uuid.UUID, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	var provided *examcoach.Analysis
	if req.Topic != "" {
		provided = &examcoach.Analysis{
			ActionType:    "create",
			Topic:         req.Topic,
			Subject:       req.Subject,
			QuestionCount: req.QuestionCount,
			QuestionTypes: req.QuestionTypes,
			Difficulty:    req.Difficulty,
		}
	}
	result, err := s.examPipeline.Run(ctx, userId, req.Message, provided)
	if err != nil {
		return nil, err
	}
	return &dto.ExamResponse{Agent: "exam-coach", Result: result}, nil
}

func (s *agentService) EvaluateExam(ctx context.Context, userId uuid.UUID, req *dto.EvaluateExamRequest) (*dto.ExamResponse, error) {
	provided := &examcoach.Analysis{
		ActionType:      "evaluate",
		Topic:           req.Topic,
		Subject:         req.Subject,
		QuestionCount:   len(req.Answers),
		AnswersProvided: req.Answers,
	}
	result, err := s.examPipeline.Run(ctx, userId, "", provided)
	if err != nil {
		return nil, err
	}
	return &dto.ExamResponse{Agent: "exam-coach", Result: result}, nil
}

func (s *agentService) AnalyzeSyllabus(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeSyllabusRequest) (*dto.SyllabusResponse, error) {
	result, err := s.syllabusPipeline.Run(ctx, userId, req.SyllabusContent, req.Subject, req.CourseName)
	if err != nil {
		return nil, err
	}
	return &dto.SyllabusResponse{Agent: "syllabus-analyzer", Result: result}, nil
}

func (s *agentService) GetLearningPaths(ctx context.Context, userId uuid.UUID) ([]*dto.LearningPathSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.StudyDocumentRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByCollection{Collection: entity.CollectionLearningPaths},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.LearningPathSummary, 0, len(documents))
	for _, document := range documents {
		result = append(result, &dto.LearningPathSummary{
			DocumentId: document.Id,
			Fields:     document.Fields,
		})
	}
	return result, nil
}

func (s *agentService) GetSyllabusResources(ctx context.Context, userId uuid.UUID, pathId string) ([]*dto.SyllabusResourceItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.StudyDocumentRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByCollection{Collection: entity.CollectionSyllabusResources},
		specification.ByFieldValue{Key: "path_id", Value: pathId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SyllabusResourceItem, 0, len(documents))
	for _, document := range documents {
		result = append(result, &dto.SyllabusResourceItem{
			DocumentId: document.Id,
			Fields:     document.Fields,
		})
	}
	return result, nil
}

func (s *agentService) Status(ctx context.Context) *dto.AgentStatusResponse {
	return &dto.AgentStatusResponse{
		Agents: []string{"tutor", "planner", "curator", "exam-coach", "syllabus-analyzer"},
		Status: "ready",
	}
}
