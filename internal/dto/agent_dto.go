package dto

import (
	"github.com/google/uuid"

	"eduverse-be/pkg/agent/curator"
	"eduverse-be/pkg/agent/examcoach"
	"eduverse-be/pkg/agent/planner"
	"eduverse-be/pkg/agent/syllabus"
	"eduverse-be/pkg/agent/tutor"
)

type TutorRequest struct {
	Message string `json:"message" validate:"required"`
}

type TutorResponse struct {
	Agent  string        `json:"agent"`
	Result *tutor.Result `json:"result"`
}

type PlannerRequest struct {
	Message    string   `json:"message" validate:"required_without=Subjects"`
	Subjects   []string `json:"subjects,omitempty"`
	Days       int      `json:"days,omitempty" validate:"omitempty,min=1,max=90"`
	DailyHours float64  `json:"daily_hours,omitempty" validate:"omitempty,gt=0,lte=16"`
	Goal       string   `json:"goal,omitempty"`
}

type PlannerResponse struct {
	Agent  string          `json:"agent"`
	Result *planner.Result `json:"result"`
}

type CuratorRequest struct {
	Message string `json:"message" validate:"required"`
}

type CuratorResponse struct {
	Agent  string          `json:"agent"`
	Result *curator.Result `json:"result"`
}

type CreateExamRequest struct {
	Message       string   `json:"message" validate:"required_without=Topic"`
	Topic         string   `json:"topic,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	QuestionCount int      `json:"question_count,omitempty" validate:"omitempty,min=1,max=50"`
	QuestionTypes []string `json:"question_types,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

type EvaluateExamRequest struct {
	Topic   string            `json:"topic" validate:"required"`
	Subject string            `json:"subject,omitempty"`
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

type ExamResponse struct {
	Agent  string            `json:"agent"`
	Result *examcoach.Result `json:"result"`
}

type AnalyzeSyllabusRequest struct {
	SyllabusContent string `json:"syllabus_content" validate:"required"`
	Subject         string `json:"subject,omitempty"`
	CourseName      string `json:"course_name,omitempty"`
}

type SyllabusResponse struct {
	Agent  string           `json:"agent"`
	Result *syllabus.Result `json:"result"`
}

type LearningPathSummary struct {
	DocumentId uuid.UUID              `json:"document_id"`
	Fields     map[string]interface{} `json:"fields"`
}

type SyllabusResourceItem struct {
	DocumentId uuid.UUID              `json:"document_id"`
	Fields     map[string]interface{} `json:"fields"`
}

type AgentStatusResponse struct {
	Agents []string `json:"agents"`
	Status string   `json:"status"`
}

// PublishEmbedRecordMessage is the embed queue payload.
type PublishEmbedRecordMessage struct {
	RecordId uuid.UUID `json:"record_id"`
}
