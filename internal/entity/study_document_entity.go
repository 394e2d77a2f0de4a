package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Collections persisted per pipeline run.
const (
	CollectionTutoringSessions  = "tutoring_sessions"
	CollectionStudySchedules    = "study_schedules"
	CollectionCuratedResources  = "curated_resources"
	CollectionExamResults       = "exam_results"
	CollectionSyllabusAnalysis  = "syllabus_analysis"
	CollectionLearningPaths     = "learning_paths"
	CollectionSyllabusResources = "syllabus_resources"
)

type StudyDocument struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Collection string
	Fields     map[string]interface{}
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// SerializedField encodes a nested structure as a JSON string. The document
// collections keep flat values typed but store complex nested fields
// (schedules, question lists, coverage maps) as opaque strings; readers that
// need the structure decode the string back.
func SerializedField(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
