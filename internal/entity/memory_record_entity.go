package entity

import (
	"time"

	"github.com/google/uuid"
)

// Metadata types recorded alongside memory content. These mirror the
// categories the pipelines write after each run.
const (
	MemoryTypeLearningContext  = "learning_context"
	MemoryTypeDifficulty       = "difficulty"
	MemoryTypeExamPerformance  = "exam_performance"
	MemoryTypeStudyPlan        = "study_plan"
	MemoryTypeResourceSearch   = "resource_search"
	MemoryTypeSyllabusAnalysis = "syllabus_analysis"
)

type MemoryRecord struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Content        string
	MetadataType   string
	Metadata       map[string]interface{}
	EmbeddingValue []float32
	Embedded       bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
