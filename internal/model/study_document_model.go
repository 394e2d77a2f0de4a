package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyDocument is a schemaless row in a named collection (tutoring_sessions,
// study_schedules, curated_resources, exam_results, syllabus_analysis,
// learning_paths, syllabus_resources). Fields carries the collection payload.
type StudyDocument struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Collection string            `gorm:"type:varchar(64);not null;index"`
	Fields     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (StudyDocument) TableName() string {
	return "study_documents"
}
