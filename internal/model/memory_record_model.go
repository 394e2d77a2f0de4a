package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MemoryRecord struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID         `gorm:"type:uuid;not null;index"`
	Content        string            `gorm:"type:text"`
	MetadataType   string            `gorm:"type:varchar(64);index"` // learning_context, exam_performance, ...
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	EmbeddingValue pgvector.Vector   `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	Embedded       bool              `gorm:"default:false;index"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt    `gorm:"index"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}
