package mapper

import (
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MemoryRecordMapper struct{}

func NewMemoryRecordMapper() *MemoryRecordMapper {
	return &MemoryRecordMapper{}
}

func (m *MemoryRecordMapper) ToEntity(e *model.MemoryRecord) *entity.MemoryRecord {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.MemoryRecord{
		Id:             e.Id,
		UserId:         e.UserId,
		Content:        e.Content,
		MetadataType:   e.MetadataType,
		Metadata:       map[string]interface{}(e.Metadata),
		EmbeddingValue: e.EmbeddingValue.Slice(),
		Embedded:       e.Embedded,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *MemoryRecordMapper) ToModel(e *entity.MemoryRecord) *model.MemoryRecord {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.MemoryRecord{
		Id:             e.Id,
		UserId:         e.UserId,
		Content:        e.Content,
		MetadataType:   e.MetadataType,
		Metadata:       e.Metadata,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Embedded:       e.Embedded,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *MemoryRecordMapper) ToEntities(records []*model.MemoryRecord) []*entity.MemoryRecord {
	entities := make([]*entity.MemoryRecord, len(records))
	for i, e := range records {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
