package mapper

import (
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/model"

	"gorm.io/gorm"
)

type StudyDocumentMapper struct{}

func NewStudyDocumentMapper() *StudyDocumentMapper {
	return &StudyDocumentMapper{}
}

func (m *StudyDocumentMapper) ToEntity(e *model.StudyDocument) *entity.StudyDocument {
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

	return &entity.StudyDocument{
		Id:         e.Id,
		UserId:     e.UserId,
		Collection: e.Collection,
		Fields:     map[string]interface{}(e.Fields),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  e.DeletedAt.Valid,
	}
}

func (m *StudyDocumentMapper) ToModel(e *entity.StudyDocument) *model.StudyDocument {
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

	return &model.StudyDocument{
		Id:         e.Id,
		UserId:     e.UserId,
		Collection: e.Collection,
		Fields:     e.Fields,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *StudyDocumentMapper) ToEntities(documents []*model.StudyDocument) []*entity.StudyDocument {
	entities := make([]*entity.StudyDocument, len(documents))
	for i, e := range documents {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
