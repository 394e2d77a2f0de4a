package mapper

import (
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(e *model.UserProfile) *entity.UserProfile {
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

	return &entity.UserProfile{
		Id:                  e.Id,
		UserId:              e.UserId,
		Name:                e.Name,
		LearningStyle:       e.LearningStyle,
		PreferredDifficulty: e.PreferredDifficulty,
		Subjects:            []string(e.Subjects),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
		IsDeleted:           e.DeletedAt.Valid,
	}
}

func (m *UserProfileMapper) ToModel(e *entity.UserProfile) *model.UserProfile {
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

	return &model.UserProfile{
		Id:                  e.Id,
		UserId:              e.UserId,
		Name:                e.Name,
		LearningStyle:       e.LearningStyle,
		PreferredDifficulty: e.PreferredDifficulty,
		Subjects:            datatypes.NewJSONSlice(e.Subjects),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
	}
}
