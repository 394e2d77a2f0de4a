package implementation

import (
	"context"
	"errors"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/mapper"
	"eduverse-be/internal/model"
	"eduverse-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserProfileMapper
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserProfileMapper(),
	}
}

func (r *UserProfileRepositoryImpl) Create(ctx context.Context, profile *entity.UserProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserProfileRepositoryImpl) Update(ctx context.Context, profile *entity.UserProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserProfileRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	var m model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
