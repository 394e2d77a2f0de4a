package implementation

import (
	"context"
	"errors"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/mapper"
	"eduverse-be/internal/model"
	"eduverse-be/internal/repository/contract"
	"eduverse-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudyDocumentMapper
}

func NewStudyDocumentRepository(db *gorm.DB) contract.StudyDocumentRepository {
	return &StudyDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudyDocumentMapper(),
	}
}

func (r *StudyDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StudyDocumentRepositoryImpl) Create(ctx context.Context, document *entity.StudyDocument) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudyDocumentRepositoryImpl) Update(ctx context.Context, document *entity.StudyDocument) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudyDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StudyDocument{}, id).Error
}

func (r *StudyDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudyDocument, error) {
	var m model.StudyDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StudyDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudyDocument, error) {
	var models []*model.StudyDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StudyDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.StudyDocument{}).Count(&count).Error
	return count, err
}
