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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MemoryRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryRecordMapper
}

func NewMemoryRecordRepository(db *gorm.DB) contract.MemoryRecordRepository {
	return &MemoryRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryRecordMapper(),
	}
}

func (r *MemoryRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryRecordRepositoryImpl) Create(ctx context.Context, record *entity.MemoryRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryRecordRepositoryImpl) Update(ctx context.Context, record *entity.MemoryRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryRecordRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MemoryRecord{}, id).Error
}

func (r *MemoryRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error) {
	var m model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoryRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error) {
	var models []*model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoryRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MemoryRecord{}).Count(&count).Error
	return count, err
}

func (r *MemoryRecordRepositoryImpl) FindRecent(ctx context.Context, userId uuid.UUID, metadataType string, limit int) ([]*entity.MemoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if metadataType != "" {
		query = query.Where("metadata_type = ?", metadataType)
	}

	var models []*model.MemoryRecord
	if err := query.Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoryRecordRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.MemoryRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.MemoryRecord

	// Using pgvector cosine distance: embedding_value <=> vector.
	// Records still waiting for the embedding consumer are excluded here;
	// the caller degrades to FindRecent for those.
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Where("embedded = ?", true).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilarWithScore returns records with similarity scores, filtered by threshold
func (r *MemoryRecordRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredMemoryRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.MemoryRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_records").
		Select("memory_records.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("user_id = ?", userId).
		Where("embedded = ?", true).
		Where("deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryRecord, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMemoryRecord{
			Record:     r.mapper.ToEntity(&res.MemoryRecord),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
