package contract

import (
	"context"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredMemoryRecord wraps MemoryRecord with its similarity score
type ScoredMemoryRecord struct {
	Record     *entity.MemoryRecord
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type MemoryRecordRepository interface {
	Create(ctx context.Context, record *entity.MemoryRecord) error
	Update(ctx context.Context, record *entity.MemoryRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecent returns the newest records for a user, newest first.
	// metadataType narrows the category when non-empty.
	FindRecent(ctx context.Context, userId uuid.UUID, metadataType string, limit int) ([]*entity.MemoryRecord, error)
	// SearchSimilar orders embedded records by cosine distance to the query vector.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.MemoryRecord, error)
	// SearchSimilarWithScore returns records with similarity scores, filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*ScoredMemoryRecord, error)
}
