package memory

import (
	"context"
	"time"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/pkg/logger"
	"eduverse-be/internal/repository/contract"
	"eduverse-be/pkg/embedding"

	"github.com/google/uuid"
)

// Publisher hands freshly appended records to the embedding consumer.
type Publisher interface {
	PublishEmbedRecord(ctx context.Context, recordId uuid.UUID) error
}

// Store is the long-term memory port used by the pipelines. Appends are
// write-through; embedding happens asynchronously, so searches degrade to
// recency ordering until the consumer catches up.
type Store interface {
	Add(ctx context.Context, userId uuid.UUID, content, metadataType string, metadata map[string]interface{}) (*entity.MemoryRecord, error)
	Search(ctx context.Context, userId uuid.UUID, query string, limit int) ([]*entity.MemoryRecord, error)
	Recent(ctx context.Context, userId uuid.UUID, metadataType string, limit int) ([]*entity.MemoryRecord, error)

	AddLearningContext(ctx context.Context, userId uuid.UUID, topic, context string, performance string) error
	AddDifficultyContext(ctx context.Context, userId uuid.UUID, topic, difficulty, details string) error
	AddExamPerformance(ctx context.Context, userId uuid.UUID, topic string, score float64, weakAreas []string) error
	LearningHistory(ctx context.Context, userId uuid.UUID, topic string, limit int) ([]*entity.MemoryRecord, error)
	WeakAreas(ctx context.Context, userId uuid.UUID) ([]string, error)
}

type store struct {
	repository        contract.MemoryRecordRepository
	embeddingProvider embedding.EmbeddingProvider
	publisher         Publisher
	logger            logger.ILogger
}

func NewStore(
	repository contract.MemoryRecordRepository,
	embeddingProvider embedding.EmbeddingProvider,
	publisher Publisher,
	log logger.ILogger,
) Store {
	return &store{
		repository:        repository,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		logger:            log,
	}
}

func (s *store) Add(ctx context.Context, userId uuid.UUID, content, metadataType string, metadata map[string]interface{}) (*entity.MemoryRecord, error) {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	metadata["type"] = metadataType
	if _, ok := metadata["timestamp"]; !ok {
		metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	record := &entity.MemoryRecord{
		Id:           uuid.New(),
		UserId:       userId,
		Content:      content,
		MetadataType: metadataType,
		Metadata:     metadata,
		Embedded:     false,
		CreatedAt:    time.Now(),
	}

	if err := s.repository.Create(ctx, record); err != nil {
		return nil, err
	}

	// Embedding is deferred to the consumer. A failed publish leaves the record
	// searchable by recency only, which is acceptable.
	if err := s.publisher.PublishEmbedRecord(ctx, record.Id); err != nil {
		s.logger.Warn("memory", "Failed to publish embed event", map[string]interface{}{
			"record_id": record.Id.String(),
			"error":     err.Error(),
		})
	}

	return record, nil
}

func (s *store) Search(ctx context.Context, userId uuid.UUID, query string, limit int) ([]*entity.MemoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Warn("memory", "Query embedding failed, degrading to recency", map[string]interface{}{
			"error": err.Error(),
		})
		return s.Recent(ctx, userId, "", limit)
	}

	records, err := s.repository.SearchSimilar(ctx, res.Embedding.Values, limit, userId)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// Nothing embedded yet for this user.
		return s.Recent(ctx, userId, "", limit)
	}
	return records, nil
}

func (s *store) Recent(ctx context.Context, userId uuid.UUID, metadataType string, limit int) ([]*entity.MemoryRecord, error) {
	return s.repository.FindRecent(ctx, userId, metadataType, limit)
}
