package memory

import (
	"context"
	"errors"
	"testing"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/contract"
	"eduverse-be/internal/repository/specification"
	"eduverse-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeRepository struct {
	created       []*entity.MemoryRecord
	recent        []*entity.MemoryRecord
	similar       []*entity.MemoryRecord
	recentCalled  bool
	similarCalled bool
}

func (f *fakeRepository) Create(ctx context.Context, record *entity.MemoryRecord) error {
	f.created = append(f.created, record)
	return nil
}
func (f *fakeRepository) Update(ctx context.Context, record *entity.MemoryRecord) error { return nil }
func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error                { return nil }
func (f *fakeRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error) {
	return nil, nil
}
func (f *fakeRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error) {
	return nil, nil
}
func (f *fakeRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (f *fakeRepository) FindRecent(ctx context.Context, userId uuid.UUID, metadataType string, limit int) ([]*entity.MemoryRecord, error) {
	f.recentCalled = true
	return f.recent, nil
}
func (f *fakeRepository) SearchSimilar(ctx context.Context, emb []float32, limit int, userId uuid.UUID) ([]*entity.MemoryRecord, error) {
	f.similarCalled = true
	return f.similar, nil
}
func (f *fakeRepository) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredMemoryRecord, error) {
	return nil, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakePublisher struct {
	published []uuid.UUID
	err       error
}

func (f *fakePublisher) PublishEmbedRecord(ctx context.Context, recordId uuid.UUID) error {
	f.published = append(f.published, recordId)
	return f.err
}

func TestAddStampsMetadataAndPublishes(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	s := NewStore(repo, &fakeEmbedder{}, pub, nopLogger{})
	userId := uuid.New()

	record, err := s.Add(context.Background(), userId, "studied limits", "learning_context", map[string]interface{}{"topic": "limits"})
	require.NoError(t, err)

	assert.Equal(t, "learning_context", record.MetadataType)
	assert.Equal(t, "learning_context", record.Metadata["type"])
	assert.NotEmpty(t, record.Metadata["timestamp"])
	assert.False(t, record.Embedded, "embedding happens asynchronously")

	require.Len(t, repo.created, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, record.Id, pub.published[0])
}

func TestAddSwallowsPublishFailure(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{err: errors.New("bus down")}
	s := NewStore(repo, &fakeEmbedder{}, pub, nopLogger{})

	record, err := s.Add(context.Background(), uuid.New(), "content", "learning_context", nil)
	require.NoError(t, err, "a failed publish must not fail the append")
	assert.NotNil(t, record)
	require.Len(t, repo.created, 1)
}

func TestSearchDegradesWhenEmbeddingFails(t *testing.T) {
	repo := &fakeRepository{recent: []*entity.MemoryRecord{{Content: "recent"}}}
	s := NewStore(repo, &fakeEmbedder{err: errors.New("provider offline")}, &fakePublisher{}, nopLogger{})

	records, err := s.Search(context.Background(), uuid.New(), "query", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, repo.recentCalled, "must fall back to recency ordering")
	assert.False(t, repo.similarCalled)
}

func TestSearchDegradesWhenNothingEmbedded(t *testing.T) {
	repo := &fakeRepository{recent: []*entity.MemoryRecord{{Content: "recent"}}}
	s := NewStore(repo, &fakeEmbedder{}, &fakePublisher{}, nopLogger{})

	records, err := s.Search(context.Background(), uuid.New(), "query", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, repo.similarCalled, "vector search attempted first")
	assert.True(t, repo.recentCalled, "empty vector result falls back to recency")
}

func TestSearchUsesVectorResults(t *testing.T) {
	repo := &fakeRepository{similar: []*entity.MemoryRecord{{Content: "similar"}}}
	s := NewStore(repo, &fakeEmbedder{}, &fakePublisher{}, nopLogger{})

	records, err := s.Search(context.Background(), uuid.New(), "query", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "similar", records[0].Content)
	assert.False(t, repo.recentCalled)
}

func TestWeakAreasDeduplicates(t *testing.T) {
	repo := &fakeRepository{recent: []*entity.MemoryRecord{
		{
			MetadataType: entity.MemoryTypeDifficulty,
			Metadata:     map[string]interface{}{"topic": "integration"},
		},
		{
			MetadataType: entity.MemoryTypeExamPerformance,
			Metadata:     map[string]interface{}{"weak_areas": []interface{}{"integration", "limits"}},
		},
		{
			MetadataType: entity.MemoryTypeLearningContext,
			Metadata:     map[string]interface{}{"topic": "ignored"},
		},
	}}
	s := NewStore(repo, &fakeEmbedder{}, &fakePublisher{}, nopLogger{})

	areas, err := s.WeakAreas(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"integration", "limits"}, areas)
}
