package syllabus

import (
	"context"
	"errors"
	"testing"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/contract"
	"eduverse-be/internal/repository/specification"
	"eduverse-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDocumentRepository struct{}

func (failingDocumentRepository) Create(ctx context.Context, document *entity.StudyDocument) error {
	return errors.New("postgres down")
}
func (failingDocumentRepository) Update(ctx context.Context, document *entity.StudyDocument) error {
	return nil
}
func (failingDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (failingDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudyDocument, error) {
	return nil, nil
}
func (failingDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudyDocument, error) {
	return nil, nil
}
func (failingDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (fakeUnitOfWork) Commit() error                   { return nil }
func (fakeUnitOfWork) Rollback() error                 { return nil }
func (fakeUnitOfWork) MemoryRecordRepository() contract.MemoryRecordRepository { return nil }
func (fakeUnitOfWork) StudyDocumentRepository() contract.StudyDocumentRepository {
	return failingDocumentRepository{}
}
func (fakeUnitOfWork) UserProfileRepository() contract.UserProfileRepository { return nil }

type fakeFactory struct{}

func (fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return fakeUnitOfWork{} }

func TestResultSurvivesPersistFailure(t *testing.T) {
	p := &Pipeline{uowFactory: fakeFactory{}}
	state := &State{
		LearningPath: pathWith(
			Topic{TopicId: "t1", Title: "Limits"},
			Topic{TopicId: "t2", Title: "Derivatives"},
		),
	}
	state.Resources = resourcesFor("t1", "video", "article", "course")

	require.NoError(t, p.analyzeCoverage(context.Background(), state))
	require.Error(t, p.saveAnalysis(context.Background(), state))

	assert.NotEmpty(t, state.Result.AnalysisId)
	assert.Len(t, state.Result.LearningPath.Topics, 2)
	assert.Len(t, state.Result.Resources, 3)
	assert.NotEmpty(t, state.Result.Recommendations)
	assert.Equal(t, 3, state.Result.TotalResourcesFound)
	assert.False(t, state.Result.Saved, "the computed answer outlives the failed save")
	assert.Empty(t, state.Result.PathDocumentId)
}
