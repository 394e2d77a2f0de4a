package contract

import (
	"context"

	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StudyDocumentRepository interface {
	Create(ctx context.Context, document *entity.StudyDocument) error
	Update(ctx context.Context, document *entity.StudyDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudyDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudyDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
