package contract

import (
	"context"

	"eduverse-be/internal/entity"

	"github.com/google/uuid"
)

type UserProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	Update(ctx context.Context, profile *entity.UserProfile) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error)
}
