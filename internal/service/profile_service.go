package service

import (
	"context"
	"time"

	"eduverse-be/internal/dto"
	"eduverse-be/internal/entity"
	"eduverse-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IProfileService interface {
	Get(ctx context.Context, userId uuid.UUID) (*dto.GetProfileResponse, error)
	Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertProfileRequest) (*dto.UpsertProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory) IProfileService {
	return &profileService{
		uowFactory: uowFactory,
		cache:      cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *profileService) Get(ctx context.Context, userId uuid.UUID) (*dto.GetProfileResponse, error) {
	if cached, found := s.cache.Get(userId.String()); found {
		return cached.(*dto.GetProfileResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.UserProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Profile not found")
	}

	res := &dto.GetProfileResponse{
		Id:                  profile.Id,
		Name:                profile.Name,
		LearningStyle:       profile.LearningStyle,
		PreferredDifficulty: profile.PreferredDifficulty,
		Subjects:            profile.Subjects,
		CreatedAt:           profile.CreatedAt,
	}
	s.cache.Set(userId.String(), res, cache.DefaultExpiration)
	return res, nil
}

func (s *profileService) Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertProfileRequest) (*dto.UpsertProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		profile := &entity.UserProfile{
			Id:                  uuid.New(),
			UserId:              userId,
			Name:                req.Name,
			LearningStyle:       req.LearningStyle,
			PreferredDifficulty: req.PreferredDifficulty,
			Subjects:            req.Subjects,
			CreatedAt:           time.Now(),
		}
		if err := uow.UserProfileRepository().Create(ctx, profile); err != nil {
			return nil, err
		}
		s.cache.Delete(userId.String())
		return &dto.UpsertProfileResponse{Id: profile.Id}, nil
	}

	now := time.Now()
	existing.Name = req.Name
	existing.LearningStyle = req.LearningStyle
	existing.PreferredDifficulty = req.PreferredDifficulty
	existing.Subjects = req.Subjects
	existing.UpdatedAt = &now
	if err := uow.UserProfileRepository().Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cache.Delete(userId.String())
	return &dto.UpsertProfileResponse{Id: existing.Id}, nil
}
