package dto

import (
	"time"

	"github.com/google/uuid"
)

type GetProfileResponse struct {
	Id                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	LearningStyle       string    `json:"learning_style"`
	PreferredDifficulty string    `json:"preferred_difficulty"`
	Subjects            []string  `json:"subjects"`
	CreatedAt           time.Time `json:"created_at"`
}

type UpsertProfileRequest struct {
	Name                string   `json:"name" validate:"required,max=128"`
	LearningStyle       string   `json:"learning_style" validate:"omitempty,oneof=visual auditory kinesthetic reading"`
	PreferredDifficulty string   `json:"preferred_difficulty" validate:"omitempty,oneof=easy medium hard"`
	Subjects            []string `json:"subjects" validate:"omitempty,max=20,dive,max=64"`
}

type UpsertProfileResponse struct {
	Id uuid.UUID `json:"id"`
}
