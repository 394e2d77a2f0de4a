package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	Name                string
	LearningStyle       string
	PreferredDifficulty string
	Subjects            []string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	DeletedAt           *time.Time
	IsDeleted           bool
}
