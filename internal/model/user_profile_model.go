package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserProfile struct {
	Id                  uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex"`
	Name                string                      `gorm:"type:varchar(255)"`
	LearningStyle       string                      `gorm:"type:varchar(64)"` // visual, auditory, kinesthetic, reading
	PreferredDifficulty string                      `gorm:"type:varchar(32)"` // beginner, intermediate, advanced
	Subjects            datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt           time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt              `gorm:"index"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
