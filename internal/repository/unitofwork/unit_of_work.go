package unitofwork

import (
	"context"

	"eduverse-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MemoryRecordRepository() contract.MemoryRecordRepository
	StudyDocumentRepository() contract.StudyDocumentRepository
	UserProfileRepository() contract.UserProfileRepository
}
