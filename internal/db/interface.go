package db

import (
	"context"

	"github.com/vetdao/governance-locks/internal/db/model"
)

//go:generate mockery --name=DbInterface --output=../../tests/mocks --outpkg=mocks --filename=DbInterface.go
type DbInterface interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	// SaveLock inserts or replaces the lock document with the same id
	SaveLock(ctx context.Context, doc *model.LockDocument) error
	GetLock(ctx context.Context, id uint64) (*model.LockDocument, error)
	// FindAllLocks returns every lock ordered by id
	FindAllLocks(ctx context.Context) ([]model.LockDocument, error)

	// SaveExitQueueEntry fails with DuplicateKeyError when the lock already has an entry
	SaveExitQueueEntry(ctx context.Context, doc *model.ExitQueueDocument) error
	// DeleteExitQueueEntry fails with NotFoundError when the lock has no entry
	DeleteExitQueueEntry(ctx context.Context, lockID uint64) error
	FindAllExitQueueEntries(ctx context.Context) ([]model.ExitQueueDocument, error)
	// FindClaimableExits returns up to limit unannounced entries scheduled at
	// or before now (unix seconds), earliest first
	FindClaimableExits(ctx context.Context, now int64, limit uint64) ([]model.ExitQueueDocument, error)
	MarkExitAnnounced(ctx context.Context, lockID uint64) error

	UpsertOverallStats(ctx context.Context, stats *model.OverallStatsDocument) error
	GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error)
}
