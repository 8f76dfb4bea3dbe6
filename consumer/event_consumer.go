package consumer

import (
	"context"

	"github.com/vetdao/governance-locks/internal/types"
)

//go:generate mockery --name=EventPublisher --output=../tests/mocks --outpkg=mocks --filename=EventPublisher.go

// EventPublisher delivers lock events to downstream consumers
type EventPublisher interface {
	Start() error
	PushLockEvent(ctx context.Context, ev *types.LockEvent) error
	Stop() error
}
