package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/vetdao/governance-locks/consumer"
	"github.com/vetdao/governance-locks/internal/types"
)

// LogPublisher only logs events, it is used when no queue is configured
type LogPublisher struct {
	logger *zap.Logger
}

var _ consumer.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger.Named("log-publisher")}
}

func (p *LogPublisher) Start() error {
	return nil
}

func (p *LogPublisher) PushLockEvent(_ context.Context, ev *types.LockEvent) error {
	p.logger.Info("lock event",
		zap.String("event_type", ev.EventType.String()),
		zap.Uint64("lock_id", ev.LockID),
		zap.String("owner", ev.Owner),
	)
	return nil
}

func (p *LogPublisher) Stop() error {
	return nil
}
