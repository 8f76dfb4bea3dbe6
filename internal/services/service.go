package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vetdao/governance-locks/consumer"
	"github.com/vetdao/governance-locks/internal/clock"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/types"
)

const eventChannelSize = 5000

// Service owns the lock registry and keeps the store and the event stream in
// step with it. Every registry mutation is persisted by the commit hook
// before it becomes visible.
type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	registry  *lockengine.Registry
	clock     clock.Clock
	publisher consumer.EventPublisher
	events    chan *types.LockEvent
}

func NewService(
	cfg *config.Config,
	params *lockengine.Params,
	db db.DbInterface,
	publisher consumer.EventPublisher,
	clk clock.Clock,
) (*Service, error) {
	s := &Service{
		cfg:       cfg,
		db:        db,
		clock:     clk,
		publisher: publisher,
		events:    make(chan *types.LockEvent, eventChannelSize),
	}

	registry, err := lockengine.NewRegistry(params, lockengine.WithCommitHook(s.commitChange))
	if err != nil {
		return nil, fmt.Errorf("failed to create lock registry: %w", err)
	}
	s.registry = registry

	return s, nil
}

// Now is the service clock truncated to the second precision of the store
func (s *Service) Now() time.Time {
	return s.clock.Now().Truncate(time.Second)
}

func (s *Service) Params() *lockengine.Params {
	return s.registry.Params()
}

// StartBackgroundTasks starts the pollers and the event publisher. They stop
// when ctx is done.
func (s *Service) StartBackgroundTasks(ctx context.Context) {
	go s.StartEventPublisher(ctx)
	s.StartExitChecker(ctx)
	s.StartStatsPoller(ctx)
}

// Ping reports whether the backing store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
