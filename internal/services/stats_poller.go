package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/types"
	"github.com/vetdao/governance-locks/internal/utils/poller"
)

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
	)
	go statsPoller.Start(ctx)
}

// calculateAndUpdateStats snapshots the registry into the stats document and gauges
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)
	now := s.Now()

	queueStats := s.registry.QueueStats(now)
	breakdown := s.registry.GlobalBreakdown(now)
	dueExits := s.registry.DueExits(now, 0)

	stats := &model.OverallStatsDocument{
		ID:               model.OverallStatsID,
		TotalLocked:      breakdown.TotalLocked.String(),
		TotalVotingPower: breakdown.TotalVotingPower.String(),
		WarmingUpLocks:   uint64(breakdown.WarmingUpCount),
		ActiveLocks:      uint64(breakdown.ActiveCount),
		QueuedLocks:      uint64(breakdown.QueuedCount),
		ExitedLocks:      uint64(breakdown.ExitedCount),
		QueueDepth:       uint64(queueStats.QueueDepth),
		NextExitDate:     queueStats.NextExitDate.Unix(),
		CurrentFeeBps:    queueStats.FeeBps,
		LastUpdated:      now.Unix(),
	}
	if err := s.db.UpsertOverallStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to upsert overall stats: %w", err)
	}

	log.Debug().
		Str("total_locked", stats.TotalLocked).
		Str("total_voting_power", stats.TotalVotingPower).
		Uint64("queue_depth", stats.QueueDepth).
		Int("due_exits", len(dueExits)).
		Msg("Updated overall stats")

	metrics.RecordTotalLocked(breakdown.TotalLocked)
	metrics.RecordTotalVotingPower(breakdown.TotalVotingPower)
	metrics.RecordExitQueueDepth(queueStats.QueueDepth)
	metrics.RecordDueExitsCount(len(dueExits))
	metrics.RecordLockCount(types.StatusWarmingUp.String(), breakdown.WarmingUpCount)
	metrics.RecordLockCount(types.StatusActive.String(), breakdown.ActiveCount)
	metrics.RecordLockCount(types.StatusQueued.String(), breakdown.QueuedCount)
	metrics.RecordLockCount(types.StatusExited.String(), breakdown.ExitedCount)

	return nil
}
