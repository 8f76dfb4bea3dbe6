package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/vetdao/governance-locks/consumer"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/embedded"
	dbmodel "github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/queue"
)

// openStore connects the configured storage backend wrapped with latency metrics
func openStore(ctx context.Context, cfg *config.Config) (db.DbInterface, error) {
	var dbClient db.DbInterface

	switch cfg.Storage.Type {
	case config.StorageTypeBadger:
		store, err := embedded.Open(cfg.Storage.BadgerPath)
		if err != nil {
			return nil, err
		}
		dbClient = store
	default:
		if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
			return nil, fmt.Errorf("error while setting up db model: %w", err)
		}
		database, err := db.New(ctx, cfg.Db)
		if err != nil {
			return nil, fmt.Errorf("error while creating db client: %w", err)
		}
		dbClient = database
	}

	log.Ctx(ctx).Info().Str("storage", cfg.Storage.Type).Msg("Connected to storage")
	return db.NewDbWithMetrics(dbClient), nil
}

// newPublisher publishes to rabbitmq when a queue is configured and only logs
// events otherwise
func newPublisher(cfg *config.Config, logger *zap.Logger) (consumer.EventPublisher, error) {
	if cfg.Queue == nil {
		return queue.NewLogPublisher(logger), nil
	}

	qm, err := queue.NewQueueManager(cfg.Queue, logger)
	if err != nil {
		return nil, err
	}
	return qm, nil
}
