package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vetdao/governance-locks/internal/config"
)

const (
	StatsCollection = "stats"
	setupTimeout    = 30 * time.Second
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	LockCollection: {
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "_id", Value: 1}}},
	},
	ExitQueueCollection: {
		{Keys: bson.D{{Key: "announced", Value: 1}, {Key: "scheduled_exit_at", Value: 1}, {Key: "_id", Value: 1}}},
	},
	StatsCollection: nil,
}

// Setup creates the collections and indexes the service relies on. It is
// safe to call on an already initialized database.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)
	existing, err := database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}

	for name, indexes := range collections {
		if !known[name] {
			if err := database.CreateCollection(ctx, name); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
		}

		for _, idx := range indexes {
			model := mongo.IndexModel{
				Keys:    idx.Keys,
				Options: options.Index().SetUnique(idx.Unique),
			}
			if _, err := database.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("failed to create index on %s: %w", name, err)
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and indexes created successfully")
	return nil
}
