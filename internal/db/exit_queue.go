package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vetdao/governance-locks/internal/db/model"
)

func (db *Database) SaveExitQueueEntry(ctx context.Context, doc *model.ExitQueueDocument) error {
	_, err := db.collection(model.ExitQueueCollection).InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     fmt.Sprint(doc.LockID),
						Message: "exit queue entry already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) DeleteExitQueueEntry(ctx context.Context, lockID uint64) error {
	result, err := db.collection(model.ExitQueueCollection).DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to delete exit queue entry of lock %d: %w", lockID, err)
	}

	if result.DeletedCount == 0 {
		return &NotFoundError{
			Key:     fmt.Sprint(lockID),
			Message: "exit queue entry not found",
		}
	}

	return nil
}

func (db *Database) FindAllExitQueueEntries(ctx context.Context) ([]model.ExitQueueDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_exit_at", Value: 1}, {Key: "_id", Value: 1}})
	return db.findExitQueueEntries(ctx, bson.M{}, opts)
}

func (db *Database) FindClaimableExits(ctx context.Context, now int64, limit uint64) ([]model.ExitQueueDocument, error) {
	filter := bson.M{
		"announced":         false,
		"scheduled_exit_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_exit_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	return db.findExitQueueEntries(ctx, filter, opts)
}

func (db *Database) MarkExitAnnounced(ctx context.Context, lockID uint64) error {
	update := bson.M{"$set": bson.M{"announced": true}}
	result, err := db.collection(model.ExitQueueCollection).UpdateOne(ctx, bson.M{"_id": lockID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     fmt.Sprint(lockID),
			Message: "exit queue entry not found",
		}
	}

	return nil
}

func (db *Database) findExitQueueEntries(
	ctx context.Context, filter bson.M, opts *options.FindOptions,
) ([]model.ExitQueueDocument, error) {
	cursor, err := db.collection(model.ExitQueueCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []model.ExitQueueDocument
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
