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

func (db *Database) SaveLock(ctx context.Context, doc *model.LockDocument) error {
	filter := bson.M{"_id": doc.ID}
	opts := options.Replace().SetUpsert(true)

	_, err := db.collection(model.LockCollection).ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save lock %d: %w", doc.ID, err)
	}
	return nil
}

func (db *Database) GetLock(ctx context.Context, id uint64) (*model.LockDocument, error) {
	var doc model.LockDocument
	err := db.collection(model.LockCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     fmt.Sprint(id),
				Message: "lock not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) FindAllLocks(ctx context.Context) ([]model.LockDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.LockCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locks []model.LockDocument
	if err := cursor.All(ctx, &locks); err != nil {
		return nil, err
	}

	return locks, nil
}
