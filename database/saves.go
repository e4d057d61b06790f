package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/naimatofficial/linkmood-app/models"
	"github.com/naimatofficial/linkmood-app/social"
)

type SaveStore struct {
	coll *mongo.Collection
}

func NewSaveStore(db *DB) *SaveStore {
	return &SaveStore{coll: db.Saves}
}

// Create inserts the join record as-is. No uniqueness check: saving the
// same post twice produces two records.
func (s *SaveStore) Create(ctx context.Context, save *models.Save) error {
	_, err := s.coll.InsertOne(ctx, save)
	return err
}

func (s *SaveStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}

func (s *SaveStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Save, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	saves := []models.Save{}
	if err := cursor.All(ctx, &saves); err != nil {
		return nil, err
	}
	return saves, nil
}
