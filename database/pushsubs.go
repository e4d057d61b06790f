package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/naimatofficial/linkmood-app/models"
)

type PushSubStore struct {
	coll *mongo.Collection
}

func NewPushSubStore(db *DB) *PushSubStore {
	return &PushSubStore{coll: db.PushSubs}
}

// Upsert stores one subscription per (user, endpoint) pair; browsers
// re-subscribe with the same endpoint after a refresh.
func (s *PushSubStore) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	filter := bson.M{
		"userId":       sub.UserID,
		"sub.endpoint": sub.Sub.Endpoint,
	}
	update := bson.M{"$set": bson.M{"sub": sub.Sub}}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *PushSubStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PushSubscription, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.PushSubscription{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *PushSubStore) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"sub.endpoint": endpoint})
	return err
}
