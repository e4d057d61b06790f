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

type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(db *DB) *PostStore {
	return &PostStore{coll: db.Posts}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	_, err := s.coll.InsertOne(ctx, post)
	return err
}

func (s *PostStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mapErr(err)
	}
	return &post, nil
}

func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}

// UpdateLikes replaces the likes array wholesale. Last writer wins;
// there is no read-modify-write on the server side.
func (s *PostStore) UpdateLikes(ctx context.Context, id primitive.ObjectID, likes []string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"likes": likes}},
		opts,
	).Decode(&post)
	if err != nil {
		return nil, mapErr(err)
	}
	return &post, nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}

func (s *PostStore) Recent(ctx context.Context, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return s.find(ctx, bson.M{}, opts)
}

func (s *PostStore) Search(ctx context.Context, term string, limit int64) ([]models.Post, error) {
	filter := bson.M{"caption": primitive.Regex{Pattern: term, Options: "i"}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return s.find(ctx, filter, opts)
}

func (s *PostStore) ByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"creatorId": creatorID}, opts)
}

func (s *PostStore) LikedBy(ctx context.Context, userID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"likes": userID}, opts)
}

func (s *PostStore) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (s *PostStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
