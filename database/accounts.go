package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/naimatofficial/linkmood-app/models"
	"github.com/naimatofficial/linkmood-app/social"
)

// mapErr translates driver sentinels into the store-level ones the
// service branches on.
func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return social.ErrNotFound
	}
	return err
}

type AccountStore struct {
	coll *mongo.Collection
}

func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{coll: db.Accounts}
}

func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	_, err := s.coll.InsertOne(ctx, account)
	return err
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		return nil, mapErr(err)
	}
	return &account, nil
}

type SessionStore struct {
	coll *mongo.Collection
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{coll: db.Sessions}
}

func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	_, err := s.coll.InsertOne(ctx, session)
	return err
}

func (s *SessionStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var session models.Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, mapErr(err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}
