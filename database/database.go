// Package database holds the process-wide MongoDB handle and the
// per-entity stores backing the social service's ports. The database is
// hosted (Atlas); this package owns no schema management beyond the
// indexes it ensures at startup.
package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	client *mongo.Client

	Accounts *mongo.Collection
	Sessions *mongo.Collection
	Users    *mongo.Collection
	Posts    *mongo.Collection
	Saves    *mongo.Collection
	PushSubs *mongo.Collection
}

// Connect dials MongoDB and pings it before returning the handle.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	d := &DB{
		client:   client,
		Accounts: db.Collection("accounts"),
		Sessions: db.Collection("sessions"),
		Users:    db.Collection("users"),
		Posts:    db.Collection("posts"),
		Saves:    db.Collection("saves"),
		PushSubs: db.Collection("push_subscriptions"),
	}

	if err := d.ensureIndexes(ctx); err != nil {
		log.Printf("database: ensuring indexes: %v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.Accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = d.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accountId", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = d.Posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}
	// Deliberately no unique index on (userId, postId): duplicate
	// saves are allowed at this layer.
	_, err = d.Saves.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}

func (d *DB) Disconnect() error {
	if d == nil || d.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	log.Println("Disconnected from MongoDB")
	return nil
}
