package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Save is the join record marking a user's bookmark of a post.
// Existence of the record is the "is saved" predicate.
type Save struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
