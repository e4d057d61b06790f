package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	Name      string             `bson:"name" json:"name"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	ImageID   string             `bson:"imageId,omitempty" json:"imageId"` // empty for the default initials avatar

	Bio       string             `bson:"bio" json:"bio"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
