package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Account is the auth identity. Profile data lives in User, linked by
// AccountID; the two are created in sequence on sign-up.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}

// Session is a server-side record of a signed-in client. Sign-out
// deletes it; the JWT carries its id so revocation is possible.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
	ExpiresAt int64              `bson:"expiresAt" json:"expiresAt"`
}
