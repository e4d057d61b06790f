package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	Caption   string             `bson:"caption" json:"caption"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	ImageID   string             `bson:"imageId" json:"imageId"`
	Location  string             `bson:"location,omitempty" json:"location"`
	Tags      []string           `bson:"tags" json:"tags"`
	Likes     []string           `bson:"likes" json:"likes"` // user ids, full array rewritten on every like toggle
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
	Creator   *User              `bson:"-" json:"creator,omitempty"` // populated in responses only
}
