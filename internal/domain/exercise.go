package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single exercise definition in the shared library,
// optionally backed by a demonstration Video.
type Exercise struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title      string              `bson:"title" json:"title"`
	Tags       []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Visibility Visibility          `bson:"visibilityType" json:"visibilityType"`
	VideoID    *primitive.ObjectID `bson:"videoId,omitempty" json:"videoId,omitempty"`
	Ownership  `bson:",inline"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"-"`
}

// ExerciseVideo is the persisted link between an Exercise and its Video.
// The exercise document carries the active videoId for single lookups; this
// row is what video-side traversal and cascade deletes go through.
type ExerciseVideo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	VideoID    primitive.ObjectID `bson:"videoId" json:"videoId"`
}
