package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoSource tells where the video content lives: an object in our S3
// bucket or an external URL.
type VideoSource string

const (
	VideoSourceFile VideoSource = "file"
	VideoSourceURL  VideoSource = "url"
)

// Video is a demonstration video backing an Exercise.
type Video struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Source          VideoSource        `bson:"source" json:"source"`
	FileKey         string             `bson:"fileKey,omitempty" json:"fileKey,omitempty"` // S3 object key when Source == file
	URL             string             `bson:"url,omitempty" json:"url,omitempty"`         // External link when Source == url
	DurationSeconds *int               `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	ThumbnailKey    string             `bson:"thumbnailKey,omitempty" json:"thumbnailKey,omitempty"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Visibility      Visibility         `bson:"visibilityType" json:"visibilityType"`
	Ownership       `bson:",inline"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt       *time.Time `bson:"deletedAt,omitempty" json:"-"`
}
