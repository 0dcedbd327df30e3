package mongo

import (
	"context"
	"errors"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const videoCollectionName = "videos"

// mongoVideoRepository implements repository.VideoRepository
type mongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new Video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) repository.VideoRepository {
	return &mongoVideoRepository{
		collection: db.Collection(videoCollectionName),
	}
}

// Create inserts a new video record.
func (r *mongoVideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if video.Title == "" || video.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("video title and owner are required")
	}

	video.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, video); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return video.ID, nil
}

// GetByID retrieves a video by its ID. Soft-deleted rows are invisible.
func (r *mongoVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var video domain.Video
	filter := bson.M{"_id": id, "deletedAt": nil}

	err := r.collection.FindOne(ctx, filter).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// GetByOwner retrieves all videos belonging to an owner namespace.
func (r *mongoVideoRepository) GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Video, error) {
	var videos []domain.Video
	filter := bson.M{"uploadedBy": owner.OwnerID, "uploaderRole": owner.Role, "deletedAt": nil}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, cursor.Err()
}

// FindCloneForOwner returns the clone of parentID owned by the given owner.
// Soft-deleted clones are returned too: the tombstone still occupies the
// unique (parentId, owner) index slot, so a fresh insert would collide with
// it and the resolver needs to see it to revive it instead.
func (r *mongoVideoRepository) FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Video, error) {
	var video domain.Video
	filter := bson.M{
		"parentId":     parentID,
		"uploadedBy":   owner.OwnerID,
		"uploaderRole": owner.Role,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Update modifies an existing video. Ownership fields are never touched.
func (r *mongoVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	if video.ID == primitive.NilObjectID {
		return errors.New("video ID is required for update")
	}

	filter := bson.M{"_id": video.ID, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"title":           video.Title,
			"source":          video.Source,
			"fileKey":         video.FileKey,
			"url":             video.URL,
			"durationSeconds": video.DurationSeconds,
			"thumbnailKey":    video.ThumbnailKey,
			"tags":            video.Tags,
			"visibilityType":  video.Visibility,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Restore rewrites a soft-deleted video with fresh content and clears the
// deletion mark. The row keeps its id, so the unique clone index slot it
// occupies is reused rather than collided with.
func (r *mongoVideoRepository) Restore(ctx context.Context, video *domain.Video) error {
	if video.ID == primitive.NilObjectID {
		return errors.New("video ID is required for restore")
	}

	filter := bson.M{"_id": video.ID}
	update := bson.M{
		"$set": bson.M{
			"title":           video.Title,
			"source":          video.Source,
			"fileKey":         video.FileKey,
			"url":             video.URL,
			"durationSeconds": video.DurationSeconds,
			"thumbnailKey":    video.ThumbnailKey,
			"tags":            video.Tags,
			"visibilityType":  video.Visibility,
			"updatedAt":       time.Now().UTC(),
		},
		"$unset": bson.M{"deletedAt": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SoftDelete marks a video deleted, ensuring it belongs to the owner.
func (r *mongoVideoRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
	filter := bson.M{
		"_id":          id,
		"uploadedBy":   owner.OwnerID,
		"uploaderRole": owner.Role,
		"deletedAt":    nil,
	}
	update := bson.M{"$set": bson.M{"deletedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureVideoIndexes creates the indexes for the videos collection. The
// partial unique index on (parentId, uploadedBy, uploaderRole) guarantees
// at most one clone per source per owner; concurrent cloners race into a
// duplicate-key error that the resolver treats as "already cloned".
func EnsureVideoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uploadedBy", Value: 1}, {Key: "uploaderRole", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "parentId", Value: 1},
				{Key: "uploadedBy", Value: 1},
				{Key: "uploaderRole", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"parentId": bson.M{"$exists": true}}),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
