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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise record.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Title == "" || exercise.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise title and owner are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return exercise.ID, nil
}

// GetByID retrieves an exercise by its ID. Soft-deleted rows are invisible.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"_id": id, "deletedAt": nil}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByOwner retrieves all exercises belonging to an owner namespace.
func (r *mongoExerciseRepository) GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	filter := bson.M{"uploadedBy": owner.OwnerID, "uploaderRole": owner.Role, "deletedAt": nil}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, cursor.Err()
}

// FindCloneForOwner returns the clone of parentID owned by the given owner.
// Soft-deleted clones are returned too; their tombstones still occupy the
// unique (parentId, owner) index slot.
func (r *mongoExerciseRepository) FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{
		"parentId":     parentID,
		"uploadedBy":   owner.OwnerID,
		"uploaderRole": owner.Role,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Update modifies an existing exercise. Ownership fields are never touched.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Title == "" {
		return errors.New("exercise title cannot be empty")
	}

	filter := bson.M{"_id": exercise.ID, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"title":          exercise.Title,
			"tags":           exercise.Tags,
			"visibilityType": exercise.Visibility,
			"videoId":        exercise.VideoID,
			"updatedAt":      time.Now().UTC(),
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

// Restore rewrites a soft-deleted exercise with fresh content and clears
// the deletion mark, keeping the row's id and its clone index slot.
func (r *mongoExerciseRepository) Restore(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for restore")
	}

	filter := bson.M{"_id": exercise.ID}
	update := bson.M{
		"$set": bson.M{
			"title":          exercise.Title,
			"tags":           exercise.Tags,
			"visibilityType": exercise.Visibility,
			"videoId":        exercise.VideoID,
			"updatedAt":      time.Now().UTC(),
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

// SoftDelete marks an exercise deleted, ensuring it belongs to the owner.
func (r *mongoExerciseRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
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

// EnsureExerciseIndexes creates the indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
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
		{
			Keys:    bson.D{{Key: "title", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
