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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout record.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Title == "" || workout.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout title and owner are required")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// GetByID retrieves a workout by its ID. Soft-deleted rows are invisible.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "deletedAt": nil}

	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByOwner retrieves all workouts belonging to an owner namespace.
func (r *mongoWorkoutRepository) GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"uploadedBy": owner.OwnerID, "uploaderRole": owner.Role, "deletedAt": nil}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, cursor.Err()
}

// FindCloneForOwner returns the clone of parentID owned by the given owner.
// Soft-deleted clones are returned too; their tombstones still occupy the
// unique (parentId, owner) index slot.
func (r *mongoWorkoutRepository) FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{
		"parentId":     parentID,
		"uploadedBy":   owner.OwnerID,
		"uploaderRole": owner.Role,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Update modifies an existing workout. Ownership fields are never touched.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	if workout.Title == "" {
		return errors.New("workout title cannot be empty")
	}

	filter := bson.M{"_id": workout.ID, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"title":          workout.Title,
			"visibilityType": workout.Visibility,
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

// Restore rewrites a soft-deleted workout with fresh content and clears
// the deletion mark, keeping the row's id and its clone index slot.
func (r *mongoWorkoutRepository) Restore(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for restore")
	}

	filter := bson.M{"_id": workout.ID}
	update := bson.M{
		"$set": bson.M{
			"title":          workout.Title,
			"visibilityType": workout.Visibility,
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

// SoftDelete marks a workout deleted, ensuring it belongs to the owner.
func (r *mongoWorkoutRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
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

// EnsureWorkoutIndexes creates the indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
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
