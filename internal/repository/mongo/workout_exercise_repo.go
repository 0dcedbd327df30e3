package mongo

import (
	"context"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutExerciseRepository creates a new WorkoutExercise repository backed by MongoDB.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
	}
}

// GetByWorkoutID retrieves a workout's exercise rows in sort order.
func (r *mongoWorkoutExerciseRepository) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	var rows []domain.WorkoutExercise
	filter := bson.M{"workoutId": workoutID}

	findOptions := options.Find().SetSort(bson.D{{Key: "sortIndex", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, cursor.Err()
}

// BulkUpsert writes a batch of rows in one BulkWrite. Rows carrying an id
// replace the existing document in place (preserving completion-log keys);
// rows without an id are inserted fresh.
func (r *mongoWorkoutExerciseRepository) BulkUpsert(ctx context.Context, rows []domain.WorkoutExercise) error {
	if len(rows) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(rows))
	for i := range rows {
		if rows[i].ID == primitive.NilObjectID {
			rows[i].ID = primitive.NewObjectID()
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rows[i].ID}).
			SetReplacement(rows[i]).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

// DeleteByIDs removes the given rows.
func (r *mongoWorkoutExerciseRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// DeleteByWorkoutID removes every row of a workout.
func (r *mongoWorkoutExerciseRepository) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsureWorkoutExerciseIndexes creates the indexes for the workout_exercises collection.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "sortIndex", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "exerciseId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
