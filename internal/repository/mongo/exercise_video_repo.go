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

const exerciseVideoCollectionName = "exercise_video"

// mongoExerciseVideoRepository implements repository.ExerciseVideoRepository
type mongoExerciseVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseVideoRepository creates a new ExerciseVideo repository backed by MongoDB.
func NewMongoExerciseVideoRepository(db *mongo.Database) repository.ExerciseVideoRepository {
	return &mongoExerciseVideoRepository{
		collection: db.Collection(exerciseVideoCollectionName),
	}
}

// GetByExerciseID retrieves the video links of an exercise.
func (r *mongoExerciseVideoRepository) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseVideo, error) {
	var rows []domain.ExerciseVideo
	cursor, err := r.collection.Find(ctx, bson.M{"exerciseId": exerciseID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, cursor.Err()
}

// BulkInsert writes a batch of link rows.
func (r *mongoExerciseVideoRepository) BulkInsert(ctx context.Context, rows []domain.ExerciseVideo) error {
	if len(rows) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(rows))
	for i := range rows {
		if rows[i].ID == primitive.NilObjectID {
			rows[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, rows[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateKey
	}
	return err
}

// DeleteByExerciseID removes every link row of an exercise.
func (r *mongoExerciseVideoRepository) DeleteByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"exerciseId": exerciseID})
	return err
}

// EnsureExerciseVideoIndexes creates the indexes for the exercise_video collection.
func EnsureExerciseVideoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}, {Key: "videoId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
