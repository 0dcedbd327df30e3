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
)

const completionLogCollectionName = "completion_logs"

// mongoCompletionLogRepository implements repository.CompletionLogRepository
type mongoCompletionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionLogRepository creates a new CompletionLog repository backed by MongoDB.
func NewMongoCompletionLogRepository(db *mongo.Database) repository.CompletionLogRepository {
	return &mongoCompletionLogRepository{
		collection: db.Collection(completionLogCollectionName),
	}
}

// Create inserts a new completion log row.
func (r *mongoCompletionLogRepository) Create(ctx context.Context, log *domain.CompletionLog) (primitive.ObjectID, error) {
	if log.PlanWorkoutID == primitive.NilObjectID || log.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan workout ID and user ID are required")
	}

	log.ID = primitive.NewObjectID()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return primitive.NilObjectID, err
	}
	return log.ID, nil
}

// GetByPlanWorkoutIDs retrieves the logs referencing any of the given rows.
func (r *mongoCompletionLogRepository) GetByPlanWorkoutIDs(ctx context.Context, planWorkoutIDs []primitive.ObjectID) ([]domain.CompletionLog, error) {
	if len(planWorkoutIDs) == 0 {
		return nil, nil
	}
	var logs []domain.CompletionLog
	cursor, err := r.collection.Find(ctx, bson.M{"planWorkoutId": bson.M{"$in": planWorkoutIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, cursor.Err()
}

// DeleteByPlanWorkoutIDs removes the logs referencing any of the given rows.
func (r *mongoCompletionLogRepository) DeleteByPlanWorkoutIDs(ctx context.Context, planWorkoutIDs []primitive.ObjectID) error {
	if len(planWorkoutIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"planWorkoutId": bson.M{"$in": planWorkoutIDs}})
	return err
}

// EnsureCompletionLogIndexes creates the indexes for the completion_logs collection.
func EnsureCompletionLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planWorkoutId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
