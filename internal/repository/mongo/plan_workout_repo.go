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

const planWorkoutCollectionName = "plan_workouts"

// mongoPlanWorkoutRepository implements repository.PlanWorkoutRepository
type mongoPlanWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanWorkoutRepository creates a new PlanWorkout repository backed by MongoDB.
func NewMongoPlanWorkoutRepository(db *mongo.Database) repository.PlanWorkoutRepository {
	return &mongoPlanWorkoutRepository{
		collection: db.Collection(planWorkoutCollectionName),
	}
}

// GetByPlanID retrieves a plan's workout rows in sort order.
func (r *mongoPlanWorkoutRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanWorkout, error) {
	var rows []domain.PlanWorkout
	filter := bson.M{"planId": planID}

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
// replace the existing document in place; rows without an id are inserted.
func (r *mongoPlanWorkoutRepository) BulkUpsert(ctx context.Context, rows []domain.PlanWorkout) error {
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
func (r *mongoPlanWorkoutRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// DeleteByPlanID removes every row of a plan.
func (r *mongoPlanWorkoutRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsurePlanWorkoutIndexes creates the indexes for the plan_workouts collection.
func EnsurePlanWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planId", Value: 1}, {Key: "sortIndex", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "workoutId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
