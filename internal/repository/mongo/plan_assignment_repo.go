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

const planAssignmentCollectionName = "plan_assignments"

// mongoPlanAssignmentRepository implements repository.PlanAssignmentRepository
type mongoPlanAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanAssignmentRepository creates a new PlanAssignment repository backed by MongoDB.
func NewMongoPlanAssignmentRepository(db *mongo.Database) repository.PlanAssignmentRepository {
	return &mongoPlanAssignmentRepository{
		collection: db.Collection(planAssignmentCollectionName),
	}
}

// Create inserts a new plan assignment.
func (r *mongoPlanAssignmentRepository) Create(ctx context.Context, assignment *domain.PlanAssignment) (primitive.ObjectID, error) {
	if assignment.PlanID == primitive.NilObjectID || assignment.AssigneeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan ID and assignee ID are required")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, assignment); err != nil {
		return primitive.NilObjectID, err
	}
	return assignment.ID, nil
}

// GetByPlanID retrieves the assignments of a plan, newest first.
func (r *mongoPlanAssignmentRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanAssignment, error) {
	var assignments []domain.PlanAssignment
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, cursor.Err()
}

// EnsurePlanAssignmentIndexes creates the indexes for the plan_assignments collection.
func EnsurePlanAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assigneeId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
