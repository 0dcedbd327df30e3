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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan record.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.Title == "" || plan.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan title and owner are required")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

// GetByID retrieves a plan by its ID. Soft-deleted rows are invisible.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	filter := bson.M{"_id": id, "deletedAt": nil}

	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByOwner retrieves all plans belonging to an owner namespace.
func (r *mongoPlanRepository) GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Plan, error) {
	var plans []domain.Plan
	filter := bson.M{"uploadedBy": owner.OwnerID, "uploaderRole": owner.Role, "deletedAt": nil}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, cursor.Err()
}

// Update modifies an existing plan. Ownership fields are never touched.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}
	if plan.Title == "" {
		return errors.New("plan title cannot be empty")
	}

	filter := bson.M{"_id": plan.ID, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"title":          plan.Title,
			"kind":           plan.Kind,
			"phaseCount":     plan.PhaseCount,
			"weekCount":      plan.WeekCount,
			"visibilityType": plan.Visibility,
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

// SoftDelete marks a plan deleted, ensuring it belongs to the owner.
func (r *mongoPlanRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
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

// EnsurePlanIndexes creates the indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uploadedBy", Value: 1}, {Key: "uploaderRole", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
