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

const ownerCollectionName = "users"

// mongoOwnerRepository implements repository.OwnerRepository
type mongoOwnerRepository struct {
	collection *mongo.Collection
}

// NewMongoOwnerRepository creates a new Owner repository backed by MongoDB.
func NewMongoOwnerRepository(db *mongo.Database) repository.OwnerRepository {
	return &mongoOwnerRepository{
		collection: db.Collection(ownerCollectionName),
	}
}

// Create inserts a new owner account.
func (r *mongoOwnerRepository) Create(ctx context.Context, owner *domain.Owner) (primitive.ObjectID, error) {
	if owner.Email == "" || owner.Role == "" {
		return primitive.NilObjectID, errors.New("owner email and role are required")
	}

	owner.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	owner.CreatedAt = now
	owner.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, owner); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return owner.ID, nil
}

// GetByEmail retrieves an owner account by its unique email.
func (r *mongoOwnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// GetByID retrieves an owner account by id.
func (r *mongoOwnerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// EnsureOwnerIndexes creates the indexes for the users collection.
func EnsureOwnerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
