package repository

import (
	"context"

	"peakform/fitness-content/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner executes fn inside a single transaction. Every repository call
// made with the context fn receives is staged against that transaction;
// if fn returns an error the transaction rolls back and none of the staged
// writes become visible.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OwnerRepository manages owner accounts (admins and coaches).
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Owner, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Owner, error)
}

// VideoRepository manages video records.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Video, error)
	// FindCloneForOwner returns the clone of parentID owned by the given
	// owner namespace, or ErrNotFound. Soft-deleted clones are returned
	// too: a tombstoned clone still holds the unique index slot for its
	// (parentId, owner) pair, and the caller decides whether to revive it.
	FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error
	// Restore rewrites a soft-deleted row with fresh content and clears the
	// deletion mark. The row keeps its id and ownership.
	Restore(ctx context.Context, video *domain.Video) error
}

// ExerciseRepository manages exercise records.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Exercise, error)
	FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error
	Restore(ctx context.Context, exercise *domain.Exercise) error
}

// WorkoutRepository manages workout records.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Workout, error)
	FindCloneForOwner(ctx context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error
	Restore(ctx context.Context, workout *domain.Workout) error
}

// WorkoutExerciseRepository manages the ordered exercise rows of workouts.
type WorkoutExerciseRepository interface {
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	// BulkUpsert inserts rows without an id and replaces rows that carry
	// one, preserving junction row ids across plan updates.
	BulkUpsert(ctx context.Context, rows []domain.WorkoutExercise) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// PlanRepository manages plan records.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, owner domain.OwnerRef) error
}

// PlanWorkoutRepository manages the ordered workout rows of plans.
type PlanWorkoutRepository interface {
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanWorkout, error)
	BulkUpsert(ctx context.Context, rows []domain.PlanWorkout) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
}

// ExerciseVideoRepository manages the exercise/video link rows.
type ExerciseVideoRepository interface {
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseVideo, error)
	BulkInsert(ctx context.Context, rows []domain.ExerciseVideo) error
	DeleteByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) error
}

// CompletionLogRepository manages workout completion history. Logs
// reference plan_workouts rows by id, so deleting those rows cascades here.
type CompletionLogRepository interface {
	Create(ctx context.Context, log *domain.CompletionLog) (primitive.ObjectID, error)
	GetByPlanWorkoutIDs(ctx context.Context, planWorkoutIDs []primitive.ObjectID) ([]domain.CompletionLog, error)
	DeleteByPlanWorkoutIDs(ctx context.Context, planWorkoutIDs []primitive.ObjectID) error
}

// PlanAssignmentRepository manages plan-to-user bindings.
type PlanAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.PlanAssignment) (primitive.ObjectID, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanAssignment, error)
}
