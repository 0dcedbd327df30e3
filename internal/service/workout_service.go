package service

import (
	"context"
	"errors"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutDetail is a workout together with its ordered exercise rows.
type WorkoutDetail struct {
	Workout   *domain.Workout
	Exercises []domain.WorkoutExercise
}

// WorkoutService manages standalone workouts and their exercise rows.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, owner domain.OwnerRef, draft *domain.WorkoutDraft) (*domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error)
	GetWorkoutsByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID, draft *domain.WorkoutDraft) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID) error
	// CloneWorkout gives the caller a private copy of a foreign workout.
	// Unlike plan-level cloning it refuses content the caller already owns.
	CloneWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID) (*domain.Workout, error)
}

type workoutService struct {
	tx               repository.TxRunner
	workouts         repository.WorkoutRepository
	workoutExercises repository.WorkoutExerciseRepository
	exerciseVideos   repository.ExerciseVideoRepository
	resolver         *ownershipResolver
	builder          *compositionBuilder
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	tx repository.TxRunner,
	workouts repository.WorkoutRepository,
	workoutExercises repository.WorkoutExerciseRepository,
	exerciseVideos repository.ExerciseVideoRepository,
	exercises repository.ExerciseRepository,
	videos repository.VideoRepository,
) WorkoutService {
	resolver := newOwnershipResolver(videos, exercises, workouts)
	return &workoutService{
		tx:               tx,
		workouts:         workouts,
		workoutExercises: workoutExercises,
		exerciseVideos:   exerciseVideos,
		resolver:         resolver,
		builder:          newCompositionBuilder(resolver, workouts, workoutExercises),
	}
}

// CreateWorkout creates a workout from validated segments. Foreign
// exercises referenced by the segments are cloned for the caller.
func (s *workoutService) CreateWorkout(ctx context.Context, owner domain.OwnerRef, draft *domain.WorkoutDraft) (*domain.Workout, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		Title:      draft.Title,
		Visibility: draft.Visibility,
		Ownership: domain.Ownership{
			OwnerID:   owner.OwnerID,
			OwnerRole: owner.Role,
		},
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.workouts.Create(ctx, workout); err != nil {
			return err
		}
		memo := newCloneMemo()
		rows, links, err := s.builder.composeSegments(ctx, memo, workout.ID, draft.Segments, owner)
		if err != nil {
			return err
		}
		if err := s.workoutExercises.BulkUpsert(ctx, rows); err != nil {
			return err
		}
		return s.exerciseVideos.BulkInsert(ctx, links)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return workout, nil
}

// GetWorkout retrieves a workout with its rows.
func (s *workoutService) GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.workoutExercises.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return &WorkoutDetail{Workout: workout, Exercises: rows}, nil
}

// GetWorkoutsByOwner retrieves all workouts of an owner namespace.
func (s *workoutService) GetWorkoutsByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Workout, error) {
	return s.workouts.GetByOwner(ctx, owner)
}

// UpdateWorkout applies a draft to an existing workout the caller owns.
// Deletion-listed rows go first, then rows upsert in place by id.
func (s *workoutService) UpdateWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID, draft *domain.WorkoutDraft) (*domain.Workout, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Workout
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		workout, err := s.workouts.GetByID(ctx, workoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !workout.OwnedBy(owner) {
			return ErrAccessDenied
		}

		workout.Title = draft.Title
		workout.Visibility = draft.Visibility
		if err := s.workouts.Update(ctx, workout); err != nil {
			return err
		}

		if err := s.workoutExercises.DeleteByIDs(ctx, draft.DeletedWorkoutExerciseIDs); err != nil {
			return err
		}

		memo := newCloneMemo()
		rows, links, err := s.builder.composeSegments(ctx, memo, workoutID, draft.Segments, owner)
		if err != nil {
			return err
		}
		if err := s.workoutExercises.BulkUpsert(ctx, rows); err != nil {
			return err
		}
		if err := s.exerciseVideos.BulkInsert(ctx, links); err != nil {
			return err
		}
		updated = workout
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return updated, nil
}

// DeleteWorkout soft-deletes a workout and removes its rows.
func (s *workoutService) DeleteWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.workouts.SoftDelete(ctx, workoutID, owner); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return s.workoutExercises.DeleteByWorkoutID(ctx, workoutID)
	})
	return wrapTxErr(err)
}

// CloneWorkout resolves a foreign workout into a private copy, rebuilding
// its exercise rows (and cloning their exercises and videos) on the way.
func (s *workoutService) CloneWorkout(ctx context.Context, owner domain.OwnerRef, workoutID primitive.ObjectID) (*domain.Workout, error) {
	source, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if source.OwnedBy(owner) {
		return nil, ErrAlreadyOwned
	}

	var cloneID primitive.ObjectID
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		memo := newCloneMemo()
		res, err := s.resolver.resolveWorkout(ctx, memo, workoutID, owner)
		if err != nil {
			return err
		}
		cloneID = res.ID
		if !res.Cloned {
			// A prior clone already exists, rows included.
			return nil
		}
		rows, links, err := s.builder.rebuildWorkoutRows(ctx, memo, workoutID, res.ID, owner)
		if err != nil {
			return err
		}
		if err := s.workoutExercises.BulkUpsert(ctx, rows); err != nil {
			return err
		}
		return s.exerciseVideos.BulkInsert(ctx, links)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return s.workouts.GetByID(ctx, cloneID)
}
