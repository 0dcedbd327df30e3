package service

import (
	"context"
	"errors"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseInput carries the caller-editable fields of an exercise.
type ExerciseInput struct {
	Title      string
	Tags       []string
	Visibility domain.Visibility
	VideoID    *primitive.ObjectID
}

// ExerciseService manages the exercise library of an owner namespace.
type ExerciseService interface {
	CreateExercise(ctx context.Context, owner domain.OwnerRef, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID) error
	// CloneExercise gives the caller a private copy of a foreign exercise,
	// including its video. Refuses content the caller already owns.
	CloneExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID) (*domain.Exercise, error)
}

type exerciseService struct {
	tx             repository.TxRunner
	exercises      repository.ExerciseRepository
	videos         repository.VideoRepository
	exerciseVideos repository.ExerciseVideoRepository
	resolver       *ownershipResolver
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	tx repository.TxRunner,
	exercises repository.ExerciseRepository,
	videos repository.VideoRepository,
	workouts repository.WorkoutRepository,
	exerciseVideos repository.ExerciseVideoRepository,
) ExerciseService {
	return &exerciseService{
		tx:             tx,
		exercises:      exercises,
		videos:         videos,
		exerciseVideos: exerciseVideos,
		resolver:       newOwnershipResolver(videos, exercises, workouts),
	}
}

// CreateExercise creates an exercise, linking it to an existing video when
// one is referenced.
func (s *exerciseService) CreateExercise(ctx context.Context, owner domain.OwnerRef, input ExerciseInput) (*domain.Exercise, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Title:      input.Title,
		Tags:       input.Tags,
		Visibility: input.Visibility,
		VideoID:    input.VideoID,
		Ownership: domain.Ownership{
			OwnerID:   owner.OwnerID,
			OwnerRole: owner.Role,
		},
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if input.VideoID != nil {
			if _, err := s.videos.GetByID(ctx, *input.VideoID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrNotFound
				}
				return err
			}
		}
		if _, err := s.exercises.Create(ctx, exercise); err != nil {
			return err
		}
		if input.VideoID == nil {
			return nil
		}
		return s.exerciseVideos.BulkInsert(ctx, []domain.ExerciseVideo{
			{ExerciseID: exercise.ID, VideoID: *input.VideoID},
		})
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return exercise, nil
}

// GetExercise retrieves a single exercise.
func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByOwner retrieves all exercises of an owner namespace.
func (s *exerciseService) GetExercisesByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Exercise, error) {
	return s.exercises.GetByOwner(ctx, owner)
}

// UpdateExercise modifies an exercise the caller owns.
func (s *exerciseService) UpdateExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}

	var updated *domain.Exercise
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exercise, err := s.exercises.GetByID(ctx, exerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !exercise.OwnedBy(owner) {
			return ErrAccessDenied
		}

		previousVideo := exercise.VideoID
		exercise.Title = input.Title
		exercise.Tags = input.Tags
		exercise.Visibility = input.Visibility
		exercise.VideoID = input.VideoID
		if err := s.exercises.Update(ctx, exercise); err != nil {
			return err
		}

		// Rewrite the link row only when the video reference changed.
		if !videoRefEqual(previousVideo, input.VideoID) {
			if err := s.exerciseVideos.DeleteByExerciseID(ctx, exerciseID); err != nil {
				return err
			}
			if input.VideoID != nil {
				if err := s.exerciseVideos.BulkInsert(ctx, []domain.ExerciseVideo{
					{ExerciseID: exerciseID, VideoID: *input.VideoID},
				}); err != nil {
					return err
				}
			}
		}
		updated = exercise
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return updated, nil
}

// DeleteExercise soft-deletes an exercise and its video links.
func (s *exerciseService) DeleteExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.exercises.SoftDelete(ctx, exerciseID, owner); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return s.exerciseVideos.DeleteByExerciseID(ctx, exerciseID)
	})
	return wrapTxErr(err)
}

// CloneExercise resolves a foreign exercise into a private copy.
func (s *exerciseService) CloneExercise(ctx context.Context, owner domain.OwnerRef, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	source, err := s.exercises.GetByID(ctx, exerciseID)
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
		res, err := s.resolver.resolveExercise(ctx, memo, exerciseID, owner)
		if err != nil {
			return err
		}
		cloneID = res.ID
		if res.Cloned && res.VideoID != nil {
			return s.exerciseVideos.BulkInsert(ctx, []domain.ExerciseVideo{
				{ExerciseID: res.ID, VideoID: *res.VideoID},
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return s.exercises.GetByID(ctx, cloneID)
}

func videoRefEqual(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
