package service

import (
	"context"
	"errors"
	"fmt"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolvedRef is the outcome of resolving one source id for an owner.
// Cloned is true only on the resolution that actually created the clone;
// memo hits for the same source within one operation report false so the
// caller never duplicates dependent work (row rebuilds, link rows).
type resolvedRef struct {
	ID     primitive.ObjectID
	Cloned bool
}

// resolvedExercise additionally carries the video reference the resolved
// exercise ends up with, so the builder can emit the exercise_video link
// row for fresh clones.
type resolvedExercise struct {
	ID      primitive.ObjectID
	VideoID *primitive.ObjectID
	Cloned  bool
}

// cloneMemo caches resolutions for the lifetime of a single create, update
// or clone operation. It guarantees at most one clone per source entity per
// operation and one repository lookup per referenced id, and is discarded
// when the operation's transaction ends.
type cloneMemo struct {
	videos    map[primitive.ObjectID]resolvedRef
	exercises map[primitive.ObjectID]resolvedExercise
	workouts  map[primitive.ObjectID]resolvedRef
}

func newCloneMemo() *cloneMemo {
	return &cloneMemo{
		videos:    make(map[primitive.ObjectID]resolvedRef),
		exercises: make(map[primitive.ObjectID]resolvedExercise),
		workouts:  make(map[primitive.ObjectID]resolvedRef),
	}
}

// ownershipResolver decides, for each referenced entity, whether the acting
// owner can use it as-is, already holds a private clone of it, or needs a
// clone created now. Clone writes go through the repositories with the
// caller's context, so inside a transaction they are staged against it and
// vanish on rollback.
type ownershipResolver struct {
	videos    repository.VideoRepository
	exercises repository.ExerciseRepository
	workouts  repository.WorkoutRepository
}

func newOwnershipResolver(
	videos repository.VideoRepository,
	exercises repository.ExerciseRepository,
	workouts repository.WorkoutRepository,
) *ownershipResolver {
	return &ownershipResolver{videos: videos, exercises: exercises, workouts: workouts}
}

func newVideoClone(source *domain.Video, sourceID primitive.ObjectID, owner domain.OwnerRef) domain.Video {
	clone := *source
	clone.ID = primitive.NilObjectID
	clone.Visibility = domain.VisibilityPrivate
	clone.DeletedAt = nil
	clone.Ownership = domain.Ownership{
		OwnerID:   owner.OwnerID,
		OwnerRole: owner.Role,
		// Single hop: the parent is the source we copied, even if that
		// source is itself a clone of something older.
		ParentID: &sourceID,
	}
	return clone
}

func newExerciseClone(source *domain.Exercise, sourceID primitive.ObjectID, owner domain.OwnerRef) domain.Exercise {
	clone := *source
	clone.ID = primitive.NilObjectID
	clone.Visibility = domain.VisibilityPrivate
	clone.DeletedAt = nil
	clone.Ownership = domain.Ownership{
		OwnerID:   owner.OwnerID,
		OwnerRole: owner.Role,
		ParentID:  &sourceID,
	}
	return clone
}

func newWorkoutClone(source *domain.Workout, sourceID primitive.ObjectID, owner domain.OwnerRef) domain.Workout {
	clone := *source
	clone.ID = primitive.NilObjectID
	clone.Visibility = domain.VisibilityPrivate
	clone.DeletedAt = nil
	clone.Ownership = domain.Ownership{
		OwnerID:   owner.OwnerID,
		OwnerRole: owner.Role,
		ParentID:  &sourceID,
	}
	return clone
}

// resolveVideo resolves a video reference for the acting owner.
func (r *ownershipResolver) resolveVideo(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, owner domain.OwnerRef) (resolvedRef, error) {
	if res, ok := memo.videos[sourceID]; ok {
		res.Cloned = false
		return res, nil
	}

	video, err := r.videos.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return resolvedRef{}, fmt.Errorf("video %s: %w", sourceID.Hex(), ErrNotFound)
		}
		return resolvedRef{}, err
	}

	// Own content is used as-is.
	if video.OwnedBy(owner) {
		res := resolvedRef{ID: sourceID}
		memo.videos[sourceID] = res
		return res, nil
	}

	// A live clone made by this owner in an earlier operation is reused.
	// A clone the owner since deleted still holds the one-clone-per-source
	// index slot; it is revived with the source's current content rather
	// than colliding with a fresh insert.
	prior, err := r.videos.FindCloneForOwner(ctx, sourceID, owner)
	if err == nil {
		return r.reuseOrReviveVideo(ctx, memo, sourceID, video, prior, owner)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return resolvedRef{}, err
	}

	clone := newVideoClone(video, sourceID, owner)
	id, err := r.videos.Create(ctx, &clone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return r.adoptVideoClone(ctx, memo, sourceID, video, owner)
		}
		return resolvedRef{}, err
	}

	res := resolvedRef{ID: id, Cloned: true}
	memo.videos[sourceID] = res
	return res, nil
}

// adoptVideoClone picks up the clone a concurrent operation won the race
// to create. The unique index on (parentId, owner) turns that race into a
// duplicate-key error instead of a second clone.
func (r *ownershipResolver) adoptVideoClone(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source *domain.Video, owner domain.OwnerRef) (resolvedRef, error) {
	prior, err := r.videos.FindCloneForOwner(ctx, sourceID, owner)
	if err != nil {
		return resolvedRef{}, err
	}
	return r.reuseOrReviveVideo(ctx, memo, sourceID, source, prior, owner)
}

func (r *ownershipResolver) reuseOrReviveVideo(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source, prior *domain.Video, owner domain.OwnerRef) (resolvedRef, error) {
	if prior.DeletedAt == nil {
		res := resolvedRef{ID: prior.ID}
		memo.videos[sourceID] = res
		return res, nil
	}

	revived := newVideoClone(source, sourceID, owner)
	revived.ID = prior.ID
	if err := r.videos.Restore(ctx, &revived); err != nil {
		return resolvedRef{}, err
	}
	res := resolvedRef{ID: prior.ID, Cloned: true}
	memo.videos[sourceID] = res
	return res, nil
}

// resolveExercise resolves an exercise reference for the acting owner.
// Cloning an exercise also resolves its attached video, so a foreign
// exercise backed by a foreign video yields clones of both, wired together.
func (r *ownershipResolver) resolveExercise(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, owner domain.OwnerRef) (resolvedExercise, error) {
	if res, ok := memo.exercises[sourceID]; ok {
		res.Cloned = false
		return res, nil
	}

	exercise, err := r.exercises.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return resolvedExercise{}, fmt.Errorf("exercise %s: %w", sourceID.Hex(), ErrNotFound)
		}
		return resolvedExercise{}, err
	}

	if exercise.OwnedBy(owner) {
		res := resolvedExercise{ID: sourceID, VideoID: exercise.VideoID}
		memo.exercises[sourceID] = res
		return res, nil
	}

	prior, err := r.exercises.FindCloneForOwner(ctx, sourceID, owner)
	if err == nil {
		return r.reuseOrReviveExercise(ctx, memo, sourceID, exercise, prior, owner)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return resolvedExercise{}, err
	}

	clone := newExerciseClone(exercise, sourceID, owner)
	if exercise.VideoID != nil {
		vres, err := r.resolveVideo(ctx, memo, *exercise.VideoID, owner)
		if err != nil {
			return resolvedExercise{}, err
		}
		videoID := vres.ID
		clone.VideoID = &videoID
	}

	id, err := r.exercises.Create(ctx, &clone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return r.adoptExerciseClone(ctx, memo, sourceID, exercise, owner)
		}
		return resolvedExercise{}, err
	}

	res := resolvedExercise{ID: id, VideoID: clone.VideoID, Cloned: true}
	memo.exercises[sourceID] = res
	return res, nil
}

func (r *ownershipResolver) adoptExerciseClone(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source *domain.Exercise, owner domain.OwnerRef) (resolvedExercise, error) {
	prior, err := r.exercises.FindCloneForOwner(ctx, sourceID, owner)
	if err != nil {
		return resolvedExercise{}, err
	}
	return r.reuseOrReviveExercise(ctx, memo, sourceID, source, prior, owner)
}

func (r *ownershipResolver) reuseOrReviveExercise(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source, prior *domain.Exercise, owner domain.OwnerRef) (resolvedExercise, error) {
	if prior.DeletedAt == nil {
		res := resolvedExercise{ID: prior.ID, VideoID: prior.VideoID}
		memo.exercises[sourceID] = res
		return res, nil
	}

	revived := newExerciseClone(source, sourceID, owner)
	if source.VideoID != nil {
		vres, err := r.resolveVideo(ctx, memo, *source.VideoID, owner)
		if err != nil {
			return resolvedExercise{}, err
		}
		videoID := vres.ID
		revived.VideoID = &videoID
	}
	revived.ID = prior.ID
	if err := r.exercises.Restore(ctx, &revived); err != nil {
		return resolvedExercise{}, err
	}
	res := resolvedExercise{ID: prior.ID, VideoID: revived.VideoID, Cloned: true}
	memo.exercises[sourceID] = res
	return res, nil
}

// resolveWorkout resolves a workout reference for the acting owner. Only
// the workout document is cloned here; the composition builder rebuilds the
// exercise rows when Cloned is reported, resolving each row's exercise
// through this resolver so the memo still sees every reference.
func (r *ownershipResolver) resolveWorkout(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, owner domain.OwnerRef) (resolvedRef, error) {
	if res, ok := memo.workouts[sourceID]; ok {
		res.Cloned = false
		return res, nil
	}

	workout, err := r.workouts.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return resolvedRef{}, fmt.Errorf("workout %s: %w", sourceID.Hex(), ErrNotFound)
		}
		return resolvedRef{}, err
	}

	if workout.OwnedBy(owner) {
		res := resolvedRef{ID: sourceID}
		memo.workouts[sourceID] = res
		return res, nil
	}

	prior, err := r.workouts.FindCloneForOwner(ctx, sourceID, owner)
	if err == nil {
		return r.reuseOrReviveWorkout(ctx, memo, sourceID, workout, prior, owner)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return resolvedRef{}, err
	}

	clone := newWorkoutClone(workout, sourceID, owner)
	id, err := r.workouts.Create(ctx, &clone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return r.adoptWorkoutClone(ctx, memo, sourceID, workout, owner)
		}
		return resolvedRef{}, err
	}

	res := resolvedRef{ID: id, Cloned: true}
	memo.workouts[sourceID] = res
	return res, nil
}

func (r *ownershipResolver) adoptWorkoutClone(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source *domain.Workout, owner domain.OwnerRef) (resolvedRef, error) {
	prior, err := r.workouts.FindCloneForOwner(ctx, sourceID, owner)
	if err != nil {
		return resolvedRef{}, err
	}
	return r.reuseOrReviveWorkout(ctx, memo, sourceID, source, prior, owner)
}

func (r *ownershipResolver) reuseOrReviveWorkout(ctx context.Context, memo *cloneMemo, sourceID primitive.ObjectID, source, prior *domain.Workout, owner domain.OwnerRef) (resolvedRef, error) {
	if prior.DeletedAt == nil {
		res := resolvedRef{ID: prior.ID}
		memo.workouts[sourceID] = res
		return res, nil
	}

	revived := newWorkoutClone(source, sourceID, owner)
	revived.ID = prior.ID
	if err := r.workouts.Restore(ctx, &revived); err != nil {
		return resolvedRef{}, err
	}
	// Cloned is reported so callers rebuild the rows the delete cascaded
	// away.
	res := resolvedRef{ID: prior.ID, Cloned: true}
	memo.workouts[sourceID] = res
	return res, nil
}
