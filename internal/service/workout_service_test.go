package service

import (
	"context"
	"errors"
	"testing"

	"peakform/fitness-content/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateWorkoutComposesRows(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	exercise := f.addExercise(owner, "press", nil)

	draft := &domain.WorkoutDraft{
		Title:      "upper body",
		Visibility: domain.VisibilityPrivate,
		Segments: []domain.Segment{
			plainSegment(exercise),
			{Kind: domain.SegmentRest, RestMinutes: intPtr(3)},
		},
	}

	workout, err := f.workoutService().CreateWorkout(context.Background(), owner, draft)
	require.NoError(t, err)
	require.NotEqual(t, primitive.NilObjectID, workout.ID)

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exercise.ID, *rows[0].ExerciseID)
	assert.True(t, rows[1].IsRest)
}

func TestCreateWorkoutClonesForeignExercise(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	foreign := f.addExercise(author, "theirs", nil)

	draft := &domain.WorkoutDraft{
		Title:      "borrowed",
		Visibility: domain.VisibilityPrivate,
		Segments:   []domain.Segment{plainSegment(foreign)},
	}

	workout, err := f.workoutService().CreateWorkout(context.Background(), owner, draft)
	require.NoError(t, err)

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, foreign.ID, *rows[0].ExerciseID, "row references the caller's clone")
	assert.Equal(t, 1, f.clonesOf(foreign.ID))
}

func TestCreateWorkoutRollsBackOnFailure(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	exercise := f.addExercise(owner, "press", nil)
	f.store.failWorkoutExerciseUpsert = errors.New("socket closed")

	draft := &domain.WorkoutDraft{
		Title:      "doomed",
		Visibility: domain.VisibilityPrivate,
		Segments:   []domain.Segment{plainSegment(exercise)},
	}

	_, err := f.workoutService().CreateWorkout(context.Background(), owner, draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Empty(t, f.store.workouts, "workout document rolled back")
	assert.Empty(t, f.store.workoutExercises)
}

func TestUpdateWorkoutAppliesDeletionList(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	svc := f.workoutService()
	e1 := f.addExercise(owner, "one", nil)
	e2 := f.addExercise(owner, "two", nil)

	workout, err := svc.CreateWorkout(context.Background(), owner, &domain.WorkoutDraft{
		Title:      "pair",
		Visibility: domain.VisibilityPrivate,
		Segments:   []domain.Segment{plainSegment(e1), plainSegment(e2)},
	})
	require.NoError(t, err)

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	doomed, kept := rows[0], rows[1]

	keptSeg := plainSegment(e2)
	keptSeg.RowID = oidPtr(kept.ID)
	updated, err := svc.UpdateWorkout(context.Background(), owner, workout.ID, &domain.WorkoutDraft{
		Title:                     "single",
		Visibility:                domain.VisibilityPrivate,
		Segments:                  []domain.Segment{keptSeg},
		DeletedWorkoutExerciseIDs: []primitive.ObjectID{doomed.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "single", updated.Title)

	after, err := f.workoutExercises.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, kept.ID, after[0].ID, "named row overwrites in place")
}

func TestUpdateWorkoutForeignDenied(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	foreign := f.addWorkout(author, "theirs")
	exercise := f.addExercise(owner, "mine", nil)

	_, err := f.workoutService().UpdateWorkout(context.Background(), owner, foreign.ID, &domain.WorkoutDraft{
		Title:      "takeover",
		Visibility: domain.VisibilityPrivate,
		Segments:   []domain.Segment{plainSegment(exercise)},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCloneWorkoutOwnContentRejected(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	workout := f.addWorkout(owner, "mine")

	_, err := f.workoutService().CloneWorkout(context.Background(), owner, workout.ID)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
}

func TestCloneWorkoutRebuildsRows(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	video := f.addVideo(author, "demo")
	exercise := f.addExercise(author, "theirs", oidPtr(video.ID))
	source := f.addWorkout(author, "their day")
	f.addWorkoutExercise(source.ID, oidPtr(exercise.ID), 1)
	f.addWorkoutExercise(source.ID, nil, 2)

	clone, err := f.workoutService().CloneWorkout(context.Background(), owner, source.ID)
	require.NoError(t, err)

	assert.True(t, clone.OwnedBy(owner))
	require.NotNil(t, clone.ParentID)
	assert.Equal(t, source.ID, *clone.ParentID)

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), clone.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotEqual(t, exercise.ID, *rows[0].ExerciseID)
	assert.True(t, rows[1].IsRest)

	assert.Equal(t, 1, f.clonesOf(exercise.ID))
	assert.Equal(t, 1, f.clonesOf(video.ID))
	assert.Len(t, f.store.exerciseVideos, 1)
}

func TestCloneWorkoutTwiceReturnsSameClone(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	exercise := f.addExercise(author, "theirs", nil)
	source := f.addWorkout(author, "their day")
	f.addWorkoutExercise(source.ID, oidPtr(exercise.ID), 1)
	svc := f.workoutService()

	first, err := svc.CloneWorkout(context.Background(), owner, source.ID)
	require.NoError(t, err)
	second, err := svc.CloneWorkout(context.Background(), owner, source.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.clonesOf(source.ID))

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "rows are not rebuilt a second time")
}

func TestCloneWorkoutAgainAfterDeleteRevivesClone(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	exercise := f.addExercise(author, "theirs", nil)
	source := f.addWorkout(author, "their day")
	f.addWorkoutExercise(source.ID, oidPtr(exercise.ID), 1)
	svc := f.workoutService()

	first, err := svc.CloneWorkout(context.Background(), owner, source.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteWorkout(context.Background(), owner, first.ID))

	second, err := svc.CloneWorkout(context.Background(), owner, source.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "the deleted clone is revived, not duplicated")
	assert.Equal(t, 1, f.clonesOf(source.ID))

	rows, err := f.workoutExercises.GetByWorkoutID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "the cascaded rows are rebuilt")
}

func TestDeleteWorkoutRemovesRows(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	exercise := f.addExercise(owner, "press", nil)
	svc := f.workoutService()

	workout, err := svc.CreateWorkout(context.Background(), owner, &domain.WorkoutDraft{
		Title:      "short lived",
		Visibility: domain.VisibilityPrivate,
		Segments:   []domain.Segment{plainSegment(exercise)},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorkout(context.Background(), owner, workout.ID))

	_, err = svc.GetWorkout(context.Background(), workout.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.workoutExercises)
}
