package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"peakform/fitness-content/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Referencing a foreign workout whose rows use two foreign exercises, one
// of them backed by a foreign video, clones the workout, both exercises and
// the video, and writes one plan row, two rebuilt exercise rows and one
// exercise/video link.
func TestCreatePlanClonesForeignWorkoutGraph(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()

	video := f.addVideo(author, "demo")
	e1 := f.addExercise(author, "squat", oidPtr(video.ID))
	e2 := f.addExercise(author, "lunge", nil)
	workout := f.addWorkout(author, "leg day")
	f.addWorkoutExercise(workout.ID, oidPtr(e1.ID), 1)
	f.addWorkoutExercise(workout.ID, oidPtr(e2.ID), 2)

	draft := &domain.PlanDraft{
		Title:      "my block",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots: []domain.WorkoutSlot{
			{Kind: domain.SlotWorkoutRef, WorkoutID: oidPtr(workout.ID)},
		},
	}

	plan, err := f.planService().CreatePlan(context.Background(), owner, draft)
	require.NoError(t, err)
	require.NotEqual(t, primitive.NilObjectID, plan.ID)

	assert.Equal(t, 1, f.clonesOf(workout.ID))
	assert.Equal(t, 1, f.clonesOf(e1.ID))
	assert.Equal(t, 1, f.clonesOf(e2.ID))
	assert.Equal(t, 1, f.clonesOf(video.ID))

	rows, err := f.planWorkouts.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	cloneWorkoutID := *rows[0].WorkoutID
	assert.NotEqual(t, workout.ID, cloneWorkoutID, "plan row references the clone")

	cloneRows, err := f.workoutExercises.GetByWorkoutID(context.Background(), cloneWorkoutID)
	require.NoError(t, err)
	require.Len(t, cloneRows, 2, "rows rebuilt onto the clone")
	for _, row := range cloneRows {
		cloned := f.store.exercises[*row.ExerciseID]
		assert.True(t, cloned.OwnedBy(owner))
	}

	assert.Len(t, f.store.exerciseVideos, 1, "one link row for the cloned exercise's video")

	// Source rows are untouched.
	sourceRows, err := f.workoutExercises.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	assert.Len(t, sourceRows, 2)
}

// The same foreign exercise referenced from two inline workouts in one
// request is cloned exactly once and both rows point at that clone.
func TestCreatePlanReusesCloneWithinOneOperation(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	shared := f.addExercise(author, "burpee", nil)

	seg := domain.Segment{
		Kind: domain.SegmentPlain,
		Members: []domain.Prescription{{
			ExerciseID: shared.ID,
			Scheme:     domain.SchemeSets,
			Sets:       intPtr(3),
			Reps:       intPtr(15),
		}},
	}
	draft := &domain.PlanDraft{
		Title:      "conditioning",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots: []domain.WorkoutSlot{
			{Kind: domain.SlotInline, Title: "day one", Segments: []domain.Segment{seg}},
			{Kind: domain.SlotInline, Title: "day two", Segments: []domain.Segment{seg}},
		},
	}

	plan, err := f.planService().CreatePlan(context.Background(), owner, draft)
	require.NoError(t, err)

	assert.Equal(t, 1, f.clonesOf(shared.ID), "at most one clone per source per operation")

	rows, err := f.planWorkouts.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var exerciseIDs []primitive.ObjectID
	for _, pw := range rows {
		weRows, err := f.workoutExercises.GetByWorkoutID(context.Background(), *pw.WorkoutID)
		require.NoError(t, err)
		require.Len(t, weRows, 1)
		exerciseIDs = append(exerciseIDs, *weRows[0].ExerciseID)
	}
	assert.Equal(t, exerciseIDs[0], exerciseIDs[1], "both rows reference the single clone")
}

func TestCreatePlanValidationFailure(t *testing.T) {
	f := newFixture()
	owner := newOwner()

	draft := &domain.PlanDraft{
		Title:      "",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}},
	}

	_, err := f.planService().CreatePlan(context.Background(), owner, draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)
	assert.Empty(t, f.store.plans, "nothing persisted on validation failure")
}

// A failure on the last persistence batch rolls the whole graph back:
// no plan, no rows, no clones.
func TestCreatePlanRollsBackWholeGraphOnFailure(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	video := f.addVideo(author, "demo")
	exercise := f.addExercise(author, "squat", oidPtr(video.ID))

	f.store.failExerciseVideoInsert = errors.New("socket closed")

	draft := &domain.PlanDraft{
		Title:      "doomed",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots: []domain.WorkoutSlot{
			{Kind: domain.SlotInline, Title: "day", Segments: []domain.Segment{{
				Kind: domain.SegmentPlain,
				Members: []domain.Prescription{{
					ExerciseID: exercise.ID,
					Scheme:     domain.SchemeSets,
					Sets:       intPtr(3),
					Reps:       intPtr(8),
				}},
			}}},
		},
	}

	_, err := f.planService().CreatePlan(context.Background(), owner, draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)

	assert.Empty(t, f.store.plans)
	assert.Empty(t, f.store.planWorkouts)
	assert.Empty(t, f.store.workoutExercises)
	assert.Empty(t, f.store.exerciseVideos)
	assert.Equal(t, 0, f.clonesOf(exercise.ID), "staged clones vanish with the transaction")
	assert.Equal(t, 0, f.clonesOf(video.ID))
	assert.Len(t, f.store.workouts, 0, "inline workout rolled back too")
}

// Rows named in deleted_ids disappear along with their completion logs;
// the rest of the update applies normally.
func TestUpdatePlanDeletionListCascadesToCompletionLogs(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	svc := f.planService()

	draft := &domain.PlanDraft{
		Title:      "two rests",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}, {Kind: domain.SlotRest}},
	}
	plan, err := svc.CreatePlan(context.Background(), owner, draft)
	require.NoError(t, err)

	rows, err := f.planWorkouts.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	doomed, kept := rows[0], rows[1]

	userID := primitive.NewObjectID()
	_, err = svc.RecordCompletion(context.Background(), userID, doomed.ID, "done")
	require.NoError(t, err)
	_, err = svc.RecordCompletion(context.Background(), userID, kept.ID, "done")
	require.NoError(t, err)

	update := &domain.PlanDraft{
		Title:      "one rest",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots: []domain.WorkoutSlot{
			{Kind: domain.SlotRest, RowID: oidPtr(kept.ID)},
		},
		DeletedPlanWorkoutIDs: []primitive.ObjectID{doomed.ID},
	}
	_, err = svc.UpdatePlan(context.Background(), owner, plan.ID, update)
	require.NoError(t, err)

	after, err := f.planWorkouts.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, kept.ID, after[0].ID, "surviving row keeps its id")

	logs, err := f.completionLogs.GetByPlanWorkoutIDs(context.Background(), []primitive.ObjectID{doomed.ID, kept.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, kept.ID, logs[0].PlanWorkoutID, "only the deleted row's logs are gone")
}

func TestUpdatePlanForeignPlanDenied(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	svc := f.planService()

	draft := &domain.PlanDraft{
		Title:      "theirs",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPublic,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}},
	}
	plan, err := svc.CreatePlan(context.Background(), author, draft)
	require.NoError(t, err)

	_, err = svc.UpdatePlan(context.Background(), owner, plan.ID, draft)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdatePlanNotFound(t *testing.T) {
	f := newFixture()
	draft := &domain.PlanDraft{
		Title:      "ghost",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}},
	}
	_, err := f.planService().UpdatePlan(context.Background(), newOwner(), primitive.NewObjectID(), draft)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClonePlanReusesOwnContentClonesForeign(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()
	svc := f.planService()

	ownWorkout := f.addWorkout(owner, "mine")
	foreignExercise := f.addExercise(author, "theirs", nil)
	foreignWorkout := f.addWorkout(author, "their day")
	f.addWorkoutExercise(foreignWorkout.ID, oidPtr(foreignExercise.ID), 1)

	// Seed the source plan directly: its rows mix content the cloning
	// caller already owns with the author's own.
	source := domain.Plan{
		ID:         primitive.NewObjectID(),
		Title:      "shared program",
		Kind:       domain.PlanProgram,
		Visibility: domain.VisibilityPublic,
		Ownership:  domain.Ownership{OwnerID: author.OwnerID, OwnerRole: author.Role},
	}
	f.store.plans[source.ID] = source
	seedRow := func(workoutID *primitive.ObjectID, phase, week, day, sortIndex int) {
		row := domain.PlanWorkout{
			ID:        primitive.NewObjectID(),
			PlanID:    source.ID,
			WorkoutID: workoutID,
			IsRest:    workoutID == nil,
			Phase:     intPtr(phase),
			Week:      intPtr(week),
			Day:       intPtr(day),
			SortIndex: sortIndex,
		}
		f.store.planWorkouts[row.ID] = row
	}
	seedRow(oidPtr(ownWorkout.ID), 1, 1, 1, 1)
	seedRow(nil, 1, 1, 2, 2)
	seedRow(oidPtr(foreignWorkout.ID), 1, 2, 1, 3)

	clone, err := svc.ClonePlan(context.Background(), owner, source.ID)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, clone.ID)
	require.NotNil(t, clone.ParentID)
	assert.Equal(t, source.ID, *clone.ParentID)
	assert.Equal(t, domain.VisibilityPrivate, clone.Visibility, "clones start private")
	assert.True(t, clone.OwnedBy(owner))

	rows, err := f.planWorkouts.GetByPlanID(context.Background(), clone.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ownWorkout.ID, *rows[0].WorkoutID, "caller's own workout is referenced as-is")
	assert.True(t, rows[1].IsRest)
	assert.NotEqual(t, foreignWorkout.ID, *rows[2].WorkoutID, "foreign workout is cloned")
	assert.Equal(t, 1, f.clonesOf(foreignWorkout.ID))
	assert.Equal(t, 1, f.clonesOf(foreignExercise.ID))
	assert.Equal(t, 0, f.clonesOf(ownWorkout.ID))

	// Program structure carries over.
	assert.Equal(t, 2, *rows[2].Week)
}

func TestClonePlanFailsOnRowWithoutWorkoutReference(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	author := newOwner()

	source := domain.Plan{
		ID:         primitive.NewObjectID(),
		Title:      "broken program",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPublic,
		Ownership:  domain.Ownership{OwnerID: author.OwnerID, OwnerRole: author.Role},
	}
	f.store.plans[source.ID] = source
	// A non-rest row without a workout reference violates the persisted
	// invariant; replaying it must fail the clone, not panic.
	bad := domain.PlanWorkout{
		ID:        primitive.NewObjectID(),
		PlanID:    source.ID,
		IsRest:    false,
		SortIndex: 1,
	}
	f.store.planWorkouts[bad.ID] = bad

	_, err := f.planService().ClonePlan(context.Background(), owner, source.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Len(t, f.store.plans, 1, "no plan shell survives the rollback")
}

func TestGetPlanComputesTotalWeeks(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	svc := f.planService()

	slot := func(phase, week, day int) domain.WorkoutSlot {
		return domain.WorkoutSlot{Kind: domain.SlotRest, Phase: intPtr(phase), Week: intPtr(week), Day: intPtr(day)}
	}
	plan, err := svc.CreatePlan(context.Background(), owner, &domain.PlanDraft{
		Title:      "two phases",
		Kind:       domain.PlanProgram,
		Visibility: domain.VisibilityPrivate,
		Slots: []domain.WorkoutSlot{
			slot(1, 1, 1), slot(1, 2, 1),
			slot(2, 1, 1), slot(2, 3, 1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, plan.TotalWeeks, "max week per phase, summed")

	detail, err := svc.GetPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.Plan.TotalWeeks)
	assert.Len(t, detail.Workouts, 4)
}

func TestDeletePlanRemovesRowsAndLogs(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	svc := f.planService()

	plan, err := svc.CreatePlan(context.Background(), owner, &domain.PlanDraft{
		Title:      "short lived",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}},
	})
	require.NoError(t, err)

	rows, err := f.planWorkouts.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	_, err = svc.RecordCompletion(context.Background(), primitive.NewObjectID(), rows[0].ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(context.Background(), owner, plan.ID))

	_, err = svc.GetPlan(context.Background(), plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.planWorkouts)
	assert.Empty(t, f.store.completionLogs)
}

func TestAssignPlan(t *testing.T) {
	f := newFixture()
	owner := newOwner()
	svc := f.planService()

	plan, err := svc.CreatePlan(context.Background(), owner, &domain.PlanDraft{
		Title:      "assigned",
		Kind:       domain.PlanOnDemand,
		Visibility: domain.VisibilityPrivate,
		Slots:      []domain.WorkoutSlot{{Kind: domain.SlotRest}},
	})
	require.NoError(t, err)

	assigneeID := primitive.NewObjectID()
	start := time.Now()
	assignment, err := svc.AssignPlan(context.Background(), owner, plan.ID, assigneeID, start, nil)
	require.NoError(t, err)

	assert.Equal(t, plan.ID, assignment.PlanID)
	assert.Equal(t, assigneeID, assignment.AssigneeID)
	assert.Equal(t, owner.OwnerID, assignment.AssignedBy)

	stored, err := f.assignments.GetByPlanID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAssignPlanNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.planService().AssignPlan(context.Background(), newOwner(), primitive.NewObjectID(), primitive.NewObjectID(), time.Now(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
