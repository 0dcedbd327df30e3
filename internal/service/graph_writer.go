package service

import (
	"context"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// graphWriter persists one composed plan graph. It always runs inside the
// operation's transaction: deletion lists first, then the plan document
// (whose id the junction rows need), then the batched junction upserts.
// Any error aborts the whole transaction, so no partial graph is ever
// visible.
type graphWriter struct {
	plans            repository.PlanRepository
	planWorkouts     repository.PlanWorkoutRepository
	workoutExercises repository.WorkoutExerciseRepository
	exerciseVideos   repository.ExerciseVideoRepository
	completionLogs   repository.CompletionLogRepository
}

func newGraphWriter(
	plans repository.PlanRepository,
	planWorkouts repository.PlanWorkoutRepository,
	workoutExercises repository.WorkoutExerciseRepository,
	exerciseVideos repository.ExerciseVideoRepository,
	completionLogs repository.CompletionLogRepository,
) *graphWriter {
	return &graphWriter{
		plans:            plans,
		planWorkouts:     planWorkouts,
		workoutExercises: workoutExercises,
		exerciseVideos:   exerciseVideos,
		completionLogs:   completionLogs,
	}
}

// Persist writes the plan and its rows. Rows carrying a pre-existing id
// overwrite in place, which preserves the junction ids completion logs key
// on; rows without an id are inserted fresh.
func (w *graphWriter) Persist(ctx context.Context, plan *domain.Plan, rows *planRows, deletedPlanWorkouts, deletedWorkoutExercises []primitive.ObjectID) error {
	// Client-requested deletions happen before the upsert so a deleted row
	// id cannot resurface from the incoming batch.
	if len(deletedPlanWorkouts) > 0 {
		if err := w.completionLogs.DeleteByPlanWorkoutIDs(ctx, deletedPlanWorkouts); err != nil {
			return err
		}
		if err := w.planWorkouts.DeleteByIDs(ctx, deletedPlanWorkouts); err != nil {
			return err
		}
	}
	if len(deletedWorkoutExercises) > 0 {
		if err := w.workoutExercises.DeleteByIDs(ctx, deletedWorkoutExercises); err != nil {
			return err
		}
	}

	if plan.ID == primitive.NilObjectID {
		if _, err := w.plans.Create(ctx, plan); err != nil {
			return err
		}
	} else {
		if err := w.plans.Update(ctx, plan); err != nil {
			return err
		}
	}

	for i := range rows.PlanWorkouts {
		rows.PlanWorkouts[i].PlanID = plan.ID
	}

	if err := w.planWorkouts.BulkUpsert(ctx, rows.PlanWorkouts); err != nil {
		return err
	}
	if err := w.workoutExercises.BulkUpsert(ctx, rows.WorkoutExercises); err != nil {
		return err
	}
	return w.exerciseVideos.BulkInsert(ctx, rows.ExerciseVideos)
}
