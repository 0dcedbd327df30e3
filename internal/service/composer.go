package service

import (
	"context"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// planRows is the flat output of a composition pass: every junction row the
// graph writer persists for one plan operation. Entity documents (workout,
// exercise and video clones, inline workouts) are created by the resolver
// and builder directly, staged against the same transaction.
type planRows struct {
	PlanWorkouts     []domain.PlanWorkout
	WorkoutExercises []domain.WorkoutExercise
	ExerciseVideos   []domain.ExerciseVideo
}

// compositionBuilder walks a validated plan draft and emits the row
// specifications for persistence, resolving every workout, exercise and
// video reference through the ownership resolver on the way.
type compositionBuilder struct {
	resolver         *ownershipResolver
	workouts         repository.WorkoutRepository
	workoutExercises repository.WorkoutExerciseRepository
}

func newCompositionBuilder(
	resolver *ownershipResolver,
	workouts repository.WorkoutRepository,
	workoutExercises repository.WorkoutExerciseRepository,
) *compositionBuilder {
	return &compositionBuilder{
		resolver:         resolver,
		workouts:         workouts,
		workoutExercises: workoutExercises,
	}
}

// Build walks the draft's ordered slots. Sort indices are assigned in
// traversal order starting at 1. A referenced workout already usable by the
// owner keeps its existing exercise rows; only a freshly cloned workout has
// its rows rebuilt from the source.
func (b *compositionBuilder) Build(ctx context.Context, memo *cloneMemo, draft *domain.PlanDraft, owner domain.OwnerRef) (*planRows, error) {
	out := &planRows{}

	for i, slot := range draft.Slots {
		row := domain.PlanWorkout{
			Phase:     slot.Phase,
			Week:      slot.Week,
			Day:       slot.Day,
			SortIndex: i + 1,
		}
		if slot.RowID != nil {
			row.ID = *slot.RowID
		}

		switch slot.Kind {
		case domain.SlotRest:
			row.IsRest = true

		case domain.SlotWorkoutRef:
			res, err := b.resolver.resolveWorkout(ctx, memo, *slot.WorkoutID, owner)
			if err != nil {
				return nil, err
			}
			workoutID := res.ID
			row.WorkoutID = &workoutID
			if res.Cloned {
				rows, links, err := b.rebuildWorkoutRows(ctx, memo, *slot.WorkoutID, res.ID, owner)
				if err != nil {
					return nil, err
				}
				out.WorkoutExercises = append(out.WorkoutExercises, rows...)
				out.ExerciseVideos = append(out.ExerciseVideos, links...)
			}

		case domain.SlotInline:
			workout := &domain.Workout{
				Title:      slot.Title,
				Visibility: draft.Visibility,
				Ownership: domain.Ownership{
					OwnerID:   owner.OwnerID,
					OwnerRole: owner.Role,
				},
			}
			workoutID, err := b.workouts.Create(ctx, workout)
			if err != nil {
				return nil, err
			}
			row.WorkoutID = &workoutID
			rows, links, err := b.composeSegments(ctx, memo, workoutID, slot.Segments, owner)
			if err != nil {
				return nil, err
			}
			out.WorkoutExercises = append(out.WorkoutExercises, rows...)
			out.ExerciseVideos = append(out.ExerciseVideos, links...)
		}

		out.PlanWorkouts = append(out.PlanWorkouts, row)
	}

	return out, nil
}

// composeSegments turns validated segments into workout exercise rows.
// Supersets share one group number and consume one sort index per member.
func (b *compositionBuilder) composeSegments(ctx context.Context, memo *cloneMemo, workoutID primitive.ObjectID, segments []domain.Segment, owner domain.OwnerRef) ([]domain.WorkoutExercise, []domain.ExerciseVideo, error) {
	var rows []domain.WorkoutExercise
	var links []domain.ExerciseVideo

	sortIndex := 0
	supersetCount := 0

	for _, seg := range segments {
		switch seg.Kind {
		case domain.SegmentRest:
			sortIndex++
			row := domain.WorkoutExercise{
				WorkoutID:   workoutID,
				IsRest:      true,
				RestMinutes: seg.RestMinutes,
				RestSeconds: seg.RestSeconds,
				SortIndex:   sortIndex,
			}
			if seg.RowID != nil {
				row.ID = *seg.RowID
			}
			rows = append(rows, row)

		case domain.SegmentPlain, domain.SegmentStaggered:
			sortIndex++
			member := seg.Members[0]
			row, link, err := b.prescriptionRow(ctx, memo, workoutID, member, owner, seg.Kind == domain.SegmentStaggered, nil, sortIndex)
			if err != nil {
				return nil, nil, err
			}
			if seg.RowID != nil {
				row.ID = *seg.RowID
			}
			rows = append(rows, row)
			if link != nil {
				links = append(links, *link)
			}

		case domain.SegmentSuperset:
			supersetCount++
			group := supersetCount
			for _, member := range seg.Members {
				sortIndex++
				row, link, err := b.prescriptionRow(ctx, memo, workoutID, member, owner, len(member.RepsPerSet) > 0, &group, sortIndex)
				if err != nil {
					return nil, nil, err
				}
				rows = append(rows, row)
				if link != nil {
					links = append(links, *link)
				}
			}
		}
	}

	return rows, links, nil
}

// prescriptionRow resolves one exercise reference and emits its row. A link
// row comes back only when this resolution created the exercise clone and
// the clone carries a video.
func (b *compositionBuilder) prescriptionRow(ctx context.Context, memo *cloneMemo, workoutID primitive.ObjectID, member domain.Prescription, owner domain.OwnerRef, staggered bool, group *int, sortIndex int) (domain.WorkoutExercise, *domain.ExerciseVideo, error) {
	res, err := b.resolver.resolveExercise(ctx, memo, member.ExerciseID, owner)
	if err != nil {
		return domain.WorkoutExercise{}, nil, err
	}

	exerciseID := res.ID
	row := domain.WorkoutExercise{
		WorkoutID:   workoutID,
		ExerciseID:  &exerciseID,
		Scheme:      member.Scheme,
		Minutes:     member.Minutes,
		Seconds:     member.Seconds,
		Sets:        member.Sets,
		Reps:        member.Reps,
		RestMinutes: member.RestMinutes,
		RestSeconds: member.RestSeconds,
		SortIndex:   sortIndex,
	}
	if group != nil {
		g := *group
		row.SupersetGroup = &g
	}
	if staggered {
		row.IsStaggered = true
		row.StaggerSchedule = make([]domain.StaggerSet, 0, len(member.RepsPerSet))
		for i, reps := range member.RepsPerSet {
			row.StaggerSchedule = append(row.StaggerSchedule, domain.StaggerSet{Set: i + 1, Reps: reps})
		}
	}

	var link *domain.ExerciseVideo
	if res.Cloned && res.VideoID != nil {
		link = &domain.ExerciseVideo{ExerciseID: res.ID, VideoID: *res.VideoID}
	}
	return row, link, nil
}

// rebuildWorkoutRows copies the source workout's rows onto a fresh clone,
// resolving each row's exercise for the acting owner. Grouping numbers,
// stagger schedules and sort order carry over from the source.
func (b *compositionBuilder) rebuildWorkoutRows(ctx context.Context, memo *cloneMemo, sourceWorkoutID, cloneWorkoutID primitive.ObjectID, owner domain.OwnerRef) ([]domain.WorkoutExercise, []domain.ExerciseVideo, error) {
	sourceRows, err := b.workoutExercises.GetByWorkoutID(ctx, sourceWorkoutID)
	if err != nil {
		return nil, nil, err
	}

	var rows []domain.WorkoutExercise
	var links []domain.ExerciseVideo

	for _, src := range sourceRows {
		row := src
		row.ID = primitive.NilObjectID
		row.WorkoutID = cloneWorkoutID

		if !src.IsRest {
			res, err := b.resolver.resolveExercise(ctx, memo, *src.ExerciseID, owner)
			if err != nil {
				return nil, nil, err
			}
			exerciseID := res.ID
			row.ExerciseID = &exerciseID
			if res.Cloned && res.VideoID != nil {
				links = append(links, domain.ExerciseVideo{ExerciseID: res.ID, VideoID: *res.VideoID})
			}
		}
		rows = append(rows, row)
	}

	return rows, links, nil
}
