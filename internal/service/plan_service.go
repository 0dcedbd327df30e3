package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanDetail is a plan together with its ordered workout rows.
type PlanDetail struct {
	Plan     *domain.Plan
	Workouts []domain.PlanWorkout
}

// PlanService orchestrates plan composition: each create, update or clone
// runs as one transaction in which references are resolved, clones staged
// and the whole graph persisted or rolled back as a unit.
type PlanService interface {
	CreatePlan(ctx context.Context, owner domain.OwnerRef, draft *domain.PlanDraft) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID, draft *domain.PlanDraft) (*domain.Plan, error)
	ClonePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID) (*domain.Plan, error)
	GetPlan(ctx context.Context, planID primitive.ObjectID) (*PlanDetail, error)
	GetPlansByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Plan, error)
	DeletePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID) error
	AssignPlan(ctx context.Context, owner domain.OwnerRef, planID, assigneeID primitive.ObjectID, start time.Time, end *time.Time) (*domain.PlanAssignment, error)
	RecordCompletion(ctx context.Context, userID, planWorkoutID primitive.ObjectID, notes string) (*domain.CompletionLog, error)
}

type planService struct {
	tx             repository.TxRunner
	plans          repository.PlanRepository
	planWorkouts   repository.PlanWorkoutRepository
	assignments    repository.PlanAssignmentRepository
	completionLogs repository.CompletionLogRepository
	builder        *compositionBuilder
	writer         *graphWriter
	notifier       Notifier
}

// NewPlanService creates a new instance of planService wired with the
// resolver, builder and writer it composes.
func NewPlanService(
	tx repository.TxRunner,
	plans repository.PlanRepository,
	planWorkouts repository.PlanWorkoutRepository,
	workoutExercises repository.WorkoutExerciseRepository,
	exerciseVideos repository.ExerciseVideoRepository,
	completionLogs repository.CompletionLogRepository,
	assignments repository.PlanAssignmentRepository,
	videos repository.VideoRepository,
	exercises repository.ExerciseRepository,
	workouts repository.WorkoutRepository,
	notifier Notifier,
) PlanService {
	resolver := newOwnershipResolver(videos, exercises, workouts)
	return &planService{
		tx:             tx,
		plans:          plans,
		planWorkouts:   planWorkouts,
		assignments:    assignments,
		completionLogs: completionLogs,
		builder:        newCompositionBuilder(resolver, workouts, workoutExercises),
		writer:         newGraphWriter(plans, planWorkouts, workoutExercises, exerciseVideos, completionLogs),
		notifier:       notifier,
	}
}

// CreatePlan validates the draft, composes the graph and persists it.
func (s *planService) CreatePlan(ctx context.Context, owner domain.OwnerRef, draft *domain.PlanDraft) (*domain.Plan, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		Title:      draft.Title,
		Kind:       draft.Kind,
		PhaseCount: draft.PhaseCount,
		WeekCount:  draft.WeekCount,
		Visibility: draft.Visibility,
		Ownership: domain.Ownership{
			OwnerID:   owner.OwnerID,
			OwnerRole: owner.Role,
		},
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		memo := newCloneMemo()
		rows, err := s.builder.Build(ctx, memo, draft, owner)
		if err != nil {
			return err
		}
		if err := s.writer.Persist(ctx, plan, rows, nil, nil); err != nil {
			return err
		}
		return s.fillTotalWeeks(ctx, plan)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return plan, nil
}

// UpdatePlan applies a draft to an existing plan. Rows named in the
// draft's deletion lists are removed (with their completion logs) before
// the upsert; rows carrying ids overwrite in place.
func (s *planService) UpdatePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID, draft *domain.PlanDraft) (*domain.Plan, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var plan *domain.Plan
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.plans.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !existing.OwnedBy(owner) {
			return ErrAccessDenied
		}

		existing.Title = draft.Title
		existing.Kind = draft.Kind
		existing.PhaseCount = draft.PhaseCount
		existing.WeekCount = draft.WeekCount
		existing.Visibility = draft.Visibility

		memo := newCloneMemo()
		rows, err := s.builder.Build(ctx, memo, draft, owner)
		if err != nil {
			return err
		}
		if err := s.writer.Persist(ctx, existing, rows, draft.DeletedPlanWorkoutIDs, draft.DeletedWorkoutExerciseIDs); err != nil {
			return err
		}
		if err := s.fillTotalWeeks(ctx, existing); err != nil {
			return err
		}
		plan = existing
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return plan, nil
}

// ClonePlan creates a new plan shell owned by the caller and replays every
// slot of the source plan through the resolver: the caller's own content is
// referenced as-is, foreign content is cloned once per source.
func (s *planService) ClonePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID) (*domain.Plan, error) {
	var clone *domain.Plan
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		source, err := s.plans.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		sourceRows, err := s.planWorkouts.GetByPlanID(ctx, planID)
		if err != nil {
			return err
		}

		shell := &domain.Plan{
			Title:      source.Title,
			Kind:       source.Kind,
			PhaseCount: source.PhaseCount,
			WeekCount:  source.WeekCount,
			Visibility: domain.VisibilityPrivate,
			Ownership: domain.Ownership{
				OwnerID:   owner.OwnerID,
				OwnerRole: owner.Role,
				ParentID:  &source.ID,
			},
		}

		slots, err := replaySlots(sourceRows)
		if err != nil {
			return err
		}
		replay := &domain.PlanDraft{
			Title:      shell.Title,
			Kind:       shell.Kind,
			Visibility: shell.Visibility,
			Slots:      slots,
		}

		memo := newCloneMemo()
		rows, err := s.builder.Build(ctx, memo, replay, owner)
		if err != nil {
			return err
		}
		if err := s.writer.Persist(ctx, shell, rows, nil, nil); err != nil {
			return err
		}
		if err := s.fillTotalWeeks(ctx, shell); err != nil {
			return err
		}
		clone = shell
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return clone, nil
}

// replaySlots turns persisted plan rows back into draft slots so a clone
// walks the same path a create does. A non-rest row without a workout
// reference violates the persisted invariant and fails the operation
// instead of being trusted.
func replaySlots(rows []domain.PlanWorkout) ([]domain.WorkoutSlot, error) {
	slots := make([]domain.WorkoutSlot, 0, len(rows))
	for _, row := range rows {
		slot := domain.WorkoutSlot{
			Phase: row.Phase,
			Week:  row.Week,
			Day:   row.Day,
		}
		if row.IsRest {
			slot.Kind = domain.SlotRest
		} else {
			if row.WorkoutID == nil {
				return nil, fmt.Errorf("plan workout row %s carries no workout reference", row.ID.Hex())
			}
			slot.Kind = domain.SlotWorkoutRef
			workoutID := *row.WorkoutID
			slot.WorkoutID = &workoutID
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// GetPlan retrieves a plan with its rows and derived total weeks.
func (s *planService) GetPlan(ctx context.Context, planID primitive.ObjectID) (*PlanDetail, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.planWorkouts.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.TotalWeeks = totalWeeks(rows)
	return &PlanDetail{Plan: plan, Workouts: rows}, nil
}

// GetPlansByOwner retrieves all plans of an owner namespace.
func (s *planService) GetPlansByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Plan, error) {
	return s.plans.GetByOwner(ctx, owner)
}

// DeletePlan soft-deletes a plan and removes its workout rows.
func (s *planService) DeletePlan(ctx context.Context, owner domain.OwnerRef, planID primitive.ObjectID) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.plans.SoftDelete(ctx, planID, owner); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		rows, err := s.planWorkouts.GetByPlanID(ctx, planID)
		if err != nil {
			return err
		}
		rowIDs := make([]primitive.ObjectID, 0, len(rows))
		for _, row := range rows {
			rowIDs = append(rowIDs, row.ID)
		}
		if err := s.completionLogs.DeleteByPlanWorkoutIDs(ctx, rowIDs); err != nil {
			return err
		}
		return s.planWorkouts.DeleteByPlanID(ctx, planID)
	})
	return wrapTxErr(err)
}

// AssignPlan binds a plan to a user for a date range and dispatches a
// notification without awaiting it.
func (s *planService) AssignPlan(ctx context.Context, owner domain.OwnerRef, planID, assigneeID primitive.ObjectID, start time.Time, end *time.Time) (*domain.PlanAssignment, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assignment := &domain.PlanAssignment{
		PlanID:     planID,
		AssigneeID: assigneeID,
		AssignedBy: owner.OwnerID,
		StartDate:  start,
		EndDate:    end,
	}
	if _, err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	// Dispatch failures are logged, never surfaced: the assignment is
	// already committed.
	go func() {
		if err := s.notifier.PlanAssigned(context.Background(), plan, assignment); err != nil {
			log.Printf("WARN: assignment notification for plan %s not sent: %v", plan.ID.Hex(), err)
		}
	}()

	return assignment, nil
}

// RecordCompletion logs that a user finished one plan workout slot.
func (s *planService) RecordCompletion(ctx context.Context, userID, planWorkoutID primitive.ObjectID, notes string) (*domain.CompletionLog, error) {
	entry := &domain.CompletionLog{
		PlanWorkoutID: planWorkoutID,
		UserID:        userID,
		Notes:         notes,
	}
	if _, err := s.completionLogs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// fillTotalWeeks derives the plan's total weeks from its freshly written
// rows, read back inside the same transaction.
func (s *planService) fillTotalWeeks(ctx context.Context, plan *domain.Plan) error {
	rows, err := s.planWorkouts.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return err
	}
	plan.TotalWeeks = totalWeeks(rows)
	return nil
}

// totalWeeks sums, across phases, the maximum week number seen in each
// phase. Rows without phase/week data (on-demand plans) contribute nothing.
func totalWeeks(rows []domain.PlanWorkout) int {
	maxWeekByPhase := make(map[int]int)
	for _, row := range rows {
		if row.Week == nil {
			continue
		}
		phase := 0
		if row.Phase != nil {
			phase = *row.Phase
		}
		if *row.Week > maxWeekByPhase[phase] {
			maxWeekByPhase[phase] = *row.Week
		}
	}
	total := 0
	for _, weeks := range maxWeekByPhase {
		total += weeks
	}
	return total
}
