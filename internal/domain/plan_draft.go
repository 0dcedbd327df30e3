package domain

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation is the sentinel all draft validation failures unwrap to.
var ErrValidation = errors.New("validation failed")

// FieldError is a validation failure tied to a specific request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func fieldErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SlotKind tags a plan-level workout slot.
type SlotKind string

const (
	SlotRest       SlotKind = "rest"
	SlotWorkoutRef SlotKind = "workoutRef" // references an existing (possibly foreign) Workout
	SlotInline     SlotKind = "inline"     // defines a fresh Workout from exercise segments
)

// SegmentKind tags a workout-level exercise segment.
type SegmentKind string

const (
	SegmentRest      SegmentKind = "rest"
	SegmentPlain     SegmentKind = "plain"
	SegmentStaggered SegmentKind = "staggered"
	SegmentSuperset  SegmentKind = "superset"
)

// Prescription is one exercise reference with its set scheme. The exercise
// may belong to a foreign owner; resolution happens later.
type Prescription struct {
	ExerciseID  primitive.ObjectID
	Scheme      SetScheme
	Minutes     *int
	Seconds     *int
	Sets        *int
	Reps        *int
	RestMinutes *int
	RestSeconds *int
	RepsPerSet  []int // staggered members only; one entry per set
}

// Segment is one validated workout slot. Members is empty for rest
// segments, holds exactly one prescription for plain/staggered segments and
// two or more for supersets.
type Segment struct {
	Kind        SegmentKind
	RowID       *primitive.ObjectID // pre-existing workout_exercises row to overwrite in place
	Members     []Prescription
	RestMinutes *int
	RestSeconds *int
}

// WorkoutSlot is one validated plan slot.
type WorkoutSlot struct {
	Kind      SlotKind
	RowID     *primitive.ObjectID // pre-existing plan_workouts row to overwrite in place
	WorkoutID *primitive.ObjectID // SlotWorkoutRef only
	Title     string              // SlotInline only
	Phase     *int
	Week      *int
	Day       *int
	Segments  []Segment // SlotInline only
}

// PlanDraft is the closed, validated form of a create/update plan request.
// Handlers parse the loose wire payload into this shape; the composition
// engine only ever sees a draft that passed Validate.
type PlanDraft struct {
	Title      string
	Kind       PlanKind
	PhaseCount *int
	WeekCount  *int
	Visibility Visibility
	Slots      []WorkoutSlot

	DeletedPlanWorkoutIDs     []primitive.ObjectID
	DeletedWorkoutExerciseIDs []primitive.ObjectID
}

// Validate checks the draft's structural invariants. The numeric scheme
// rules live here so the builder can assume them: duration rows carry
// minutes/seconds and no sets/reps, set rows the reverse, and a staggered
// schedule always has exactly `sets` entries.
func (d *PlanDraft) Validate() error {
	if d.Title == "" {
		return fieldErr("title", "is required")
	}
	if d.Kind != PlanOnDemand && d.Kind != PlanProgram {
		return fieldErr("type", "must be %q or %q", PlanOnDemand, PlanProgram)
	}
	if d.Visibility != VisibilityPublic && d.Visibility != VisibilityPrivate {
		return fieldErr("visibility", "must be %q or %q", VisibilityPublic, VisibilityPrivate)
	}
	if len(d.Slots) == 0 {
		return fieldErr("workouts", "at least one workout slot is required")
	}
	for i, slot := range d.Slots {
		if err := slot.validate(fmt.Sprintf("workouts[%d]", i), d.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *WorkoutSlot) validate(field string, kind PlanKind) error {
	switch s.Kind {
	case SlotRest:
		if s.WorkoutID != nil || len(s.Segments) > 0 {
			return fieldErr(field, "rest slot cannot carry a workout reference or exercises")
		}
	case SlotWorkoutRef:
		if s.WorkoutID == nil || *s.WorkoutID == primitive.NilObjectID {
			return fieldErr(field+".workout_id", "is required for a workout reference slot")
		}
		if len(s.Segments) > 0 {
			return fieldErr(field, "workout reference slot cannot also define exercises")
		}
	case SlotInline:
		if s.Title == "" {
			return fieldErr(field+".title", "is required for an inline workout slot")
		}
		if len(s.Segments) == 0 {
			return fieldErr(field, "inline workout slot requires at least one exercise")
		}
		for j, seg := range s.Segments {
			if err := seg.validate(fmt.Sprintf("%s.exercises[%d]", field, j)); err != nil {
				return err
			}
		}
	default:
		return fieldErr(field, "slot is neither a rest, a workout reference nor an inline workout")
	}
	if kind == PlanProgram {
		if s.Phase == nil || s.Week == nil || s.Day == nil {
			return fieldErr(field, "program slots require phase, week and day")
		}
	}
	return nil
}

func (s *Segment) validate(field string) error {
	switch s.Kind {
	case SegmentRest:
		if len(s.Members) > 0 {
			return fieldErr(field, "rest segment cannot reference exercises")
		}
	case SegmentPlain, SegmentStaggered:
		if len(s.Members) != 1 {
			return fieldErr(field, "expected exactly one exercise, got %d", len(s.Members))
		}
	case SegmentSuperset:
		if len(s.Members) < 2 {
			return fieldErr(field, "superset requires at least two members")
		}
	default:
		return fieldErr(field, "unknown segment kind %q", s.Kind)
	}
	staggered := s.Kind == SegmentStaggered
	for k, m := range s.Members {
		if err := m.validate(fmt.Sprintf("%s[%d]", field, k), staggered); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prescription) validate(field string, staggered bool) error {
	if p.ExerciseID == primitive.NilObjectID {
		return fieldErr(field+".id", "exercise id is required")
	}
	switch p.Scheme {
	case SchemeDuration:
		if p.Minutes == nil && p.Seconds == nil {
			return fieldErr(field, "duration scheme requires minutes or seconds")
		}
		if p.Sets != nil || p.Reps != nil {
			return fieldErr(field, "duration scheme cannot carry sets or reps")
		}
		if staggered {
			return fieldErr(field, "staggered exercise must use the sets scheme")
		}
	case SchemeSets:
		if p.Minutes != nil || p.Seconds != nil {
			return fieldErr(field, "sets scheme cannot carry minutes or seconds")
		}
		if p.Sets == nil || *p.Sets <= 0 {
			return fieldErr(field+".set", "sets scheme requires a positive set count")
		}
		if staggered {
			if len(p.RepsPerSet) != *p.Sets {
				return fieldErr(field+".repsArray", "staggered schedule must have exactly %d entries, got %d", *p.Sets, len(p.RepsPerSet))
			}
			for _, r := range p.RepsPerSet {
				if r <= 0 {
					return fieldErr(field+".repsArray", "rep targets must be positive")
				}
			}
		} else if p.Reps == nil || *p.Reps <= 0 {
			return fieldErr(field+".rep", "sets scheme requires a positive rep target")
		}
	default:
		return fieldErr(field+".type", "scheme must be %q or %q", SchemeDuration, SchemeSets)
	}
	if len(p.RepsPerSet) > 0 && !staggered {
		return fieldErr(field+".repsArray", "only staggered exercises carry a per-set schedule")
	}
	return nil
}

// WorkoutDraft is the validated form of a standalone workout create/update
// request; it reuses the same segment union the plan draft does.
type WorkoutDraft struct {
	Title      string
	Visibility Visibility
	Segments   []Segment

	DeletedWorkoutExerciseIDs []primitive.ObjectID
}

// Validate checks the workout draft's structural invariants.
func (d *WorkoutDraft) Validate() error {
	if d.Title == "" {
		return fieldErr("title", "is required")
	}
	if d.Visibility != VisibilityPublic && d.Visibility != VisibilityPrivate {
		return fieldErr("visibility", "must be %q or %q", VisibilityPublic, VisibilityPrivate)
	}
	if len(d.Segments) == 0 {
		return fieldErr("exercises", "at least one exercise is required")
	}
	for j, seg := range d.Segments {
		if err := seg.validate(fmt.Sprintf("exercises[%d]", j)); err != nil {
			return err
		}
	}
	return nil
}
