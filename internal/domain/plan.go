package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanKind distinguishes free-form on-demand plans from phased programs.
type PlanKind string

const (
	PlanOnDemand PlanKind = "onDemand"
	PlanProgram  PlanKind = "program"
)

// Plan is the top of the content graph: an ordered list of PlanWorkout
// slots grouped (for programs) into phases, weeks and days.
type Plan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Kind       PlanKind           `bson:"kind" json:"kind"`
	PhaseCount *int               `bson:"phaseCount,omitempty" json:"phaseCount,omitempty"`
	WeekCount  *int               `bson:"weekCount,omitempty" json:"weekCount,omitempty"`
	Visibility Visibility         `bson:"visibilityType" json:"visibilityType"`
	Ownership  `bson:",inline"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"-"`

	// TotalWeeks is derived from the plan's rows (max week per phase,
	// summed across phases) and never persisted.
	TotalWeeks int `bson:"-" json:"totalWeeks"`
}

// PlanWorkout is one ordered slot of a Plan: either a rest day or a
// reference to a Workout. WorkoutID is nil iff IsRest is true.
type PlanWorkout struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID  `bson:"planId" json:"planId"`
	WorkoutID *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"`
	IsRest    bool                `bson:"isRest" json:"isRest"`
	Phase     *int                `bson:"phase,omitempty" json:"phase,omitempty"`
	Week      *int                `bson:"week,omitempty" json:"week,omitempty"`
	Day       *int                `bson:"day,omitempty" json:"day,omitempty"`
	SortIndex int                 `bson:"sortIndex" json:"sortIndex"`
}
