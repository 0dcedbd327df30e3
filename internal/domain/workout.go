package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetScheme tells how a workout exercise row is prescribed: a fixed
// duration, or a number of sets with a rep target.
type SetScheme string

const (
	SchemeDuration SetScheme = "duration"
	SchemeSets     SetScheme = "sets"
)

// Workout is a reusable workout session composed of ordered
// WorkoutExercise rows.
type Workout struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Visibility Visibility         `bson:"visibilityType" json:"visibilityType"`
	Ownership  `bson:",inline"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"-"`
}

// StaggerSet is one entry of a staggered-set schedule: the rep target for
// one particular set.
type StaggerSet struct {
	Set  int `bson:"set" json:"set"`
	Reps int `bson:"reps" json:"reps"`
}

// WorkoutExercise is one ordered slot of a Workout: either a rest or an
// exercise prescription.
//
// Invariants: ExerciseID is nil iff IsRest is true. StaggerSchedule, when
// present, has exactly Sets entries. Rows sharing a SupersetGroup within a
// workout are contiguous in SortIndex order.
type WorkoutExercise struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	WorkoutID  primitive.ObjectID  `bson:"workoutId" json:"workoutId"`
	ExerciseID *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	IsRest     bool                `bson:"isRest" json:"isRest"`

	Scheme      SetScheme `bson:"scheme,omitempty" json:"scheme,omitempty"`
	Minutes     *int      `bson:"minutes,omitempty" json:"minutes,omitempty"`
	Seconds     *int      `bson:"seconds,omitempty" json:"seconds,omitempty"`
	Sets        *int      `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        *int      `bson:"reps,omitempty" json:"reps,omitempty"`
	RestMinutes *int      `bson:"restMinutes,omitempty" json:"restMinutes,omitempty"`
	RestSeconds *int      `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`

	IsStaggered     bool         `bson:"isStaggered" json:"isStaggered"`
	StaggerSchedule []StaggerSet `bson:"staggerSchedule,omitempty" json:"staggerSchedule,omitempty"`
	SupersetGroup   *int         `bson:"supersetGroup,omitempty" json:"supersetGroup,omitempty"`
	SortIndex       int          `bson:"sortIndex" json:"sortIndex"`
}
