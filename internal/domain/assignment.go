package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanAssignment binds a Plan to a user for a date range. Assignments are
// consumed by notification dispatch and completion logging; the cloning
// engine itself never reads them.
type PlanAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	AssigneeID primitive.ObjectID `bson:"assigneeId" json:"assigneeId"`
	AssignedBy primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	StartDate  time.Time          `bson:"startDate" json:"startDate"`
	EndDate    *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// CompletionLog records that a user completed one PlanWorkout slot. Logs
// key on the junction row id, which is why plan updates preserve existing
// row ids and why deleting a row cascades to its logs.
type CompletionLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanWorkoutID primitive.ObjectID `bson:"planWorkoutId" json:"planWorkoutId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	CompletedAt   time.Time          `bson:"completedAt" json:"completedAt"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
