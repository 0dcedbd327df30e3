package service

import (
	"context"
	"log"

	"peakform/fitness-content/internal/domain"
)

// Notifier dispatches user-facing notifications. Dispatch is fire-and-
// forget: callers never block an operation on it and a failure only
// degrades the response to "succeeded but notification not sent".
type Notifier interface {
	PlanAssigned(ctx context.Context, plan *domain.Plan, assignment *domain.PlanAssignment) error
}

// logNotifier is the default dispatcher: it records the event in the
// server log. Real push/email delivery plugs in behind the same interface.
type logNotifier struct{}

// NewLogNotifier creates a Notifier that only logs.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) PlanAssigned(_ context.Context, plan *domain.Plan, assignment *domain.PlanAssignment) error {
	log.Printf("INFO: plan %q (%s) assigned to user %s", plan.Title, plan.ID.Hex(), assignment.AssigneeID.Hex())
	return nil
}
