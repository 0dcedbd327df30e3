package api

import (
	"errors"
	"testing"

	"peakform/fitness-content/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(i int) *int { return &i }

func TestToPlanDraftKeepsContradictionsForValidation(t *testing.T) {
	workoutID := primitive.NewObjectID().Hex()
	exerciseSlot := ExerciseSlotRequest{
		ID:   primitive.NewObjectID().Hex(),
		Type: "sets",
		Set:  intPtr(3),
		Rep:  intPtr(10),
	}

	tests := []struct {
		name      string
		slot      WorkoutSlotRequest
		wantField string
	}{
		{
			name: "plain rest slot passes",
			slot: WorkoutSlotRequest{IsRest: true},
		},
		{
			name:      "rest slot that also names a workout",
			slot:      WorkoutSlotRequest{IsRest: true, WorkoutID: workoutID},
			wantField: "workouts[0]",
		},
		{
			name:      "rest slot that also defines exercises",
			slot:      WorkoutSlotRequest{IsRest: true, Exercises: []ExerciseSlotRequest{exerciseSlot}},
			wantField: "workouts[0]",
		},
		{
			name:      "workout reference that also defines exercises",
			slot:      WorkoutSlotRequest{WorkoutID: workoutID, Exercises: []ExerciseSlotRequest{exerciseSlot}},
			wantField: "workouts[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := toPlanDraft(&PlanRequest{
				Title:    "conflicted",
				Type:     planTypeOnDemand,
				Workouts: []WorkoutSlotRequest{tt.slot},
			})
			require.NoError(t, err, "parsing carries the contradiction to the validator")

			err = draft.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			var fieldErr *domain.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}
