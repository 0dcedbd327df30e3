package api

import (
	"net/http"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// WorkoutRequest is the create/update payload for a standalone workout. Its
// exercise slots use the same shape as inline workouts inside a plan.
type WorkoutRequest struct {
	Title              string                `json:"title" binding:"required"`
	Visibility         string                `json:"visibility,omitempty"`
	Exercises          []ExerciseSlotRequest `json:"exercises"`
	DeletedExerciseIDs []string              `json:"deleted_exercise_ids,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID         string                   `json:"id"`
	Title      string                   `json:"title"`
	Visibility domain.Visibility        `json:"visibility"`
	ParentID   *string                  `json:"parentId,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
	Exercises  []domain.WorkoutExercise `json:"exercises,omitempty"`
}

func toWorkoutDraft(req *WorkoutRequest) (*domain.WorkoutDraft, error) {
	segments, err := toSegments("exercises", req.Exercises)
	if err != nil {
		return nil, err
	}
	deleted, err := parseIDList("deleted_exercise_ids", req.DeletedExerciseIDs)
	if err != nil {
		return nil, err
	}
	return &domain.WorkoutDraft{
		Title:                     req.Title,
		Visibility:                visibilityFromWire(req.Visibility),
		Segments:                  segments,
		DeletedWorkoutExerciseIDs: deleted,
	}, nil
}

// MapWorkoutToResponse converts a domain Workout to a WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout, rows []domain.WorkoutExercise) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:         w.ID.Hex(),
		Title:      w.Title,
		Visibility: w.Visibility,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
		Exercises:  rows,
	}
	if w.ParentID != nil {
		hex := w.ParentID.Hex()
		resp.ParentID = &hex
	}
	return resp
}

// --- Handler Methods ---

// CreateWorkout creates a standalone workout for the authenticated owner.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	draft, err := toWorkoutDraft(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), owner, draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout, nil))
}

// GetWorkout returns a workout with its ordered exercise rows.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	detail, err := h.workoutService.GetWorkout(c.Request.Context(), workoutID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(detail.Workout, detail.Exercises))
}

// GetOwnWorkouts lists the authenticated owner's workouts.
func (h *WorkoutHandler) GetOwnWorkouts(c *gin.Context) {
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	workouts, err := h.workoutService.GetWorkoutsByOwner(c.Request.Context(), owner)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i], nil)
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateWorkout applies a draft to a workout the owner holds.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	draft, err := toWorkoutDraft(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), owner, workoutID, draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout, nil))
}

// DeleteWorkout soft-deletes a workout the owner holds.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), owner, workoutID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneWorkout copies a foreign workout into the owner's namespace.
func (h *WorkoutHandler) CloneWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	clone, err := h.workoutService.CloneWorkout(c.Request.Context(), owner, workoutID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(clone, nil))
}
