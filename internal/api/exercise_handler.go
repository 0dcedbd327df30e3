package api

import (
	"net/http"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an
// exercise.
type ExerciseRequest struct {
	Title      string   `json:"title" binding:"required"`
	Tags       []string `json:"tags,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	VideoID    string   `json:"video_id,omitempty"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Tags       []string          `json:"tags,omitempty"`
	Visibility domain.Visibility `json:"visibility"`
	VideoID    *string           `json:"videoId,omitempty"`
	ParentID   *string           `json:"parentId,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:         ex.ID.Hex(),
		Title:      ex.Title,
		Tags:       ex.Tags,
		Visibility: ex.Visibility,
		CreatedAt:  ex.CreatedAt,
		UpdatedAt:  ex.UpdatedAt,
	}
	if ex.VideoID != nil && *ex.VideoID != primitive.NilObjectID {
		hex := ex.VideoID.Hex()
		resp.VideoID = &hex
	}
	if ex.ParentID != nil {
		hex := ex.ParentID.Hex()
		resp.ParentID = &hex
	}
	return resp
}

func toExerciseInput(req *ExerciseRequest) (service.ExerciseInput, error) {
	videoID, err := parseOptionalID("video_id", req.VideoID)
	if err != nil {
		return service.ExerciseInput{}, err
	}
	return service.ExerciseInput{
		Title:      req.Title,
		Tags:       req.Tags,
		Visibility: visibilityFromWire(req.Visibility),
		VideoID:    videoID,
	}, nil
}

// --- Handler Methods ---

// CreateExercise creates a new exercise for the authenticated owner.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	input, err := toExerciseInput(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), owner, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetExercise returns a single exercise.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetOwnExercises lists the authenticated owner's exercises.
func (h *ExerciseHandler) GetOwnExercises(c *gin.Context) {
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	exercises, err := h.exerciseService.GetExercisesByOwner(c.Request.Context(), owner)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateExercise modifies an exercise the owner holds.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	input, err := toExerciseInput(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), owner, exerciseID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise soft-deletes an exercise the owner holds.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), owner, exerciseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneExercise copies a foreign exercise into the owner's namespace.
func (h *ExerciseHandler) CloneExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	clone, err := h.exerciseService.CloneExercise(c.Request.Context(), owner, exerciseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(clone))
}
