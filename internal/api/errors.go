package api

import (
	"errors"
	"net/http"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handleServiceError maps the service error taxonomy onto HTTP status
// codes. Validation failures carry the offending field when one is known.
func handleServiceError(c *gin.Context, err error) {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": fieldErr.Message,
			"field": fieldErr.Field,
		})
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrAlreadyOwned):
		abortWithError(c, http.StatusConflict, "Content already belongs to you")
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseObjectIDParam reads a hex ObjectID from a path parameter.
func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
