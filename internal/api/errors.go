package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-app/backend/internal/service"
)

// respondServiceError maps service-layer errors onto HTTP responses.
// Validation failures surface the full per-field violation list;
// everything unexpected becomes a generic 500 so partial-write details
// never leak.
func respondServiceError(c *gin.Context, err error) {
	if verr, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, verr.Fields)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
	case errors.Is(err, service.ErrSelfSubscribe):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"invalid email or password"}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
