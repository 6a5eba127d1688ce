package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NygerianPrynce/kalTrackV2/apperror"
)

// respondError translates a domain error into the HTTP error shape. Every
// failure body is {error, details?}; nothing beyond the details string of an
// AppError ever leaks to the client.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInvalidTimezone):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrAIParse), errors.Is(err, apperror.ErrAITransport):
		status = http.StatusBadGateway
	}

	body := gin.H{"error": appErr.Message}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}
