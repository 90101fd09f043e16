package api

import (
	"errors"   // Error unwrapping
	"net/http" // HTTP status codes

	"employee_system/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps an error kind to its HTTP status
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindBadRequest, domain.KindUnsupportedMediaType: // Bad uploads are plain 400s
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes {"message": ...} for domain errors and a generic 500 otherwise
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.AbortWithStatusJSON(statusFor(de.Kind), gin.H{"message": de.Message})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Upload too large"})
		return
	}
	_ = c.Error(err) // Picked up by the request logger
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).WithError(err).Error("unexpected failure")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
