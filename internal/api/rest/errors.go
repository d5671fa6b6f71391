package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
)

// statusFor сопоставляет доменную ошибку с HTTP-кодом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrInvalidImage),
		errors.Is(err, entity.ErrNoFace),
		errors.Is(err, entity.ErrMultipleFaces),
		errors.Is(err, entity.ErrDuplicateRegistration):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNoEmployees),
		errors.Is(err, entity.ErrFaceNotRecognized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrNotAvailable),
		errors.Is(err, entity.ErrCameraDisabled),
		errors.Is(err, entity.ErrCameraClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
