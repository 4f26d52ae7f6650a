package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Error envelope keys: the /api routes use "detail", the legacy routes "error"
const (
	detailKey = "detail"
	errorKey  = "error"
)

const internalErrorMessage = "Internal server error"

// statusFor maps a service failure kind to its HTTP status
func statusFor(err error) int {
	var validationErr *services.ValidationError
	var parseErr *services.ParseError
	var providerErr *services.ProviderError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is what the client sees; underlying provider details stay in the logs
func publicMessage(err error) string {
	var validationErr *services.ValidationError
	var parseErr *services.ParseError
	var providerErr *services.ProviderError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case errors.As(err, &providerErr):
		return providerErr.Message
	default:
		return internalErrorMessage
	}
}

// respondError logs err and writes it with the mapped status
func respondError(c *gin.Context, key string, err error) {
	respondErrorStatus(c, key, statusFor(err), err)
}

func respondErrorStatus(c *gin.Context, key string, status int, err error) {
	fields := logger.WithContext(c)
	fields["status_code"] = status

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		logger.Warn("Request rejected", fields)
	}

	c.JSON(status, gin.H{key: publicMessage(err)})
}

// badRequest answers 400 with a fixed message
func badRequest(c *gin.Context, key, message string) {
	respondErrorStatus(c, key, http.StatusBadRequest, &services.ValidationError{Message: message})
}
