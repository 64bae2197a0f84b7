package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mystic-tours/service-booking/internal/domain"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errBody    `json:"error,omitempty"`
	Meta    *meta       `json:"meta,omitempty"`
}

type errBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    items,
		Meta:    &meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: &errBody{Message: message}})
}

// Error maps a domain error to its HTTP status. Validation errors carry the
// field map so forms can surface per-field messages; partial failures are
// deliberately reported as a generic failure — the detail stays in the server
// log, and the caller must not retry.
func Error(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Error:   &errBody{Message: "validation failed", Fields: validationErr.Fields},
		})
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Error: &errBody{Message: notFoundErr.Error()}})
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, envelope{Success: false, Error: &errBody{Message: conflictErr.Error()}})
		return
	}

	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusUnprocessableEntity, envelope{Success: false, Error: &errBody{Message: stateErr.Error()}})
		return
	}

	var forbiddenErr *domain.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		c.JSON(http.StatusForbidden, envelope{Success: false, Error: &errBody{Message: forbiddenErr.Error()}})
		return
	}

	var partialErr *domain.PartialFailureError
	if errors.As(err, &partialErr) {
		c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: &errBody{Message: "action failed"}})
		return
	}

	c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: &errBody{Message: "internal server error"}})
}
