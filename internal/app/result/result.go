// Package result defines the uniform action result contract: every
// mutation endpoint responds with either {"data": ...} or {"error": ...},
// never both. Validation failures carry per-field messages alongside the
// error string.
package result

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Data        any                 `json:"data,omitempty"`
	Error       string              `json:"error,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

var ErrUnauthorized = errors.New("Unauthorized")

// NotFoundError hides whether an entity is missing or belongs to another
// organization; callers only ever see "<Entity> not found".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "Invalid fields"
}

func Invalid(fields map[string][]string) error {
	return &ValidationError{Fields: fields}
}

// LimitError marks free-tier quota rejections.
type LimitError struct {
	Message string
}

func (e *LimitError) Error() string {
	return e.Message
}

func Data(c *gin.Context, v any) {
	c.JSON(http.StatusOK, Response{Data: v})
}

// Error maps a service error to the HTTP status and uniform body.
func Error(c *gin.Context, err error) {
	var ve *ValidationError
	var nf *NotFoundError
	var le *LimitError

	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Response{Error: err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Response{Error: ve.Error(), FieldErrors: ve.Fields})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, Response{Error: nf.Error()})
	case errors.As(err, &le):
		c.JSON(http.StatusForbidden, Response{Error: le.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
	}
}
