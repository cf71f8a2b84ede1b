package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps the error taxonomy to HTTP status codes:
// validation/transition -> 400, conflict -> 409, not found -> 404,
// anything else -> 500.
func RespondAppError(c *gin.Context, err error) {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		transitionErr *StateTransitionError
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &transitionErr):
		RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &conflictErr):
		RespondError(c, http.StatusConflict, err)
	case errors.As(err, &notFoundErr):
		RespondError(c, http.StatusNotFound, err)
	default:
		ErrorLogger.Errorf("internal error: %v", err)
		RespondError(c, http.StatusInternalServerError, err)
	}
}
