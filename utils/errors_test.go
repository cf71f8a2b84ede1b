package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondAppError(c, err)
	return w
}

func TestRespondAppErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewValidationError("product %d not found", 7), http.StatusBadRequest},
		{&StateTransitionError{From: "delivered", To: "cancelled"}, http.StatusBadRequest},
		{NewConflictError(errors.New("duplicate key"), "order number already taken"), http.StatusConflict},
		{NewNotFoundError("order", 42), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := respond(tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}

func TestRespondAppErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating order: %w", NewValidationError("table 9 not found"))
	w := respond(wrapped)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStateTransitionErrorNamesThePair(t *testing.T) {
	err := &StateTransitionError{From: "delivered", To: "cancelled"}
	assert.Contains(t, err.Error(), "delivered")
	assert.Contains(t, err.Error(), "cancelled")
}
