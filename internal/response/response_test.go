package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewMalformedRequestError("bad"), http.StatusBadRequest},
		{domain.NewNotFoundError("User", "1"), http.StatusNotFound},
		{domain.NewRuleViolationError("Maximum adoption requests reached."), http.StatusUnprocessableEntity},
		{domain.NewConflictError("busy"), http.StatusConflict},
		{domain.NewInternalError("boom", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestError_WritesKindAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, domain.NewRuleViolationError("Maximum adoption requests reached.").With("email", "a@x.com"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"rule_violation","message":"Maximum adoption requests reached.","details":{"email":"a@x.com"}}}`, w.Body.String())
}

func TestError_HidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, domain.NewInternalError("failed to save user", errors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}
