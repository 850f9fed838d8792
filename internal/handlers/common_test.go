package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/services"

	"github.com/gin-gonic/gin"
)

func TestHandleServiceError(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", interfaces.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", interfaces.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"rate limited", services.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"driver exists", services.ErrDriverExists, http.StatusConflict},
		{"booking conflict", services.ErrBookingConflict, http.StatusConflict},
		{"illegal transition", fmt.Errorf("%w: pending -> completed", services.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"bad status", services.ErrInvalidBookingStatus, http.StatusBadRequest},
		{"bad time range", services.ErrInvalidTimeRange, http.StatusBadRequest},
		{"driver unavailable", services.ErrDriverUnavailable, http.StatusBadRequest},
		{"unknown error", errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			handleServiceError(c, "TEST", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleServiceErrorHidesInternals(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	handleServiceError(c, "TEST", errors.New("connection refused at 10.0.0.7:27017"))

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Message != "internal server error" {
		t.Errorf("message = %q, internals leaked to the client", body.Error.Message)
	}
}
