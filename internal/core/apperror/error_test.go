package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFactories_CodesAndStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"Validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"NotFound", NewNotFound("ticket", "abc"), CodeNotFound, http.StatusNotFound},
		{"NotFoundMsg", NewNotFoundMsg("Some tickets do not exist"), CodeNotFound, http.StatusNotFound},
		{"Conflict", NewConflict("not available"), CodeConflict, http.StatusConflict},
		{"Duplicate", NewDuplicate("already exists"), CodeDuplicate, http.StatusConflict},
		{"Unprocessable", NewUnprocessable("sold tickets"), CodeUnprocessable, http.StatusUnprocessableEntity},
		{"ConcurrentModification", NewConcurrentModification("booking", "abc"), CodeConcurrentModification, http.StatusConflict},
		{"Transient", NewTransient("busy"), CodeTransient, http.StatusServiceUnavailable},
		{"Internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"Unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"Forbidden", NewForbidden("not yours"), CodeForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestNewNotFound_Details(t *testing.T) {
	err := NewNotFound("event", "42")
	if err.Details["entity"] != "event" {
		t.Errorf("Details[entity] = %v, want event", err.Details["entity"])
	}
	if err.Details["id"] != "42" {
		t.Errorf("Details[id] = %v, want 42", err.Details["id"])
	}
}

func TestWithDetail_AccumulatesKeys(t *testing.T) {
	err := NewConflict("taken").
		WithDetail("ticketIds", []string{"a", "b"}).
		WithDetail("retryable", false)

	if len(err.Details) != 2 {
		t.Fatalf("Details has %d keys, want 2", len(err.Details))
	}
}

func TestUnwrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError should unwrap through fmt.Errorf")
	}
	if appErr.Code != CodeInternal {
		t.Errorf("Code = %s, want %s", appErr.Code, CodeInternal)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if got := GetHTTPStatus(NewValidation("x")); got != http.StatusBadRequest {
		t.Errorf("GetHTTPStatus = %d, want %d", got, http.StatusBadRequest)
	}
	if got := GetHTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus for plain error = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestCodePredicates(t *testing.T) {
	if !IsNotFound(NewNotFound("seat", 1)) {
		t.Error("IsNotFound should match CodeNotFound")
	}
	if !IsConflict(NewConflict("x")) || !IsConflict(NewDuplicate("x")) {
		t.Error("IsConflict should match both CodeConflict and CodeDuplicate")
	}
	if !IsTransient(NewTransient("x")) {
		t.Error("IsTransient should match CodeTransient")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound should not match plain errors")
	}
}
