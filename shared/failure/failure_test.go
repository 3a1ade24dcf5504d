package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"tourdesk/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("period_ids must not be empty")), code: http.StatusBadRequest, message: "period_ids must not be empty"},
		{name: "bad request from string", err: failure.BadRequestFromString("unknown bulk update kind"), code: http.StatusBadRequest, message: "unknown bulk update kind"},
		{name: "unauthorized", err: failure.Unauthorized("refresh token expired"), code: http.StatusUnauthorized, message: "refresh token expired"},
		{name: "internal", err: failure.InternalError(errors.New("seat counter drifted")), code: http.StatusInternalServerError, message: "seat counter drifted"},
		{name: "unimplemented", err: failure.Unimplemented("wholesaler.Poll"), code: http.StatusNotImplemented, message: "wholesaler.Poll"},
		{name: "not found", err: failure.NotFound("period not found"), code: http.StatusNotFound, message: "period not found"},
		{name: "conflict", err: failure.Conflict("only 2 seats left on period"), code: http.StatusConflict, message: "only 2 seats left on period"},
		{name: "forbidden", err: failure.Forbidden("agents cannot edit offers"), code: http.StatusForbidden, message: "agents cannot edit offers"},
		{name: "bad gateway", err: failure.BadGateway("booking events broker unavailable"), code: http.StatusBadGateway, message: "booking events broker unavailable"},
		{name: "predefined page param", err: failure.InvalidPageParam, code: http.StatusBadRequest, message: "invalid page parameter"},
		{name: "predefined restricted resource", err: failure.ResourceRestrictedError, code: http.StatusForbidden, message: "You don't have permission to access this resource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			if !errors.As(tt.err, &f) {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, f.Code)
			}

			if f.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, f.Error())
			}
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	if err := failure.InternalError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{name: "failure", input: failure.Conflict("capacity cannot be lower than booked seats"), expected: http.StatusConflict},
		{name: "wrapped failure", input: fmt.Errorf("failed to apply bulk update: %w", failure.NotFound("period not found")), expected: http.StatusNotFound},
		{name: "plain error", input: errors.New("pq: connection refused"), expected: http.StatusInternalServerError},
		{name: "nil", input: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.input); got != tt.expected {
				t.Errorf("expected code %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWithDetails(t *testing.T) {
	type allocation struct {
		TotalPassengers int `json:"total_passengers"`
		RoomCapacity    int `json:"room_capacity"`
		Overage         int `json:"overage"`
	}

	details := allocation{TotalPassengers: 3, RoomCapacity: 4, Overage: 1}
	err := fmt.Errorf("failed to price booking: %w",
		failure.WithDetails(http.StatusBadRequest, "room count exceeds traveler count by 1", details))

	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	got, ok := failure.GetDetails(err).(allocation)
	if !ok || got != details {
		t.Errorf("expected allocation details to survive wrapping, got %v", failure.GetDetails(err))
	}

	if failure.GetDetails(failure.NotFound("booking not found")) != nil {
		t.Error("expected no details on a plain failure")
	}

	if failure.GetDetails(errors.New("plain")) != nil {
		t.Error("expected no details for plain errors")
	}
}
