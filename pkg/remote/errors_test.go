package remote

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		category    Category
		forceLogout bool
		message     string // exact match when non-empty
	}{
		{
			name:     "bad request with server message",
			status:   400,
			body:     `{"message":"doctorId is required"}`,
			category: CategoryInvalidRequest,
			message:  "doctorId is required",
		},
		{
			name:     "bad request without body",
			status:   400,
			category: CategoryInvalidRequest,
			message:  "The request was invalid.",
		},
		{
			name:        "unauthorized forces logout",
			status:      401,
			category:    CategoryUnauthenticated,
			forceLogout: true,
		},
		{
			name:     "forbidden",
			status:   403,
			category: CategoryForbidden,
			message:  "You do not have permission to access this resource.",
		},
		{
			name:     "not found",
			status:   404,
			category: CategoryNotFound,
		},
		{
			name:     "validation without field list",
			status:   422,
			category: CategoryValidationFailed,
			message:  "Some fields failed validation.",
		},
		{
			name:     "internal server error",
			status:   500,
			category: CategoryServerError,
			message:  "The server is temporarily unavailable. Please try again later.",
		},
		{
			name:     "service unavailable",
			status:   503,
			category: CategoryServerError,
		},
		{
			name:     "teapot falls back to generic http error",
			status:   418,
			category: CategoryHTTP,
			message:  "Request failed with status 418.",
		},
		{
			name:     "unknown status uses server detail",
			status:   409,
			body:     `{"detail":"appointment already approved"}`,
			category: CategoryHTTP,
			message:  "appointment already approved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(tt.status, []byte(tt.body))
			if e.Category != tt.category {
				t.Errorf("Classify() category = %s, want %s", e.Category, tt.category)
			}
			if e.ForceLogout != tt.forceLogout {
				t.Errorf("Classify() forceLogout = %v, want %v", e.ForceLogout, tt.forceLogout)
			}
			if tt.message != "" && e.Message != tt.message {
				t.Errorf("Classify() message = %q, want %q", e.Message, tt.message)
			}
			if e.StatusCode != tt.status {
				t.Errorf("Classify() status = %d, want %d", e.StatusCode, tt.status)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	body := []byte(`{"message":"access denied to patient documents"}`)

	first := Classify(403, body)
	second := Classify(403, body)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classifying the same response twice differed: %+v vs %+v", first, second)
	}
}

func TestClassifyValidationAggregatesFields(t *testing.T) {
	body := []byte(`{"errors":{"reason":["must not be empty"],"doctorId":["unknown doctor"]}}`)

	e := Classify(422, body)

	if e.Category != CategoryValidationFailed {
		t.Fatalf("category = %s, want %s", e.Category, CategoryValidationFailed)
	}
	want := []string{"doctorId: unknown doctor", "reason: must not be empty"}
	if !reflect.DeepEqual(e.Fields, want) {
		t.Errorf("fields = %v, want %v", e.Fields, want)
	}
	if e.Message != "doctorId: unknown doctor; reason: must not be empty" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestClassifyTransport(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	e := ClassifyTransport(cause)

	if e.Category != CategoryNetworkUnreachable {
		t.Errorf("category = %s, want %s", e.Category, CategoryNetworkUnreachable)
	}
	if e.ForceLogout {
		t.Error("transport failures must never force logout")
	}
	if e.StatusCode != 0 {
		t.Errorf("status = %d, want 0", e.StatusCode)
	}
	if !errors.Is(e, cause) {
		t.Error("transport cause must stay recoverable through Unwrap")
	}
}

func TestClassifyTransportDistinguishesCauses(t *testing.T) {
	timeout := context.DeadlineExceeded
	cancelled := context.Canceled

	if !errors.Is(ClassifyTransport(timeout), context.DeadlineExceeded) {
		t.Error("deadline cause lost in classification")
	}
	if errors.Is(ClassifyTransport(timeout), context.Canceled) {
		t.Error("deadline classified error must not match a cancellation")
	}
	if !errors.Is(ClassifyTransport(cancelled), context.Canceled) {
		t.Error("cancellation cause lost in classification")
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := Classify(404, nil)
	wrapped := fmt.Errorf("list appointments: %w", notFound)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() = false for wrapped 404")
	}
	if IsNotFound(Classify(403, nil)) {
		t.Error("IsNotFound() = true for 403")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("IsNotFound() = true for unclassified error")
	}
}
