package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Alijeyrad/simorq_mobile/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.APIConfig{BaseURL: srv.URL, Token: "test-token"})
	return c, srv
}

func TestCreateAppointmentSendsAuthAndBody(t *testing.T) {
	var (
		gotAuth      string
		gotRequestID string
		gotBody      CreateAppointmentRequest
	)

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/appointments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(Appointment{ID: "appt-1", Status: StatusPending, Reason: gotBody.Reason})
	})

	appt, err := c.CreateAppointment(context.Background(), CreateAppointmentRequest{
		DoctorID:      "doc-1",
		RequestedDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Reason:        "follow-up",
	})
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}

	if appt.Status != StatusPending {
		t.Errorf("status = %s, want pending", appt.Status)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
	if gotBody.Reason != "follow-up" {
		t.Errorf("body reason = %q", gotBody.Reason)
	}
}

func TestListAppointmentsStatusQuery(t *testing.T) {
	var gotQuery string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	status := "pending"
	if _, err := c.ListAppointments(context.Background(), &status); err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if gotQuery != "status=pending" {
		t.Errorf("query = %q, want status=pending", gotQuery)
	}

	if _, err := c.ListAppointments(context.Background(), nil); err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query without filter = %q, want empty", gotQuery)
	}
}

func TestConfirmDocumentClassifiesForbidden(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"document access not granted"}`))
	})

	err := c.ConfirmDocument(context.Background(), "doc-9")
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected classified error, got %v", err)
	}
	if e.Category != CategoryForbidden {
		t.Errorf("category = %s, want forbidden", e.Category)
	}
	if e.Message != "document access not granted" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestResetPasswordBody(t *testing.T) {
	var got map[string]string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/reset-password" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ResetPassword(context.Background(), "123456", "hunter22"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if got["token"] != "123456" || got["newPassword"] != "hunter22" {
		t.Errorf("body = %v", got)
	}
}

func TestTransportFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection will be refused

	c := New(config.APIConfig{BaseURL: srv.URL})
	_, err := c.GetAppointment(context.Background(), "appt-1")

	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected classified error, got %v", err)
	}
	if e.Category != CategoryNetworkUnreachable {
		t.Errorf("category = %s, want network_unreachable", e.Category)
	}
}

func TestBreakerOpensAfterConsecutiveServerErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(config.APIConfig{
		BaseURL: srv.URL,
		Breaker: config.BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenTimeoutSeconds: 60},
	})

	for i := 0; i < 2; i++ {
		if _, err := c.GetAppointment(context.Background(), "appt-1"); err == nil {
			t.Fatal("expected server error")
		}
	}

	// Breaker is now open: the next call fails fast without a request.
	_, err := c.GetAppointment(context.Background(), "appt-1")
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected classified error, got %v", err)
	}
	if e.Category != CategoryNetworkUnreachable {
		t.Errorf("category = %s, want network_unreachable", e.Category)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Error("open-breaker cause must stay recoverable through Unwrap")
	}
	if hits != 2 {
		t.Errorf("server hits = %d, want 2 (open breaker must not call)", hits)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := New(config.APIConfig{
		BaseURL: srv.URL,
		Breaker: config.BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenTimeoutSeconds: 60},
	})

	// 4xx responses are valid answers and must never trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := c.GetAppointment(context.Background(), "missing")
		if !IsNotFound(err) {
			t.Fatalf("call %d: expected not_found, got %v", i, err)
		}
	}
	if hits != 5 {
		t.Errorf("server hits = %d, want 5", hits)
	}
}

func TestErrorMessageFormat(t *testing.T) {
	e := Classify(403, []byte(`{"message":"nope"}`))
	if !strings.Contains(e.Error(), "403") || !strings.Contains(e.Error(), "nope") {
		t.Errorf("Error() = %q", e.Error())
	}
}
