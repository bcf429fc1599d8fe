// Package remote provides the typed HTTP client for the main backend service
// and the classifier that turns its failures into user-presentable errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/simorq_mobile/config"
)

// Client is the authenticated backend API client. All methods issue exactly
// one HTTP call; no method retries on its own.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	tracer     trace.Tracer
}

// New creates a Client from config.
func New(cfg config.APIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("simorq_mobile/remote"),
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c
}

// SetToken replaces the bearer credential, e.g. after a fresh sign-in.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.do(ctx, "appointments.create", http.MethodPost, "/appointments", req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListAppointments fetches appointments, optionally filtered by status
// server-side.
func (c *Client) ListAppointments(ctx context.Context, status *string) ([]Appointment, error) {
	path := "/appointments"
	if status != nil && *status != "" {
		path += "?status=" + url.QueryEscape(*status)
	}
	var appts []Appointment
	if err := c.do(ctx, "appointments.list", http.MethodGet, path, nil, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var appt Appointment
	if err := c.do(ctx, "appointments.get", http.MethodGet, "/appointments/"+url.PathEscape(id), nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) ApproveAppointment(ctx context.Context, id string, req ApproveAppointmentRequest) (*Appointment, error) {
	var appt Appointment
	path := "/appointments/" + url.PathEscape(id) + "/approve"
	if err := c.do(ctx, "appointments.approve", http.MethodPatch, path, req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Appointment, error) {
	var appt Appointment
	path := "/appointments/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, "appointments.update_status", http.MethodPatch, path, req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// CreateUploadURL registers a document server-side and returns the presigned
// target for the byte transfer.
func (c *Client) CreateUploadURL(ctx context.Context, req CreateUploadURLRequest) (*UploadTarget, error) {
	var target UploadTarget
	if err := c.do(ctx, "documents.upload_url", http.MethodPost, "/documents/upload-url", req, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

func (c *Client) ConfirmDocument(ctx context.Context, documentID string) error {
	path := "/documents/" + url.PathEscape(documentID) + "/confirm"
	return c.do(ctx, "documents.confirm", http.MethodPost, path, nil, nil)
}

func (c *Client) AnalyzeDocument(ctx context.Context, documentID string) error {
	path := "/documents/" + url.PathEscape(documentID) + "/analyze"
	return c.do(ctx, "documents.analyze", http.MethodPost, path, nil, nil)
}

// ---------------------------------------------------------------------------
// Password recovery
// ---------------------------------------------------------------------------

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, "auth.forgot_password", http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, code, newPassword string) error {
	req := resetPasswordRequest{Token: code, NewPassword: newPassword}
	return c.do(ctx, "auth.reset_password", http.MethodPost, "/auth/reset-password", req, nil)
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// do sends one JSON request to baseURL+path and decodes the response into out.
// Failed calls always come back as a classified *Error.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	raw, err := c.execute(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// execute performs the round trip, through the circuit breaker when one is
// configured. The breaker fails fast while open; it never re-issues a call.
func (c *Client) execute(req *http.Request) ([]byte, error) {
	fn := func() ([]byte, error) {
		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, ClassifyTransport(err)
		}
		defer res.Body.Close()

		b, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, ClassifyTransport(err)
		}
		if res.StatusCode >= 400 {
			return nil, Classify(res.StatusCode, b)
		}
		return b, nil
	}

	if c.breaker == nil {
		return fn()
	}

	raw, err := c.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &Error{
			Category: CategoryNetworkUnreachable,
			Message:  "Could not reach the server. Check your internet connection and try again.",
			Err:      err,
		}
	}
	return raw, err
}
