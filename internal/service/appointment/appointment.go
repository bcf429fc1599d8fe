package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

// DefaultCheckInWindow is how far before the scheduled time a patient may
// check in to a consultation.
const DefaultCheckInWindow = 15 * time.Minute

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RequestInput struct {
	DoctorID           string
	RequestedDate      time.Time
	Reason             string
	GrantHistoryAccess bool
}

// CheckInTarget carries everything the call screen needs to join a meeting.
type CheckInTarget struct {
	AppointmentID   string
	MeetingLink     string
	MeetingPassword string
	ScheduledAt     time.Time
}

type Config struct {
	// CheckInWindow overrides DefaultCheckInWindow when positive.
	CheckInWindow time.Duration

	// Now is the clock used by the temporal filter and the check-in gate.
	// Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// API is the slice of the backend client this controller drives.
type API interface {
	CreateAppointment(ctx context.Context, req remote.CreateAppointmentRequest) (*remote.Appointment, error)
	ListAppointments(ctx context.Context, status *string) ([]remote.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*remote.Appointment, error)
	ApproveAppointment(ctx context.Context, id string, req remote.ApproveAppointmentRequest) (*remote.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, req remote.UpdateStatusRequest) (*remote.Appointment, error)
}

// Controller drives the appointment lifecycle: request, approve/decline, and
// the time-gated check-in. Every operation is a single remote call; failed
// operations are never retried automatically.
type Controller interface {
	Request(ctx context.Context, in RequestInput) (*remote.Appointment, error)
	Approve(ctx context.Context, id string, scheduledAt time.Time, notes *string) (*remote.Appointment, error)
	Decline(ctx context.Context, id string, reason *string) (*remote.Appointment, error)
	ListByStatus(ctx context.Context, status *remote.AppointmentStatus) ([]remote.Appointment, error)
	CheckIn(ctx context.Context, appt *remote.Appointment) (*CheckInTarget, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type controller struct {
	api    API
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func New(api API, cfg Config) Controller {
	c := &controller{
		api:    api,
		window: cfg.CheckInWindow,
		now:    cfg.Now,
		logger: cfg.Logger,
	}
	if c.window <= 0 {
		c.window = DefaultCheckInWindow
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *controller) Request(ctx context.Context, in RequestInput) (*remote.Appointment, error) {
	if in.Reason == "" {
		return nil, ErrReasonRequired
	}

	appt, err := c.api.CreateAppointment(ctx, remote.CreateAppointmentRequest{
		DoctorID:           in.DoctorID,
		RequestedDate:      in.RequestedDate,
		Reason:             in.Reason,
		GrantHistoryAccess: in.GrantHistoryAccess,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("appointment requested", "appointment_id", appt.ID, "doctor_id", in.DoctorID)
	return appt, nil
}

func (c *controller) Approve(ctx context.Context, id string, scheduledAt time.Time, notes *string) (*remote.Appointment, error) {
	appt, err := c.api.ApproveAppointment(ctx, id, remote.ApproveAppointmentRequest{
		ScheduledAt: scheduledAt,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("appointment approved", "appointment_id", id, "scheduled_at", scheduledAt)
	return appt, nil
}

func (c *controller) Decline(ctx context.Context, id string, reason *string) (*remote.Appointment, error) {
	appt, err := c.api.UpdateAppointmentStatus(ctx, id, remote.UpdateStatusRequest{
		Status: remote.StatusDeclined,
		Reason: reason,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("appointment declined", "appointment_id", id)
	return appt, nil
}

// ListByStatus fetches appointments and applies the client-side temporal
// post-filter: accepted appointments whose scheduled time has already passed
// are dropped, while pending and declined ones are always kept for history.
// A remote 404 is an expected absence and yields an empty list, not an error.
func (c *controller) ListByStatus(ctx context.Context, status *remote.AppointmentStatus) ([]remote.Appointment, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}

	appts, err := c.api.ListAppointments(ctx, filter)
	if err != nil {
		if remote.IsNotFound(err) {
			return []remote.Appointment{}, nil
		}
		return nil, err
	}

	now := c.now()
	out := make([]remote.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status == remote.StatusAccepted && a.ScheduledAt != nil && a.ScheduledAt.Before(now) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// CheckIn gates joining a consultation: only an accepted appointment with a
// provisioned meeting may be joined, and only within the check-in window
// before its scheduled time. Too-early attempts never reach the network.
// Once the gate passes, the appointment is re-fetched so the join uses
// current meeting metadata.
func (c *controller) CheckIn(ctx context.Context, appt *remote.Appointment) (*CheckInTarget, error) {
	if appt == nil || appt.Status != remote.StatusAccepted || appt.ScheduledAt == nil || appt.MeetingLink == nil {
		return nil, ErrNotCheckInable
	}

	now := c.now()
	if appt.ScheduledAt.Sub(now) > c.window {
		return nil, &TooEarlyError{ScheduledAt: *appt.ScheduledAt, Window: c.window}
	}

	fresh, err := c.api.GetAppointment(ctx, appt.ID)
	if err != nil {
		return nil, err
	}
	if fresh.Status != remote.StatusAccepted || fresh.ScheduledAt == nil || fresh.MeetingLink == nil {
		return nil, ErrNotCheckInable
	}

	target := &CheckInTarget{
		AppointmentID: fresh.ID,
		MeetingLink:   *fresh.MeetingLink,
		ScheduledAt:   *fresh.ScheduledAt,
	}
	if fresh.MeetingPassword != nil {
		target.MeetingPassword = *fresh.MeetingPassword
	}

	c.logger.Info("check-in allowed", "appointment_id", fresh.ID, "scheduled_at", *fresh.ScheduledAt)
	return target, nil
}
