package remote

import "time"

// AppointmentStatus is the remote-side lifecycle state of an appointment.
// The client only ever drives pending → accepted and pending → declined;
// completed/cancelled are set by other actors and are read-only here.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusAccepted  AppointmentStatus = "accepted"
	StatusDeclined  AppointmentStatus = "declined"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment mirrors the backend wire shape. Fields the server may omit are
// pointers so absence is distinguishable from a zero value.
type Appointment struct {
	ID                 string            `json:"id"`
	PatientID          string            `json:"patientId"`
	DoctorID           string            `json:"doctorId"`
	RequestedDate      time.Time         `json:"requestedDate"`
	ScheduledAt        *time.Time        `json:"scheduledAt"`
	Status             AppointmentStatus `json:"status"`
	Reason             string            `json:"reason"`
	GrantHistoryAccess bool              `json:"grantHistoryAccess"`
	MeetingLink        *string           `json:"meetingLink"`
	MeetingPassword    *string           `json:"meetingPassword"`
	DoctorNotes        *string           `json:"doctorNotes"`
}

type CreateAppointmentRequest struct {
	DoctorID           string    `json:"doctorId"`
	RequestedDate      time.Time `json:"requestedDate"`
	Reason             string    `json:"reason"`
	GrantHistoryAccess bool      `json:"grantHistoryAccess"`
}

type ApproveAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduledAt"`
	Notes       *string   `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status"`
	Reason *string           `json:"reason,omitempty"`
}

type CreateUploadURLRequest struct {
	OwnerID   string `json:"ownerId"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// UploadTarget is the short-lived presigned destination for a byte transfer.
// The URL carries its own authorization and expires server-side; it must not
// be reused across upload attempts.
type UploadTarget struct {
	DocumentID string    `json:"documentId"`
	UploadURL  string    `json:"uploadUrl"`
	Expiry     time.Time `json:"expiry"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
