package appointment

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrReasonRequired = errors.New("a reason for the appointment is required")
	ErrNotCheckInable = errors.New("appointment is not accepted or has no meeting to join")
)

// TooEarlyError is returned when check-in is attempted before the window
// opens. It is a local gate failure: no remote call was made.
type TooEarlyError struct {
	ScheduledAt time.Time
	Window      time.Duration
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("check-in opens %s before the scheduled time %s",
		e.Window, e.ScheduledAt.Format(time.RFC3339))
}

// IsTooEarly reports whether err is a too-early gate failure.
func IsTooEarly(err error) bool {
	var te *TooEarlyError
	return errors.As(err, &te)
}
