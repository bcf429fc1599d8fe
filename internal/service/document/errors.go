package document

import (
	"errors"
	"fmt"
)

// Step identifies which pipeline step a failure occurred at.
type Step string

const (
	StepAcquire  Step = "acquire"
	StepTransfer Step = "transfer"
	StepConfirm  Step = "confirm"
	StepAnalyze  Step = "analyze"
)

// ValidationError is a gate failure raised before any remote call.
type ValidationError struct {
	Reason  string // "size" or "mime_type"
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StepError reports which step of a run failed. DocumentID is non-empty when
// the acquire step had already issued one; the ID is informational only, the
// run is discarded and a retry starts over.
type StepError struct {
	Step       Step
	DocumentID string
	Err        error
}

func (e *StepError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("upload pipeline failed at step %q: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("upload pipeline failed at step %q (document %s): %v", e.Step, e.DocumentID, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the step err failed at, if err is a pipeline failure.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}

// IsValidationError reports whether err is a pre-flight gate failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
