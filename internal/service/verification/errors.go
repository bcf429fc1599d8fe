package verification

import "errors"

var (
	ErrCodeIncomplete = errors.New("all 6 code digits must be entered")
)
