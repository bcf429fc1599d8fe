package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Category is the fixed classification of a failed backend call.
type Category string

const (
	CategoryNetworkUnreachable Category = "network_unreachable"
	CategoryInvalidRequest     Category = "invalid_request"
	CategoryUnauthenticated    Category = "unauthenticated"
	CategoryForbidden          Category = "forbidden"
	CategoryNotFound           Category = "not_found"
	CategoryValidationFailed   Category = "validation_failed"
	CategoryServerError        Category = "server_error"
	CategoryHTTP               Category = "http_error"
)

// Error is the classified form of any failed backend call. Every workflow
// surfaces failures as *Error so screens can render Message directly and act
// on ForceLogout without inspecting transport details.
type Error struct {
	StatusCode  int
	Category    Category
	Message     string
	ForceLogout bool
	Fields      []string // field-level messages aggregated from 422 bodies
	Err         error    // underlying cause for transport failures, nil otherwise
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote: %s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("remote: %s (status %d): %s", e.Category, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// errorBody models the structured error payload the backend may return.
// Every field is optional; classification falls back to generic messages.
type errorBody struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

// Classify maps an HTTP error status plus response body to a classified Error.
// It is a pure function of its inputs: the same response always classifies
// the same way.
func Classify(status int, body []byte) *Error {
	var parsed errorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &parsed)
	}

	serverMsg := parsed.Message
	if serverMsg == "" {
		serverMsg = parsed.Detail
	}

	switch status {
	case http.StatusBadRequest:
		msg := serverMsg
		if msg == "" {
			msg = "The request was invalid."
		}
		return &Error{StatusCode: status, Category: CategoryInvalidRequest, Message: msg}

	case http.StatusUnauthorized:
		return &Error{
			StatusCode:  status,
			Category:    CategoryUnauthenticated,
			Message:     "Your session has expired. Please sign in again.",
			ForceLogout: true,
		}

	case http.StatusForbidden:
		msg := serverMsg
		if msg == "" {
			msg = "You do not have permission to access this resource."
		}
		return &Error{StatusCode: status, Category: CategoryForbidden, Message: msg}

	case http.StatusNotFound:
		msg := serverMsg
		if msg == "" {
			msg = "The requested resource was not found."
		}
		return &Error{StatusCode: status, Category: CategoryNotFound, Message: msg}

	case http.StatusUnprocessableEntity:
		fields := flattenFieldErrors(parsed.Errors)
		msg := strings.Join(fields, "; ")
		if msg == "" {
			msg = serverMsg
		}
		if msg == "" {
			msg = "Some fields failed validation."
		}
		return &Error{StatusCode: status, Category: CategoryValidationFailed, Message: msg, Fields: fields}

	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return &Error{
			StatusCode: status,
			Category:   CategoryServerError,
			Message:    "The server is temporarily unavailable. Please try again later.",
		}

	default:
		msg := serverMsg
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d.", status)
		}
		return &Error{StatusCode: status, Category: CategoryHTTP, Message: msg}
	}
}

// ClassifyTransport maps a failure where no HTTP response was received. The
// original error stays recoverable through Unwrap so callers can still tell a
// timeout from a cancelled context.
func ClassifyTransport(err error) *Error {
	return &Error{
		Category: CategoryNetworkUnreachable,
		Message:  "Could not reach the server. Check your internet connection and try again.",
		Err:      err,
	}
}

func flattenFieldErrors(m map[string][]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		for _, msg := range m[k] {
			out = append(out, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	return out
}

// AsError unwraps err into a classified *Error if there is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err is a classified 404. Read flows use it to
// treat an expected absence as an empty result instead of a failure.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Category == CategoryNotFound
}

// CategoryOf returns the classification of err, or CategoryHTTP for
// unclassified errors.
func CategoryOf(err error) Category {
	if e, ok := AsError(err); ok {
		return e.Category
	}
	return CategoryHTTP
}
