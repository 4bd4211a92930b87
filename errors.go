package honeybadger

import (
	"errors"
)

// Code classifies the outcome of a report attempt
type Code string

const (
	CodeSuppressed            Code = "suppressed"
	CodeNoAPIKey              Code = "no_api_key"
	CodePayloadAssemblyFailed Code = "payload_assembly_failed"
	CodeTransportFailed       Code = "transport_failed"
	CodeTooManyRequests       Code = "too_many_requests"
	CodePaymentRequired       Code = "payment_required"
	CodeForbidden             Code = "forbidden"
	CodeUnknownResponseStatus Code = "unknown_response_status"
	CodeResponseDecodeFailed  Code = "response_decode_failed"
	CodePluginFailed          Code = "plugin_failed"
)

// Sentinels for errors.Is; matching is by Code
var (
	ErrSuppressed            = &NoticeError{Op: "notify", Code: CodeSuppressed, Message: "reporting is disabled"}
	ErrNoAPIKey              = &NoticeError{Op: "notify", Code: CodeNoAPIKey, Message: "API key is missing"}
	ErrPayloadAssemblyFailed = &NoticeError{Op: "notify", Code: CodePayloadAssemblyFailed, Message: "could not assemble payload"}
	ErrTransportFailed       = &NoticeError{Op: "send", Code: CodeTransportFailed, Message: "HTTP request failed"}
	ErrTooManyRequests       = &NoticeError{Op: "send", Code: CodeTooManyRequests, Message: "project is sending too many errors"}
	ErrPaymentRequired       = &NoticeError{Op: "send", Code: CodePaymentRequired, Message: "payment is required"}
	ErrForbidden             = &NoticeError{Op: "send", Code: CodeForbidden, Message: "API key is invalid"}
	ErrUnknownResponseStatus = &NoticeError{Op: "send", Code: CodeUnknownResponseStatus, Message: "unknown response from server"}
	ErrResponseDecodeFailed  = &NoticeError{Op: "send", Code: CodeResponseDecodeFailed, Message: "could not decode response"}
	ErrPluginFailed          = &NoticeError{Op: "plugin_decorate", Code: CodePluginFailed, Message: "plugin failed"}
)

// NoticeError represents a failed or skipped report
type NoticeError struct {
	Op      string
	Code    Code
	Message string
	// HTTP status, if a response was received
	Status int
	Err    error
}

func (e *NoticeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NoticeError) Unwrap() error {
	return e.Err
}

// Is matches any NoticeError with the same Code
func (e *NoticeError) Is(target error) bool {
	t, ok := target.(*NoticeError)
	return ok && t.Code == e.Code
}

func newNoticeError(op string, code Code, message string, err error) *NoticeError {
	return &NoticeError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the Code of err, or "" if err is not a NoticeError
func CodeOf(err error) Code {
	var ne *NoticeError
	if errors.As(err, &ne) {
		return ne.Code
	}
	return ""
}
