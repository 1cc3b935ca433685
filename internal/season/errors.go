package season

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a workflow error
type ErrorType string

const (
	// ErrTypePermission indicates the camera could not be acquired
	ErrTypePermission ErrorType = "permission"

	// ErrTypeValidation indicates a rejected upload (type or size)
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeCapture indicates a frame or canvas failure
	ErrTypeCapture ErrorType = "capture"

	// ErrTypeAnalysis indicates the remote classification failed
	ErrTypeAnalysis ErrorType = "analysis"

	// ErrTypeOutfitFetch indicates the remote outfit matching failed
	ErrTypeOutfitFetch ErrorType = "outfit_fetch"
)

// User-facing messages shared by the collaborators.
const (
	MsgCameraUnavailable = "Could not access camera. Please check permissions."
	MsgInvalidFileType   = "Only JPG and PNG files are allowed"
	MsgFileTooLarge      = "Image size must be less than 5MB"
	MsgFileUnreadable    = "Failed to read the image file"
	MsgAnalysisFailed    = "Failed to analyze image. Please try again."
	MsgUnknownError      = "Unknown error"
	MsgOutfitsFailed     = "Could not load matching outfits"
)

// PermissionError is returned when the camera is denied or missing.
type PermissionError struct {
	Message string
	Device  string
	Cause   error
}

// Error implements the error interface
func (e *PermissionError) Error() string {
	return joinError(e.Message, e.Cause)
}

// Unwrap returns the underlying error
func (e *PermissionError) Unwrap() error { return e.Cause }

// Type returns the error category
func (e *PermissionError) Type() ErrorType { return ErrTypePermission }

// Is reports whether target is an error of the same category
func (e *PermissionError) Is(target error) bool { return sameType(ErrTypePermission, target) }

// ValidationError is returned when an uploaded file is rejected.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Type returns the error category
func (e *ValidationError) Type() ErrorType { return ErrTypeValidation }

// Is reports whether target is an error of the same category
func (e *ValidationError) Is(target error) bool { return sameType(ErrTypeValidation, target) }

// CaptureError is returned when no frame could be turned into an image.
type CaptureError struct {
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CaptureError) Error() string {
	return joinError(e.Message, e.Cause)
}

// Unwrap returns the underlying error
func (e *CaptureError) Unwrap() error { return e.Cause }

// Type returns the error category
func (e *CaptureError) Type() ErrorType { return ErrTypeCapture }

// Is reports whether target is an error of the same category
func (e *CaptureError) Is(target error) bool { return sameType(ErrTypeCapture, target) }

// AnalysisError is returned when the classification call fails, either with
// an HTTP error status or without any response at all.
type AnalysisError struct {
	// Message is what the user sees, verbatim from the service when it sent one
	Message string

	// StatusCode is zero for network-level failures
	StatusCode int

	Cause error
}

// Error returns the user-facing message only; the cause stays reachable
// through Unwrap.
func (e *AnalysisError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error { return e.Cause }

// Type returns the error category
func (e *AnalysisError) Type() ErrorType { return ErrTypeAnalysis }

// Is reports whether target is an error of the same category
func (e *AnalysisError) Is(target error) bool { return sameType(ErrTypeAnalysis, target) }

// OutfitFetchError is returned when outfit matching fails. It is never fatal
// to the result view.
type OutfitFetchError struct {
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *OutfitFetchError) Error() string {
	parts := []string{e.Message}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *OutfitFetchError) Unwrap() error { return e.Cause }

// Type returns the error category
func (e *OutfitFetchError) Type() ErrorType { return ErrTypeOutfitFetch }

// Is reports whether target is an error of the same category
func (e *OutfitFetchError) Is(target error) bool { return sameType(ErrTypeOutfitFetch, target) }

// Error constructors

// NewPermissionError creates a camera permission error with the standard message
func NewPermissionError(device string, cause error) *PermissionError {
	return &PermissionError{Message: MsgCameraUnavailable, Device: device, Cause: cause}
}

// NewValidationError creates a validation error
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NewCaptureError creates a capture error
func NewCaptureError(message string, cause error) *CaptureError {
	return &CaptureError{Message: message, Cause: cause}
}

// NewAnalysisError creates an analysis error for an HTTP failure status
func NewAnalysisError(message string, statusCode int) *AnalysisError {
	return &AnalysisError{Message: message, StatusCode: statusCode}
}

// NewNetworkAnalysisError creates an analysis error for a request that got no response
func NewNetworkAnalysisError(cause error) *AnalysisError {
	return &AnalysisError{Message: MsgAnalysisFailed, Cause: cause}
}

// NewOutfitFetchError creates an outfit fetch error
func NewOutfitFetchError(statusCode int, cause error) *OutfitFetchError {
	return &OutfitFetchError{Message: MsgOutfitsFailed, StatusCode: statusCode, Cause: cause}
}

// TypeOf returns the category of a workflow error, or "" for foreign errors
func TypeOf(err error) ErrorType {
	var typed interface{ Type() ErrorType }
	if errors.As(err, &typed) {
		return typed.Type()
	}
	return ""
}

// IsPermissionError checks if an error is a camera permission error
func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsValidationError checks if an error is an upload validation error
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsCaptureError checks if an error is a capture error
func IsCaptureError(err error) bool {
	var target *CaptureError
	return errors.As(err, &target)
}

// IsAnalysisError checks if an error is an analysis error
func IsAnalysisError(err error) bool {
	var target *AnalysisError
	return errors.As(err, &target)
}

// IsOutfitFetchError checks if an error is an outfit fetch error
func IsOutfitFetchError(err error) bool {
	var target *OutfitFetchError
	return errors.As(err, &target)
}

// sameType matches any workflow error of category t, so errors.Is works with
// a zero value such as &AnalysisError{} as target
func sameType(t ErrorType, target error) bool {
	typed, ok := target.(interface{ Type() ErrorType })
	return ok && typed.Type() == t
}

func joinError(message string, cause error) string {
	if cause == nil {
		return message
	}
	return message + ": " + cause.Error()
}

// Message returns the text shown to the user for err. Typed workflow errors
// show their message without the underlying cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		permErr    *PermissionError
		validErr   *ValidationError
		captureErr *CaptureError
		analysErr  *AnalysisError
		outfitErr  *OutfitFetchError
	)
	switch {
	case errors.As(err, &permErr):
		return permErr.Message
	case errors.As(err, &validErr):
		return validErr.Message
	case errors.As(err, &captureErr):
		return captureErr.Message
	case errors.As(err, &analysErr):
		return analysErr.Message
	case errors.As(err, &outfitErr):
		return outfitErr.Message
	default:
		return err.Error()
	}
}
