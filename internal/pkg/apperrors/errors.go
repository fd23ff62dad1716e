package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// ErrPreconditionFailed marks a request that is well formed but not allowed
	// in the current state of the resource.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrUpstream wraps failures of outbound collaborators (LLM, brokers).
	ErrUpstream = errors.New("upstream failure")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Series and instance errors
var (
	ErrSeriesNotFound    = NewResourceNotFoundError("Recurring series not found")
	ErrEventNotFound     = NewResourceNotFoundError("Event not found")
	ErrNotSeriesOwner    = NewForbiddenError("Only the series creator can manage this series")
	ErrNotEventOrganizer = NewForbiddenError("Only the event organizers can manage this event")

	ErrSeriesInactive    = NewPreconditionError("Series is not active")
	ErrSeriesCapReached  = NewPreconditionError("Maximum number of instances reached")
	ErrSeriesEnded       = NewPreconditionError("Series end date has passed")
	ErrNoAnchorInstance  = NewPreconditionError("No previous instance found for this series")
	ErrInstanceDuplicate = NewConflictError("Instance number already exists for this series")
)

// Registration errors
var (
	ErrRegistrationNotFound      = NewResourceNotFoundError("Registration not found")
	ErrAlreadyRegisteredForEvent = NewPreconditionError("You are already registered for this event")
	ErrEventFull                 = NewPreconditionError("Event has reached its capacity")
)

// Calendar bookmark errors
var (
	ErrBookmarkNotFound = NewPreconditionError("Event is not in your calendar")
	ErrBookmarkExists   = NewPreconditionError("Event is already in your calendar")
	ErrRegisteredEvent  = NewPreconditionError("Registered events are automatically in your calendar")
	ErrOrganizerEvent   = NewPreconditionError("Events you organize are automatically in your calendar")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewPreconditionError creates a custom error for a rejected state transition.
func NewPreconditionError(message string) error {
	return &CustomError{
		Err:     ErrPreconditionFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message returns the human readable message of a CustomError anywhere in the
// chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
