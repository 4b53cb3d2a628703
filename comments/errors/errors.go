package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
)

// Error kinds. A CommentError matches its kind with errors.Is.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrPhotoNotFound     = fmt.Errorf("%w: no corresponding photo found", ErrValidationFailed)
	ErrDependencyFailed  = errors.New("dependency call failed")
	ErrDatabaseOperation = errors.New("database operation failed")

	// Request errors raised at the HTTP boundary
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidRequestBody   = fmt.Errorf("%w: malformed body", ErrInvalidRequest)
	ErrMissingRequiredField = fmt.Errorf("%w: missing required field", ErrInvalidRequest)
)

// CommentError represents a comment service error with additional context
type CommentError struct {
	Code    string
	Message string
	Details string
	Kind    error
	Cause   error
}

func (e *CommentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CommentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's kind or an ancestor of it.
func (e *CommentError) Is(target error) bool {
	return e.Kind != nil && errors.Is(e.Kind, target)
}

// Error codes
const (
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodePhotoNotFound        = "PHOTO_NOT_FOUND"
	CodeDependencyFailed     = "DEPENDENCY_FAILED"
	CodeDatabaseOperation    = "DATABASE_OPERATION_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewValidationError reports a draft or query the service refuses to act on
func NewValidationError(message, details string) *CommentError {
	if message == "" {
		message = "Validation failed"
	}
	return &CommentError{
		Code:    CodeValidationFailed,
		Message: message,
		Details: details,
		Kind:    ErrValidationFailed,
	}
}

// NewInvalidRequestBodyError reports a body or query string that cannot be decoded
func NewInvalidRequestBodyError(message string) *CommentError {
	return &CommentError{
		Code:    CodeInvalidRequestBody,
		Message: message,
		Details: message,
		Kind:    ErrInvalidRequestBody,
	}
}

// NewMissingFieldError reports a required request field that was not sent
func NewMissingFieldError(fieldName string) *CommentError {
	message := fmt.Sprintf("Missing required field: %s", fieldName)
	return &CommentError{
		Code:    CodeMissingRequiredField,
		Message: message,
		Details: message,
		Kind:    ErrMissingRequiredField,
	}
}

// NewPhotoNotFoundError reports a comment targeting a photo that does not exist
func NewPhotoNotFoundError(photoID int64) *CommentError {
	return &CommentError{
		Code:    CodePhotoNotFound,
		Message: "No corresponding Photo object found",
		Details: fmt.Sprintf("photoId %d", photoID),
		Kind:    ErrPhotoNotFound,
	}
}

// WrapDependencyError wraps failures of the photo existence check
func WrapDependencyError(err error) *CommentError {
	return &CommentError{
		Code:    CodeDependencyFailed,
		Message: "Photo service call failed",
		Kind:    ErrDependencyFailed,
		Cause:   err,
	}
}

// WrapDatabaseError wraps database errors
func WrapDatabaseError(err error) *CommentError {
	return &CommentError{
		Code:    CodeDatabaseOperation,
		Message: "Database operation failed",
		Kind:    ErrDatabaseOperation,
		Cause:   err,
	}
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var ce *CommentError
	details := err.Error()
	message := ""
	if errors.As(err, &ce) {
		if ce.Details != "" {
			details = ce.Details
		}
		message = ce.Message
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		code := CodeInvalidRequest
		if ce != nil {
			code = ce.Code
		}
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    code,
			Message: orDefault(message, "Invalid request"),
			Details: details,
		})
	case errors.Is(err, ErrPhotoNotFound):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodePhotoNotFound,
			Message: "No corresponding Photo object found",
			Details: details,
		})
	case errors.Is(err, ErrValidationFailed):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: orDefault(message, "Validation failed"),
			Details: details,
		})
	case errors.Is(err, ErrDependencyFailed):
		log.ErrorWithContext(c.UserContext(), "photo service failure: %v", err)
		log.DebugStructWithContext(c.UserContext(), "photo service failure", err)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Code:    CodeDependencyFailed,
			Message: "Photo service is unavailable",
		})
	case errors.Is(err, ErrDatabaseOperation):
		log.ErrorWithContext(c.UserContext(), "database failure: %v", err)
		log.DebugStructWithContext(c.UserContext(), "database failure", err)
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeDatabaseOperation,
			Message: "Database operation failed",
		})
	default:
		log.ErrorWithContext(c.UserContext(), "unexpected error: %v", err)
		log.DebugStructWithContext(c.UserContext(), "unexpected error", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
}

// HandleInvalidRequestError handles unparseable requests with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return HandleServiceError(c, NewInvalidRequestBodyError(message))
}

// HandleMissingFieldError handles missing required field errors with 400 Bad Request
func HandleMissingFieldError(c *fiber.Ctx, fieldName string) error {
	return HandleServiceError(c, NewMissingFieldError(fieldName))
}

// FiberErrorHandler renders errors that escape handlers, such as unknown
// routes or recovered panics, in the same envelope.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternalError
		if fe.Code < http.StatusInternalServerError {
			code = CodeInvalidRequest
		}
		return c.Status(fe.Code).JSON(ErrorResponse{Code: code, Message: fe.Message})
	}
	return HandleServiceError(c, err)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
