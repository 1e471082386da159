package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes returned by the invitation ledger and opportunity guard.
// Business-rule codes are expected, user-recoverable outcomes; only
// INTERNAL_ERROR represents a system failure.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeAlreadyConnected   = "ALREADY_CONNECTED"
	CodeDuplicatePending   = "DUPLICATE_PENDING"
	CodePendingFromOther   = "PENDING_FROM_OTHER"
	CodeRetryBlockedScoped = "RETRY_BLOCKED_SCOPED"
	CodeRetryBlockedGlobal = "RETRY_BLOCKED_GLOBAL"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewAlreadyConnectedError reports that the pair already shares an accepted
// invitation, so no further invitations are possible between them.
func NewAlreadyConnectedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyConnected,
		Message: "You are already collaborating with this member",
	}
}

// NewDuplicatePendingError reports an unresolved invitation the requester
// already sent to this target. sameOpportunity selects the message wording.
func NewDuplicatePendingError(sameOpportunity bool) *AppError {
	msg := "You already have a pending invitation to this member for another opportunity"
	if sameOpportunity {
		msg = "You already sent an invitation for this opportunity"
	}
	return &AppError{
		Code:    CodeDuplicatePending,
		Message: msg,
	}
}

// NewPendingFromOtherError reports that the target already invited the
// requester; the requester should answer that invitation instead.
func NewPendingFromOtherError() *AppError {
	return &AppError{
		Code:    CodePendingFromOther,
		Message: "This member already sent you an invitation - check your inbox to respond",
	}
}

// NewRetryBlockedScopedError reports a declined opportunity-scoped
// invitation; only resubmission for that same opportunity is blocked.
func NewRetryBlockedScopedError() *AppError {
	return &AppError{
		Code:    CodeRetryBlockedScoped,
		Message: "This member already declined your invitation for this opportunity",
	}
}

// NewRetryBlockedGlobalError reports a declined invitation from the
// requester to the target; any further request to that member is blocked.
func NewRetryBlockedGlobalError() *AppError {
	return &AppError{
		Code:    CodeRetryBlockedGlobal,
		Message: "This member already declined an invitation from you",
	}
}

// NewLimitExceededError reports that the owner hit the active listing cap.
func NewLimitExceededError(limit int) *AppError {
	return &AppError{
		Code:    CodeLimitExceeded,
		Message: fmt.Sprintf("You can have at most %d active opportunities - close one first", limit),
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
