package model

import "fmt"

// ErrorResponse is the standardised error payload returned by the API.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Error labels used in ErrorResponse.Error.
const (
	ErrLabelNotFound      = "Not Found"
	ErrLabelBadRequest    = "Bad Request"
	ErrLabelDatabase      = "Database Error"
	ErrLabelService       = "Service Error"
	ErrLabelInternalError = "Internal Server Error"
)

// NotFoundError signals that no order exists with the requested ID. Every
// operation (read, update, delete) reports a missing order with this kind.
type NotFoundError struct {
	OrderID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with ID %d not found", e.OrderID)
}

// ValidationError carries field-level validation messages produced before
// the service runs. The boundary serialises Fields directly as the 400 body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// DatabaseError wraps a storage failure during a write or delete, keeping
// the original cause for diagnostics.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ServiceError wraps a failure during a read/listing query.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error during %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
