package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nf, ok := err.(*NotFoundError); ok {
		return nf, true
	}
	return nil, false
}

// DuplicateItemError is returned when a cart already holds an active entry
// for the same (user, item) pair. Duplicates are rejected, never merged.
type DuplicateItemError struct {
	Message string
}

func (e *DuplicateItemError) Error() string {
	return e.Message
}

func NewDuplicateItemError(message string) *DuplicateItemError {
	return &DuplicateItemError{Message: message}
}

func IsDuplicateItemError(err error) (*DuplicateItemError, bool) {
	if de, ok := err.(*DuplicateItemError); ok {
		return de, true
	}
	return nil, false
}

type OutOfRangeError struct {
	Message string
}

func (e *OutOfRangeError) Error() string {
	return e.Message
}

func NewOutOfRangeError(message string) *OutOfRangeError {
	return &OutOfRangeError{Message: message}
}

func IsOutOfRangeError(err error) (*OutOfRangeError, bool) {
	if oe, ok := err.(*OutOfRangeError); ok {
		return oe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

type InvalidStatusTransitionError struct {
	Message string
}

func (e *InvalidStatusTransitionError) Error() string {
	return e.Message
}

func NewInvalidStatusTransitionError(message string) *InvalidStatusTransitionError {
	return &InvalidStatusTransitionError{Message: message}
}

func IsInvalidStatusTransitionError(err error) (*InvalidStatusTransitionError, bool) {
	if te, ok := err.(*InvalidStatusTransitionError); ok {
		return te, true
	}
	return nil, false
}

// GatewayError carries the payment gateway's failure reason verbatim.
type GatewayError struct {
	Reason string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway rejected the session: %s", e.Reason)
}

func NewGatewayError(reason string) *GatewayError {
	return &GatewayError{Reason: reason}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	if ge, ok := err.(*GatewayError); ok {
		return ge, true
	}
	return nil, false
}

type GatewayUnreachableError struct {
	Message string
	Cause   error
}

func (e *GatewayUnreachableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GatewayUnreachableError) Unwrap() error {
	return e.Cause
}

func NewGatewayUnreachableError(message string, cause error) *GatewayUnreachableError {
	return &GatewayUnreachableError{Message: message, Cause: cause}
}

func IsGatewayUnreachableError(err error) (*GatewayUnreachableError, bool) {
	if ge, ok := err.(*GatewayUnreachableError); ok {
		return ge, true
	}
	return nil, false
}

type GatewayTimeoutError struct {
	Message string
}

func (e *GatewayTimeoutError) Error() string {
	return e.Message
}

func NewGatewayTimeoutError(message string) *GatewayTimeoutError {
	return &GatewayTimeoutError{Message: message}
}

func IsGatewayTimeoutError(err error) (*GatewayTimeoutError, bool) {
	if ge, ok := err.(*GatewayTimeoutError); ok {
		return ge, true
	}
	return nil, false
}

type OrderNumberCollisionError struct {
	Message string
}

func (e *OrderNumberCollisionError) Error() string {
	return e.Message
}

func NewOrderNumberCollisionError(message string) *OrderNumberCollisionError {
	return &OrderNumberCollisionError{Message: message}
}

func IsOrderNumberCollisionError(err error) (*OrderNumberCollisionError, bool) {
	if oe, ok := err.(*OrderNumberCollisionError); ok {
		return oe, true
	}
	return nil, false
}

type OrderPersistenceError struct {
	Message string
	Cause   error
}

func (e *OrderPersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *OrderPersistenceError) Unwrap() error {
	return e.Cause
}

func NewOrderPersistenceError(message string, cause error) *OrderPersistenceError {
	return &OrderPersistenceError{Message: message, Cause: cause}
}

func IsOrderPersistenceError(err error) (*OrderPersistenceError, bool) {
	if oe, ok := err.(*OrderPersistenceError); ok {
		return oe, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
