package domain

import (
	"errors"
	"net/http"
)

// Kind groups errors by how they surface to a caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindBusinessRule
	KindConflict
)

// Error is the error type every service returns for expected failures.
// Two Errors are equal under errors.Is when their codes match, so a
// sentinel can be re-issued with a more specific message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func NewError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy carrying a caller-specific message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// Wrap returns a copy that records the underlying cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	ErrValidation             = NewError(KindValidation, "VALIDATION_ERROR", "invalid input")
	ErrAuthenticationRequired = NewError(KindAuthentication, "AUTHENTICATION_REQUIRED", "authentication required")
	ErrInvalidCredentials     = NewError(KindAuthentication, "INVALID_CREDENTIALS", "invalid email or password")
	ErrNotVerified            = NewError(KindAuthentication, "NOT_VERIFIED", "please verify your email before logging in")
	ErrAuthorizationDenied    = NewError(KindAuthorization, "AUTHORIZATION_DENIED", "unauthorized")
	ErrSellerAccessRequired   = NewError(KindAuthorization, "SELLER_ACCESS_REQUIRED", "seller access required")
	ErrNotFound               = NewError(KindNotFound, "NOT_FOUND", "not found")
	ErrUserNotFound           = NewError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrProductNotFound        = NewError(KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrCartItemNotFound       = NewError(KindNotFound, "CART_ITEM_NOT_FOUND", "cart item not found")
	ErrOrderNotFound          = NewError(KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrUserExists             = NewError(KindBusinessRule, "USER_EXISTS", "user already exists with this email")
	ErrInsufficientStock      = NewError(KindBusinessRule, "INSUFFICIENT_STOCK", "insufficient stock")
	ErrEmptyCart              = NewError(KindBusinessRule, "EMPTY_CART", "cart is empty")
	ErrInvalidOrExpiredOTP    = NewError(KindBusinessRule, "INVALID_OR_EXPIRED_OTP", "invalid or expired OTP")
	ErrInvalidTransition      = NewError(KindConflict, "INVALID_STATUS_TRANSITION", "invalid order status transition")
	ErrInternal               = NewError(KindInternal, "INTERNAL", "internal server error")
)

// HTTPStatus maps any error to the status code it should be reported with.
func HTTPStatus(err error) int {
	var de *Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.Kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the code and message safe to show a caller. Anything that
// is not a domain error collapses to the generic internal error.
func Public(err error) (code, message string) {
	var de *Error
	if !errors.As(err, &de) || de.Kind == KindInternal {
		return ErrInternal.Code, ErrInternal.Message
	}
	return de.Code, de.Message
}
