package domain

import "errors"

var (
	ErrEmptyCart            = errors.New("empty cart")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrOrderRequestFailed   = errors.New("order request failed")
	ErrOrderRejected        = errors.New("order rejected")
	ErrSubmissionInProgress = errors.New("submission in progress")
)

const (
	MsgEmptyCart          = "Please add items to cart before placing order"
	MsgAuthFailed         = "Failed to authenticate with order backend"
	MsgNoResponse         = "No response from server. Please check your connection."
	MsgBadRequest         = "Bad request. Please check your order data."
	MsgUnauthorized       = "Authentication failed. Please check your credentials."
	MsgEndpointNotFound   = "Order service not found. Please check the endpoint URL."
	MsgRejectedFallback   = "Failed to create order. Please try again later."
	MsgBusinessFailure    = "Failed to create order"
	MsgSubmissionInFlight = "An order is already being placed"
)

type Kind int

const (
	KindEmptyCart Kind = iota + 1
	KindAuthenticationFailed
	KindOrderRequestFailed
	KindOrderRejected
	KindSubmissionInProgress
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindAuthenticationFailed:
		return "AUTHENTICATION_FAILED"
	case KindOrderRequestFailed:
		return "ORDER_REQUEST_FAILED"
	case KindOrderRejected:
		return "ORDER_REJECTED"
	case KindSubmissionInProgress:
		return "SUBMISSION_IN_PROGRESS"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindEmptyCart:
		return ErrEmptyCart
	case KindAuthenticationFailed:
		return ErrAuthenticationFailed
	case KindOrderRequestFailed:
		return ErrOrderRequestFailed
	case KindOrderRejected:
		return ErrOrderRejected
	case KindSubmissionInProgress:
		return ErrSubmissionInProgress
	default:
		return nil
	}
}

// SubmitError is a classified submission failure. Message is safe to show to
// the user; StatusCode is set when the backend answered.
type SubmitError struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SubmitError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *SubmitError) Unwrap() error { return e.Err }

func NewEmptyCartError() *SubmitError {
	return &SubmitError{Kind: KindEmptyCart, Message: MsgEmptyCart}
}

func NewAuthError(err error) *SubmitError {
	return &SubmitError{Kind: KindAuthenticationFailed, Message: MsgAuthFailed, Err: err}
}

func NewRequestError(err error) *SubmitError {
	return &SubmitError{Kind: KindOrderRequestFailed, Message: MsgNoResponse, Err: err}
}

func NewRejectedError(status int, msg string) *SubmitError {
	return &SubmitError{Kind: KindOrderRejected, Message: msg, StatusCode: status}
}

func NewBusyError() *SubmitError {
	return &SubmitError{Kind: KindSubmissionInProgress, Message: MsgSubmissionInFlight}
}
