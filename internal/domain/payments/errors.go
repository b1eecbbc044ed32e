package payments

import (
	"errors"
	"fmt"
)

var (
	ErrConsultationNotFound  = errors.New("consultation not found")
	ErrConsultationNotPriced = errors.New("consultation has no price set")
	ErrAmountMismatch        = errors.New("amount does not match consultation price")
	ErrAlreadyPaid           = errors.New("consultation already has a payment")
	ErrInvalidMethod         = errors.New("unsupported payment method")
	ErrInvalidMSISDN         = errors.New("invalid payer msisdn")
	ErrNotFound              = errors.New("payment not found")
)

// GatewayError wraps a failure while talking to the mobile-money provider,
// so handlers can answer 502 instead of blaming the caller.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
