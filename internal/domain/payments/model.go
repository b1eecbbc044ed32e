package payments

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Method is how a consultation gets paid.
type Method string

const (
	MethodCash        Method = "cash"
	MethodMobileMoney Method = "mobile_money"
)

// Valid reports whether the method is one the clinic accepts.
func (m Method) Valid() bool {
	return m == MethodCash || m == MethodMobileMoney
}

// Status is the payment lifecycle state. Cash payments are created directly
// in StatusSucceeded; mobile-money payments start in StatusPending and are
// moved to a terminal state exactly once, by the gateway callback.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Outcome is the result reported by the gateway callback.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Payment maps to the payment table. At most one payment exists per
// consultation, and Amount is fixed at creation time regardless of later
// price edits on the consultation.
type Payment struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ConsultationID    uuid.UUID `db:"consultation_id" json:"consultation_id"`
	Amount            float64   `db:"amount" json:"amount"`
	Method            Method    `db:"method" json:"method"`
	Status            Status    `db:"status" json:"status"`
	ExternalReference *string   `db:"external_reference" json:"external_reference,omitempty"`
	PayerMSISDN       *string   `db:"payer_msisdn" json:"payer_msisdn,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Malagasy mobile subscriber numbers: 032/033/034/038 followed by 7 digits.
// Landline prefixes (020...) are not mobile-money wallets.
var msisdnPattern = regexp.MustCompile(`^0(32|33|34|38)\d{7}$`)

// ValidMSISDN reports whether s is a mobile number a wallet can be debited
// from.
func ValidMSISDN(s string) bool {
	return msisdnPattern.MatchString(s)
}
