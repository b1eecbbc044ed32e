package consultations

import (
	"time"

	"github.com/google/uuid"
)

// Consultation maps to the consultation table. Price stays NULL until the
// practitioner bills the encounter; an unpriced consultation cannot be paid.
type Consultation struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	Reason         *string   `db:"reason" json:"reason,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	Price          *float64  `db:"price" json:"price,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Priced reports whether the consultation has a billable price.
func (c *Consultation) Priced() bool {
	return c.Price != nil
}
