package payments

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists payments. Implementations must enforce the one
// payment per consultation rule at the storage level, not just in the
// service: Create returns ErrAlreadyPaid when a row for the same
// consultation already exists, whichever writer got there first.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// GetByConsultation returns (nil, nil) when the consultation has no
	// payment yet.
	GetByConsultation(ctx context.Context, consultationID uuid.UUID) (*Payment, error)
	// SettleByExternalRef moves the payment identified by the gateway
	// reference from pending to the given terminal status. It reports
	// false when no pending payment carries that reference, either
	// because the reference is unknown or because the payment already
	// settled.
	SettleByExternalRef(ctx context.Context, ref string, status Status) (bool, error)
}

// PriceSource exposes the consultation price the ledger reconciles
// against. The price pointer is nil while the practitioner has not
// priced the consultation yet.
type PriceSource interface {
	GetPrice(ctx context.Context, consultationID uuid.UUID) (*float64, error)
}
