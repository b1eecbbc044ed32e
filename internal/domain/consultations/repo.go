package consultations

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	List(ctx context.Context, limit, offset int) ([]*Consultation, int, error)
	SetPrice(ctx context.Context, id uuid.UUID, price float64) error
}
