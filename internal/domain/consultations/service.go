package consultations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Consultation) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if c.PractitionerID == uuid.Nil {
		return fmt.Errorf("practitioner_id is required")
	}
	if c.Price != nil && *c.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// SetPrice assigns the billable price of a consultation. Re-pricing an
// already paid consultation never touches the payment's captured amount.
func (s *Service) SetPrice(ctx context.Context, id uuid.UUID, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.repo.SetPrice(ctx, id, price)
}
