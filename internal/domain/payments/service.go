package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway is the mobile-money provider surface the orchestrator needs.
// *mvola.Client satisfies it.
type Gateway interface {
	Authenticate(ctx context.Context) (string, error)
	SubmitMerchantPayment(ctx context.Context, token string, amount float64, payerMSISDN, correlationID string) (string, error)
}

// Service orchestrates payment capture: it reconciles the requested amount
// against the consultation price, settles cash immediately, and drives
// mobile-money requests through the gateway before recording them as
// pending.
type Service struct {
	repo    Repository
	prices  PriceSource
	gateway Gateway
	log     zerolog.Logger
}

func NewService(repo Repository, prices PriceSource, gateway Gateway, log zerolog.Logger) *Service {
	return &Service{repo: repo, prices: prices, gateway: gateway, log: log}
}

// RequestInput is a validated payment request.
type RequestInput struct {
	ConsultationID uuid.UUID
	Method         Method
	Amount         float64
	PayerMSISDN    string
}

// Request validates the payment against the consultation and records it.
// Validation runs before any gateway traffic: a request that fails
// reconciliation never debits a wallet.
func (s *Service) Request(ctx context.Context, in RequestInput) (*Payment, error) {
	if !in.Method.Valid() {
		return nil, ErrInvalidMethod
	}
	price, err := s.prices.GetPrice(ctx, in.ConsultationID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, ErrConsultationNotPriced
	}
	if in.Amount != *price {
		return nil, ErrAmountMismatch
	}
	if in.Method == MethodMobileMoney && !ValidMSISDN(in.PayerMSISDN) {
		return nil, ErrInvalidMSISDN
	}
	existing, err := s.repo.GetByConsultation(ctx, in.ConsultationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaid
	}

	if in.Method == MethodCash {
		p := &Payment{
			ConsultationID: in.ConsultationID,
			Amount:         in.Amount,
			Method:         MethodCash,
			Status:         StatusSucceeded,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	token, err := s.gateway.Authenticate(ctx)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	ref, err := s.gateway.SubmitMerchantPayment(ctx, token, in.Amount, in.PayerMSISDN, uuid.New().String())
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	p := &Payment{
		ConsultationID:    in.ConsultationID,
		Amount:            in.Amount,
		Method:            MethodMobileMoney,
		Status:            StatusPending,
		ExternalReference: &ref,
		PayerMSISDN:       &in.PayerMSISDN,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if err == ErrAlreadyPaid {
			// A concurrent writer won between our existence check and
			// the insert. The wallet debit we just initiated will
			// arrive as a callback for a reference no row carries and
			// be ignored there.
			s.log.Warn().
				Str("consultation_id", in.ConsultationID.String()).
				Str("external_reference", ref).
				Msg("dropping gateway transaction: consultation paid concurrently")
		}
		return nil, err
	}
	return p, nil
}

// Confirm applies a gateway callback. Unknown references and payments
// already settled are ignored, which makes redelivered callbacks safe.
func (s *Service) Confirm(ctx context.Context, externalRef string, outcome Outcome) error {
	status := StatusFailed
	if outcome == OutcomeCompleted {
		status = StatusSucceeded
	}
	changed, err := s.repo.SettleByExternalRef(ctx, externalRef, status)
	if err != nil {
		return err
	}
	if !changed {
		s.log.Info().
			Str("external_reference", externalRef).
			Str("outcome", string(outcome)).
			Msg("callback ignored: reference unknown or payment already settled")
		return nil
	}
	s.log.Info().
		Str("external_reference", externalRef).
		Str("status", string(status)).
		Msg("payment settled by gateway callback")
	return nil
}

// Get returns a payment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByConsultation returns the payment recorded for a consultation, or
// ErrNotFound when none exists.
func (s *Service) GetByConsultation(ctx context.Context, consultationID uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
