package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinika/clinika/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const uniqueViolation = "23505"

const cols = `id, consultation_id, amount, method, status, external_reference, payer_msisdn, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.ConsultationID, &p.Amount, &p.Method, &p.Status,
		&p.ExternalReference, &p.PayerMSISDN, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the payment. The unique index on consultation_id is the
// arbiter for concurrent requests: the second insert for the same
// consultation surfaces as ErrAlreadyPaid no matter how the races interleave.
func (r *repoPG) Create(ctx context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO payment (id, consultation_id, amount, method, status, external_reference, payer_msisdn)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		p.ID, p.ConsultationID, p.Amount, p.Method, p.Status, p.ExternalReference, p.PayerMSISDN,
	).Scan(&p.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyPaid
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM payment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) GetByConsultation(ctx context.Context, consultationID uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM payment WHERE consultation_id = $1`, consultationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// SettleByExternalRef is a guarded update: the status predicate makes the
// first terminal transition win and every later callback a no-op.
func (r *repoPG) SettleByExternalRef(ctx context.Context, ref string, status Status) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE payment SET status = $2
		WHERE external_reference = $1 AND status = 'pending'`,
		ref, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// priceSourcePG reads the consultation price straight from the
// consultation table so the reconciliation check and the payment insert
// share one store.
type priceSourcePG struct{ pool *pgxpool.Pool }

func NewPriceSourcePG(pool *pgxpool.Pool) PriceSource { return &priceSourcePG{pool: pool} }

func (s *priceSourcePG) GetPrice(ctx context.Context, consultationID uuid.UUID) (*float64, error) {
	var price *float64
	err := s.pool.QueryRow(ctx,
		`SELECT price FROM consultation WHERE id = $1`, consultationID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConsultationNotFound
	}
	if err != nil {
		return nil, err
	}
	return price, nil
}
