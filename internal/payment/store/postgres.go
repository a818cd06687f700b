package store

import (
	"context"
	"database/sql"
	"fmt"

	"leasehold/internal/payment/models"
	id "leasehold/pkg/domain"
)

// Postgres persists payments in PostgreSQL. The tenant balance is derived
// from completed payments so it always matches the decrement-on-completed
// semantics of the in-memory store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const paymentsSchema = `
CREATE TABLE IF NOT EXISTS payments (
	id             TEXT PRIMARY KEY,
	tenant_id      TEXT NOT NULL,
	contract_id    TEXT NOT NULL DEFAULT '',
	amount         DOUBLE PRECISION NOT NULL,
	paid_at        TIMESTAMPTZ NOT NULL,
	method         TEXT NOT NULL,
	status         TEXT NOT NULL,
	transaction_id TEXT NOT NULL DEFAULT '',
	late_fee       DOUBLE PRECISION NOT NULL DEFAULT 0,
	period         TEXT NOT NULL,
	kind           TEXT NOT NULL,
	seq            BIGSERIAL
);
CREATE INDEX IF NOT EXISTS payments_tenant ON payments (tenant_id);
CREATE SEQUENCE IF NOT EXISTS payments_ids OWNED BY payments.id;
`

// Migrate creates the payments schema if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, paymentsSchema); err != nil {
		return fmt.Errorf("migrate payments schema: %w", err)
	}
	return nil
}

// Append inserts the payment record. A payment arriving without an ID draws
// the next "PAY<n>" from the payments_ids sequence inside the insert, so
// concurrent appends cannot mint the same ID. COALESCE evaluates lazily and
// leaves the sequence untouched when the caller supplied an ID.
func (s *Postgres) Append(ctx context.Context, payment *models.Payment) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO payments (
			id, tenant_id, contract_id, amount, paid_at, method,
			status, transaction_id, late_fee, period, kind
		)
		VALUES (
			COALESCE(NULLIF($1, ''), 'PAY' || nextval('payments_ids')),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id
	`,
		payment.ID.String(),
		payment.TenantID.String(),
		payment.ContractID.String(),
		payment.Amount,
		payment.Date,
		payment.Method,
		payment.Status,
		payment.TransactionID,
		payment.LateFee,
		payment.Period,
		payment.Kind.String(),
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, selectPayment+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *Postgres) ByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, selectPayment+` WHERE tenant_id = $1 ORDER BY seq`, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("query tenant payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// Balance derives the running balance from completed payments, zero for
// unknown tenants.
func (s *Postgres) Balance(ctx context.Context, tenantID id.TenantID) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(-amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND status = $2
	`, tenantID.String(), models.StatusCompleted).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("sum tenant balance: %w", err)
	}
	return balance, nil
}

const selectPayment = `
	SELECT id, tenant_id, contract_id, amount, paid_at, method,
	       status, transaction_id, late_fee, period, kind
	FROM payments
`

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.ContractID,
			&p.Amount,
			&p.Date,
			&p.Method,
			&p.Status,
			&p.TransactionID,
			&p.LateFee,
			&p.Period,
			&p.Kind,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}
