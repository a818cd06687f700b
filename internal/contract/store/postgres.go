package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"leasehold/internal/contract/models"
	id "leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Postgres persists rental contracts in PostgreSQL. ID allocation and the
// one-valid-contract-per-property rule mirror the in-memory store; the
// property index is a partial unique index on contracts valid at insert time.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const contractsSchema = `
CREATE TABLE IF NOT EXISTS contracts (
	id               TEXT PRIMARY KEY,
	property_id      TEXT NOT NULL,
	tenant_id        TEXT NOT NULL,
	owner_id         TEXT NOT NULL,
	start_date       TIMESTAMPTZ NOT NULL,
	end_date         TIMESTAMPTZ NOT NULL,
	monthly_rent     DOUBLE PRECISION NOT NULL,
	security_deposit DOUBLE PRECISION NOT NULL,
	payment_terms    TEXT NOT NULL,
	active           BOOLEAN NOT NULL,
	indexed          BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS contracts_property_indexed
	ON contracts (property_id) WHERE indexed;
CREATE INDEX IF NOT EXISTS contracts_tenant ON contracts (tenant_id);
CREATE SEQUENCE IF NOT EXISTS contracts_ids OWNED BY contracts.id;
`

// Migrate creates the contracts schema if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, contractsSchema); err != nil {
		return fmt.Errorf("migrate contracts schema: %w", err)
	}
	return nil
}

// CreateIfPropertyFree inserts the contract unless the property already has
// a contract that is valid at now. A contract arriving without an ID draws
// the next "CNTR<n>" from the contracts_ids sequence inside the insert, so
// concurrent creations cannot mint the same ID. The check and insert run in
// one transaction so concurrent inserts for the same property cannot both
// pass.
func (s *Postgres) CreateIfPropertyFree(ctx context.Context, contract *models.RentalContract, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create contract: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM contracts
		WHERE property_id = $1 AND indexed
		  AND active AND start_date <= $2 AND end_date >= $2
		FOR UPDATE
	`, contract.PropertyID.String(), now).Scan(&existing)
	switch {
	case err == nil:
		return sentinel.ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check property contract: %w", err)
	}

	// A superseded contract gives up the index slot to the new one.
	if _, err := tx.ExecContext(ctx,
		`UPDATE contracts SET indexed = FALSE WHERE property_id = $1 AND indexed`,
		contract.PropertyID.String()); err != nil {
		return fmt.Errorf("release property index: %w", err)
	}

	// COALESCE evaluates lazily, so the sequence only advances when the
	// caller left the ID empty.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO contracts (
			id, property_id, tenant_id, owner_id, start_date, end_date,
			monthly_rent, security_deposit, payment_terms, active, indexed, created_at
		)
		VALUES (
			COALESCE(NULLIF($1, ''), 'CNTR' || nextval('contracts_ids')),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11
		)
		RETURNING id
	`,
		contract.ID.String(),
		contract.PropertyID.String(),
		contract.TenantID.String(),
		contract.OwnerID.String(),
		contract.StartDate,
		contract.EndDate,
		contract.MonthlyRent,
		contract.SecurityDeposit,
		contract.PaymentTerms,
		contract.Active,
		contract.CreatedAt,
	).Scan(&contract.ID)
	if err != nil {
		// Two racing inserts can both pass the FOR UPDATE check before
		// either commits; the partial unique index catches the loser.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create contract: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, contractID id.ContractID) (*models.RentalContract, error) {
	row := s.db.QueryRowContext(ctx, selectContract+` WHERE id = $1`, contractID.String())
	return scanContract(row)
}

// FindByProperty returns the contract currently holding the property index
// slot, whatever its state.
func (s *Postgres) FindByProperty(ctx context.Context, propertyID id.PropertyID) (*models.RentalContract, error) {
	row := s.db.QueryRowContext(ctx, selectContract+` WHERE property_id = $1 AND indexed`, propertyID.String())
	return scanContract(row)
}

// Terminate deactivates the contract and unconditionally releases the index
// slot for its property, even if a newer contract holds it.
func (s *Postgres) Terminate(ctx context.Context, contractID id.ContractID) (*models.RentalContract, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin terminate contract: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectContract+` WHERE id = $1 FOR UPDATE`, contractID.String())
	contract, err := scanContract(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE contracts SET active = FALSE WHERE id = $1`, contractID.String()); err != nil {
		return nil, fmt.Errorf("deactivate contract: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE contracts SET indexed = FALSE WHERE property_id = $1 AND indexed`,
		contract.PropertyID.String()); err != nil {
		return nil, fmt.Errorf("release property index: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit terminate contract: %w", err)
	}
	contract.Terminate()
	return contract, nil
}

// Execute loads the contract, runs validate, applies the mutation and saves
// the mutable fields, all inside one transaction.
func (s *Postgres) Execute(ctx context.Context, contractID id.ContractID, validate func(*models.RentalContract) error, apply func(*models.RentalContract)) (*models.RentalContract, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin contract update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectContract+` WHERE id = $1 FOR UPDATE`, contractID.String())
	contract, err := scanContract(row)
	if err != nil {
		return nil, err
	}
	if err := validate(contract); err != nil {
		return nil, err
	}
	apply(contract)

	_, err = tx.ExecContext(ctx, `
		UPDATE contracts
		SET monthly_rent = $2, security_deposit = $3, payment_terms = $4, active = $5, end_date = $6
		WHERE id = $1
	`,
		contract.ID.String(),
		contract.MonthlyRent,
		contract.SecurityDeposit,
		contract.PaymentTerms,
		contract.Active,
		contract.EndDate,
	)
	if err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contract update: %w", err)
	}
	return contract, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.RentalContract, error) {
	rows, err := s.db.QueryContext(ctx, selectContract+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()
	return scanContracts(rows)
}

func (s *Postgres) HistoryByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.RentalContract, error) {
	rows, err := s.db.QueryContext(ctx, selectContract+` WHERE tenant_id = $1 ORDER BY created_at`, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("query tenant contracts: %w", err)
	}
	defer rows.Close()
	return scanContracts(rows)
}

const selectContract = `
	SELECT id, property_id, tenant_id, owner_id, start_date, end_date,
	       monthly_rent, security_deposit, payment_terms, active, created_at
	FROM contracts
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*models.RentalContract, error) {
	var c models.RentalContract
	err := row.Scan(
		&c.ID,
		&c.PropertyID,
		&c.TenantID,
		&c.OwnerID,
		&c.StartDate,
		&c.EndDate,
		&c.MonthlyRent,
		&c.SecurityDeposit,
		&c.PaymentTerms,
		&c.Active,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	return &c, nil
}

func scanContracts(rows *sql.Rows) ([]*models.RentalContract, error) {
	var contracts []*models.RentalContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return contracts, nil
}
