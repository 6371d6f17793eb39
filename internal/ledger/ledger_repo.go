package ledger

import (
	"context"
	"database/sql"
	"errors"

	ledgererrors "go-hrms/internal/ledger/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock

// Repository mutates balance records with single conditional statements so
// concurrent debits against the same record serialize on the row and can
// never drive the remaining count negative. All mutation of leave_balances
// in the codebase goes through here.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Ensure(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, allotted decimal.Decimal) error
	Remaining(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (decimal.Decimal, error)
	Debit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Ensure creates the period record with the default allotment the first
// time a balance is needed, mirroring onboarding-time initialization.
func (r *repository) Ensure(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, allotted decimal.Decimal) error {
	query := `
INSERT INTO leave_balances (id, employee_id, leave_type, period_year, allotted_days, remaining_days)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (employee_id, leave_type, period_year) DO NOTHING
`
	_, err := r.execer().ExecContext(ctx, query, uuid.New(), employeeID, leaveType, year, allotted)
	return err
}

func (r *repository) Remaining(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (decimal.Decimal, error) {
	query := `
SELECT remaining_days
FROM leave_balances
WHERE employee_id = $1 AND leave_type = $2 AND period_year = $3
`
	var remaining decimal.Decimal
	err := r.execer().QueryRowContext(ctx, query, employeeID, leaveType, year).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledgererrors.ErrBalanceNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

// Debit decrements the remaining count and returns the new value. The
// guard in the WHERE clause is the whole point: when the balance would go
// negative no row matches, and the caller sees ErrInsufficientBalance.
func (r *repository) Debit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
	query := `
UPDATE leave_balances
SET remaining_days = remaining_days - $4, updated_at = NOW()
WHERE employee_id = $1 AND leave_type = $2 AND period_year = $3 AND remaining_days >= $4
RETURNING remaining_days
`
	var remaining decimal.Decimal
	err := r.execer().QueryRowContext(ctx, query, employeeID, leaveType, year, days).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledgererrors.ErrInsufficientBalance
	}
	if err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

// Credit restores days, clamped at the period allotment so repeated
// cancellations cannot accumulate balance beyond what was granted.
func (r *repository) Credit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
	query := `
UPDATE leave_balances
SET remaining_days = LEAST(remaining_days + $4, allotted_days), updated_at = NOW()
WHERE employee_id = $1 AND leave_type = $2 AND period_year = $3
RETURNING remaining_days
`
	var remaining decimal.Decimal
	err := r.execer().QueryRowContext(ctx, query, employeeID, leaveType, year, days).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledgererrors.ErrBalanceNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
