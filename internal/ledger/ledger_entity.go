package ledger

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRecord is the per-employee day allowance for one leave type and
// accounting year. RemainingDays never goes below zero: every debit is an
// atomic conditional update, and credits are clamped at AllottedDays.
type BalanceRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_balances_employee_type_year"`
	LeaveType     string          `gorm:"type:varchar(30);not null;uniqueIndex:uq_balances_employee_type_year"`
	PeriodYear    int             `gorm:"not null;uniqueIndex:uq_balances_employee_type_year"`
	AllottedDays  decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	RemainingDays decimal.Decimal `gorm:"type:numeric(6,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BalanceRecord) TableName() string {
	return "leave_balances"
}

const defaultAllotmentDays = "20"

// DefaultAllotment is the yearly allowance granted when a balance record is
// first created, and the cap credits are clamped to.
func DefaultAllotment() decimal.Decimal {
	raw := os.Getenv("LEDGER_DEFAULT_ALLOTMENT")
	if raw == "" {
		raw = defaultAllotmentDays
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		d, _ = decimal.NewFromString(defaultAllotmentDays)
	}
	return d
}
