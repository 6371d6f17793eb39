package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	ApplyDecision(ctx context.Context, l *LeaveRequest) (bool, error)
	List(ctx context.Context, filter ListLeavesFilter) ([]LeaveRequest, error)
	HasOverlappingApproved(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
}

// repository reads through GORM and writes through raw SQL so mutations
// can join the caller's *sql.Tx.
type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

// Create inserts through the transaction handle so the request and its
// outbox event commit or roll back together.
func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, employee_id, leave_type, start_date, end_date, total_days,
	reason, status, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays,
		l.Reason, l.Status, l.CreatedBy,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// FindByIDForUpdate locks the request row for the rest of the transaction
// so concurrent decisions on the same request serialize.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `
SELECT
	id, employee_id, leave_type, start_date, end_date, total_days,
	reason, status, forwarded_to, decided_by, decided_at, comment,
	created_by, created_at, updated_at
FROM leave_requests
WHERE id = $1
FOR UPDATE
`
	var (
		l           LeaveRequest
		forwardedTo uuid.NullUUID
		decidedBy   uuid.NullUUID
		decidedAt   sql.NullTime
		comment     sql.NullString
	)
	err := r.execer().QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.TotalDays,
		&l.Reason, &l.Status, &forwardedTo, &decidedBy, &decidedAt, &comment,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if forwardedTo.Valid {
		l.ForwardedTo = &forwardedTo.UUID
	}
	if decidedBy.Valid {
		l.DecidedBy = &decidedBy.UUID
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		l.DecidedAt = &t
	}
	if comment.Valid {
		c := comment.String
		l.Comment = &c
	}

	return &l, nil
}

// ApplyDecision is a compare-and-swap against PENDING: when another
// decision landed first, no row matches and the caller reports an invalid
// transition instead of silently overwriting it.
func (r *repository) ApplyDecision(ctx context.Context, l *LeaveRequest) (bool, error) {
	query := `
UPDATE leave_requests
SET
	status = $2,
	forwarded_to = $3,
	decided_by = $4,
	decided_at = $5,
	comment = $6,
	updated_at = NOW()
WHERE id = $1 AND status = $7
`
	res, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.Status, l.ForwardedTo, l.DecidedBy, l.DecidedAt, l.Comment,
		StatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) List(ctx context.Context, filter ListLeavesFilter) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ReviewerID != "" {
		q = q.Where("forwarded_to = ? OR decided_by = ?", filter.ReviewerID, filter.ReviewerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var leaves []LeaveRequest
	err := q.Order("start_date DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingApproved(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
