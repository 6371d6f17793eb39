package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	ledgererrors "go-hrms/internal/ledger/errors"

	"go-hrms/internal/leave"
	"go-hrms/internal/ledger"
	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn                 func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn               func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByIDForUpdateFn      func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	applyDecisionFn          func(ctx context.Context, l *leave.LeaveRequest) (bool, error)
	listFn                   func(ctx context.Context, filter leave.ListLeavesFilter) ([]leave.LeaveRequest, error)
	hasOverlappingApprovedFn func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLeaveRepository) ApplyDecision(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
	if f.applyDecisionFn != nil {
		return f.applyDecisionFn(ctx, l)
	}
	return true, nil
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.ListLeavesFilter) ([]leave.LeaveRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) HasOverlappingApproved(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingApprovedFn != nil {
		return f.hasOverlappingApprovedFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

type fakeLedgerRepository struct {
	ensureFn    func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, allotted decimal.Decimal) error
	remainingFn func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (decimal.Decimal, error)
	debitFn     func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error)
	creditFn    func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error)
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) ledger.Repository { return f }

func (f *fakeLedgerRepository) Ensure(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, allotted decimal.Decimal) error {
	if f.ensureFn != nil {
		return f.ensureFn(ctx, employeeID, leaveType, year, allotted)
	}
	return nil
}

func (f *fakeLedgerRepository) Remaining(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (decimal.Decimal, error) {
	if f.remainingFn != nil {
		return f.remainingFn(ctx, employeeID, leaveType, year)
	}
	return decimal.NewFromInt(20), nil
}

func (f *fakeLedgerRepository) Debit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
	if f.debitFn != nil {
		return f.debitFn(ctx, employeeID, leaveType, year, days)
	}
	return decimal.NewFromInt(20).Sub(days), nil
}

func (f *fakeLedgerRepository) Credit(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
	if f.creditFn != nil {
		return f.creditFn(ctx, employeeID, leaveType, year, days)
	}
	return decimal.NewFromInt(20), nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeDirectory struct {
	employees map[string]*employee.Employee
}

func (f *fakeDirectory) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if emp, ok := f.employees[id]; ok {
		return emp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeReviewerChecker struct {
	canReviewFn func(employeeID string) (bool, error)
}

func (f *fakeReviewerChecker) CanReview(employeeID string) (bool, error) {
	if f.canReviewFn != nil {
		return f.canReviewFn(employeeID)
	}
	return true, nil
}

type fakeBalanceInvalidator struct {
	calls []string
}

func (f *fakeBalanceInvalidator) Invalidate(ctx context.Context, employeeID, leaveType string, year int) {
	f.calls = append(f.calls, employeeID)
}

type leaveServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	ledger    *fakeLedgerRepository
	outbox    *fakeOutboxRepository
	directory *fakeDirectory
	reviewers *fakeReviewerChecker
	balances  *fakeBalanceInvalidator
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &leaveServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      &fakeLeaveRepository{},
		ledger:    &fakeLedgerRepository{},
		outbox:    &fakeOutboxRepository{},
		directory: &fakeDirectory{employees: map[string]*employee.Employee{}},
		reviewers: &fakeReviewerChecker{},
		balances:  &fakeBalanceInvalidator{},
	}
	deps.service = leave.NewService(
		db, deps.repo, deps.ledger, deps.outbox,
		deps.directory, deps.reviewers, deps.balances,
		decimal.NewFromInt(20),
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *leaveServiceDeps) addEmployee(supervisorID *uuid.UUID) *employee.Employee {
	emp := &employee.Employee{
		ID:           uuid.New(),
		FullName:     "Ana Pramesti",
		Email:        "ana@example.com",
		SupervisorID: supervisorID,
	}
	d.directory.employees[emp.ID.String()] = emp
	return emp
}

func pendingRequest(employeeID uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  "ANNUAL",
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		TotalDays:  5,
		Status:     leave.StatusPending,
		CreatedBy:  employeeID,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	supervisorID := uuid.New()

	t.Run("success counts calendar days inclusive", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(&supervisorID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, emp.ID, l.EmployeeID)
			assert.Equal(t, 5, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		// Monday through Friday
		resp, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
			Reason:    "Family event",
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveSubmitted, deps.outbox.created[0].EventType)
		assert.Equal(t, events.LeaveNotificationsTopic, deps.outbox.created[0].Topic)

		var evt events.LeaveNotificationEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &evt))
		assert.Equal(t, supervisorID.String(), evt.RecipientID)
		assert.Equal(t, deps.outbox.created[0].ID, evt.EventID)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("single day request costs one day", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "SICK",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-02",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no supervisor means no notification", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.NoError(t, err)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(&supervisorID)

		expectTx(t, deps.sqlMock, false)
		deps.ledger.remainingFn = func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (decimal.Decimal, error) {
			return decimal.NewFromInt(2), nil
		}

		_, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlapping approved leave rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(&supervisorID)

		deps.repo.hasOverlappingApprovedFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)

		_, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-06",
			EndDate:   "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("bad date format rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)

		_, err := deps.service.Submit(ctx, emp.ID.String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "03/02/2026",
			EndDate:   "2026-03-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("unknown employee rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, uuid.New().String(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
	})
}

func TestLeaveService_Decide_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success debits exactly the request days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		actor := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			assert.Equal(t, req.ID.String(), id)
			return req, nil
		}

		var debited decimal.Decimal
		deps.ledger.debitFn = func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
			assert.Equal(t, emp.ID, employeeID)
			assert.Equal(t, 2026, year)
			debited = days
			return decimal.NewFromInt(20).Sub(days), nil
		}

		resp, err := deps.service.Decide(ctx, req.ID.String(), actor.String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.True(t, decimal.NewFromInt(5).Equal(debited))
		assert.Equal(t, actor.String(), *resp.DecidedBy)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveApproved, deps.outbox.created[0].EventType)

		// cache invalidation happens after commit
		assert.Equal(t, []string{emp.ID.String()}, deps.balances.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already decided request conflicts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		req.Status = leave.StatusApproved

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		debitCalled := false
		deps.ledger.debitFn = func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
			debitCalled = true
			return decimal.Zero, nil
		}

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.False(t, debitCalled)
		assert.Empty(t, deps.balances.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("lost update race conflicts and rolls back the debit", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}
		deps.repo.applyDecisionFn = func(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.Empty(t, deps.balances.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient balance at approval surfaces", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}
		deps.ledger.debitFn = func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
			return decimal.Zero, ledgererrors.ErrInsufficientBalance
		}

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown leave id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Decide(ctx, uuid.New().String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Decide_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps the balance untouched", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		actor := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		debitCalled := false
		deps.ledger.debitFn = func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int, days decimal.Decimal) (decimal.Decimal, error) {
			debitCalled = true
			return decimal.Zero, nil
		}

		resp, err := deps.service.Decide(ctx, req.ID.String(), actor.String(), leave.DecisionRequest{
			Decision: "reject",
			Comment:  "Team is short staffed that week",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.False(t, debitCalled)
		assert.Empty(t, deps.balances.calls)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveRejected, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("comment required", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "reject",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrCommentRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Decide_Forward(t *testing.T) {
	ctx := context.Background()

	t.Run("success reassigns and stays pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		target := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		actor := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		targetID := target.ID.String()
		resp, err := deps.service.Decide(ctx, req.ID.String(), actor.String(), leave.DecisionRequest{
			Decision:  "forward",
			ForwardTo: &targetID,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, targetID, *resp.ForwardedTo)
		assert.Nil(t, resp.DecidedBy)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveForwarded, deps.outbox.created[0].EventType)

		var evt events.LeaveNotificationEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &evt))
		assert.Equal(t, targetID, evt.RecipientID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("only the assigned reviewer may decide after forwarding", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		assigned := uuid.New()
		req := pendingRequest(emp.ID)
		req.ForwardedTo = &assigned

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision: "approve",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotAssignedReviewer)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("forward to self rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		actor := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		self := actor.String()
		_, err := deps.service.Decide(ctx, req.ID.String(), actor.String(), leave.DecisionRequest{
			Decision:  "forward",
			ForwardTo: &self,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidForwardTarget)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("target without review capability rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		target := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}
		deps.reviewers.canReviewFn = func(employeeID string) (bool, error) {
			return false, nil
		}

		targetID := target.ID.String()
		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision:  "forward",
			ForwardTo: &targetID,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrForwardTargetNotReviewer)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown target rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		targetID := uuid.New().String()
		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), leave.DecisionRequest{
			Decision:  "forward",
			ForwardTo: &targetID,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrForwardTargetNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels a pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		supervisorID := uuid.New()
		emp := deps.addEmployee(&supervisorID)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		resp, err := deps.service.Cancel(ctx, req.ID.String(), emp.ID.String(), leave.CancelLeaveRequest{
			Reason: "Plans changed",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveCancelled, deps.outbox.created[0].EventType)

		var evt events.LeaveNotificationEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &evt))
		assert.Equal(t, supervisorID.String(), evt.RecipientID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non owner forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Cancel(ctx, req.ID.String(), uuid.New().String(), leave.CancelLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved request cannot be cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		emp := deps.addEmployee(nil)
		req := pendingRequest(emp.ID)
		req.Status = leave.StatusApproved

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Cancel(ctx, req.ID.String(), emp.ID.String(), leave.CancelLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
