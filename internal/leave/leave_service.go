package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/ledger"
	ledgererrors "go-hrms/internal/ledger/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Directory resolves employees referenced by a request.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// ReviewerChecker reports whether an employee may decide leave requests.
type ReviewerChecker interface {
	CanReview(employeeID string) (bool, error)
}

// BalanceInvalidator drops cached balances after a debit commits.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, employeeID, leaveType string, year int)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, leaveID, actorID string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, leaveID, actorID string, req CancelLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, filter ListLeavesFilter) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    ledger.Repository
	outbox    kafka.OutboxRepository
	employees Directory
	reviewers ReviewerChecker
	balances  BalanceInvalidator
	allotment decimal.Decimal
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledgerRepo ledger.Repository,
	outbox kafka.OutboxRepository,
	employees Directory,
	reviewers ReviewerChecker,
	balances BalanceInvalidator,
	allotment decimal.Decimal,
	logger ...*zap.Logger,
) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledgerRepo,
		outbox:    outbox,
		employees: employees,
		reviewers: reviewers,
		balances:  balances,
		allotment: allotment,
		logger:    l.Named("leave.service"),
	}
}

// daySpan counts calendar days inclusive of both endpoints, so a
// Monday-to-Friday request costs five days.
func daySpan(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *service) Submit(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	totalDays := daySpan(startDate, endDate)

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlappingApproved(ctx, employeeID, startDate, endDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	year := startDate.Year()
	txLedger := s.ledger.WithTx(tx)
	if err := txLedger.Ensure(ctx, empID, req.LeaveType, year, s.allotment); err != nil {
		return LeaveResponse{}, err
	}
	remaining, err := txLedger.Remaining(ctx, empID, req.LeaveType, year)
	if err != nil {
		return LeaveResponse{}, err
	}
	if remaining.LessThan(decimal.NewFromInt(int64(totalDays))) {
		return LeaveResponse{}, ledgererrors.ErrInsufficientBalance
	}

	leaveReq := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: empID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  empID,
	}
	if err := s.repo.WithTx(tx).Create(ctx, leaveReq); err != nil {
		return LeaveResponse{}, err
	}

	if emp.SupervisorID != nil {
		msg := fmt.Sprintf(
			"%s requested %d day(s) of %s leave from %s to %s",
			emp.FullName, totalDays, leaveReq.LeaveType, req.StartDate, req.EndDate,
		)
		if err := s.enqueueNotification(ctx, tx, events.LeaveSubmitted, leaveReq, *emp.SupervisorID, msg); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", leaveReq.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*leaveReq), nil
}

func (s *service) Decide(ctx context.Context, leaveID, actorID string, req DecisionRequest) (LeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	leaveReq, err := txRepo.FindByIDForUpdate(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if leaveReq.ForwardedTo != nil && *leaveReq.ForwardedTo != actor {
		return LeaveResponse{}, leaveerrors.ErrNotAssignedReviewer
	}

	var (
		eventType string
		recipient uuid.UUID
		message   string
		debited   bool
	)

	switch req.Decision {
	case "approve":
		if !CanTransition(leaveReq.Status, StatusApproved) {
			return LeaveResponse{}, leaveerrors.ErrInvalidTransition
		}
		year := leaveReq.StartDate.Year()
		days := decimal.NewFromInt(int64(leaveReq.TotalDays))
		txLedger := s.ledger.WithTx(tx)
		if err := txLedger.Ensure(ctx, leaveReq.EmployeeID, leaveReq.LeaveType, year, s.allotment); err != nil {
			return LeaveResponse{}, err
		}
		if _, err := txLedger.Debit(ctx, leaveReq.EmployeeID, leaveReq.LeaveType, year, days); err != nil {
			return LeaveResponse{}, err
		}
		debited = true

		now := time.Now().UTC()
		leaveReq.Status = StatusApproved
		leaveReq.DecidedBy = &actor
		leaveReq.DecidedAt = &now
		if req.Comment != "" {
			leaveReq.Comment = &req.Comment
		}

		eventType = events.LeaveApproved
		recipient = leaveReq.EmployeeID
		message = fmt.Sprintf(
			"Your leave request from %s to %s has been approved",
			leaveReq.StartDate.Format(dateLayout), leaveReq.EndDate.Format(dateLayout),
		)

	case "reject":
		if !CanTransition(leaveReq.Status, StatusRejected) {
			return LeaveResponse{}, leaveerrors.ErrInvalidTransition
		}
		if req.Comment == "" {
			return LeaveResponse{}, leaveerrors.ErrCommentRequired
		}

		now := time.Now().UTC()
		leaveReq.Status = StatusRejected
		leaveReq.DecidedBy = &actor
		leaveReq.DecidedAt = &now
		leaveReq.Comment = &req.Comment

		eventType = events.LeaveRejected
		recipient = leaveReq.EmployeeID
		message = fmt.Sprintf(
			"Your leave request from %s to %s has been rejected: %s",
			leaveReq.StartDate.Format(dateLayout), leaveReq.EndDate.Format(dateLayout), req.Comment,
		)

	case "forward":
		if !CanTransition(leaveReq.Status, StatusPending) {
			return LeaveResponse{}, leaveerrors.ErrInvalidTransition
		}
		if req.ForwardTo == nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidForwardTarget
		}
		target, err := uuid.Parse(*req.ForwardTo)
		if err != nil || target == actor {
			return LeaveResponse{}, leaveerrors.ErrInvalidForwardTarget
		}
		if _, err := s.employees.FindByID(ctx, target.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrForwardTargetNotFound
			}
			return LeaveResponse{}, err
		}
		canReview, err := s.reviewers.CanReview(target.String())
		if err != nil {
			return LeaveResponse{}, err
		}
		if !canReview {
			return LeaveResponse{}, leaveerrors.ErrForwardTargetNotReviewer
		}

		leaveReq.ForwardedTo = &target
		if req.Comment != "" {
			leaveReq.Comment = &req.Comment
		}

		eventType = events.LeaveForwarded
		recipient = target
		message = fmt.Sprintf(
			"A leave request from %s to %s has been forwarded to you for review",
			leaveReq.StartDate.Format(dateLayout), leaveReq.EndDate.Format(dateLayout),
		)

	default:
		return LeaveResponse{}, leaveerrors.ErrUnknownDecision
	}

	applied, err := txRepo.ApplyDecision(ctx, leaveReq)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !applied {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if err := s.enqueueNotification(ctx, tx, eventType, leaveReq, recipient, message); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	if debited && s.balances != nil {
		s.balances.Invalidate(ctx, leaveReq.EmployeeID.String(), leaveReq.LeaveType, leaveReq.StartDate.Year())
	}

	s.logger.Info("leave request decided",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
		zap.String("status", leaveReq.Status),
	)
	return mapToResponse(*leaveReq), nil
}

func (s *service) Cancel(ctx context.Context, leaveID, actorID string, req CancelLeaveRequest) (LeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	leaveReq, err := txRepo.FindByIDForUpdate(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if leaveReq.EmployeeID != actor {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if !CanTransition(leaveReq.Status, StatusCancelled) {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	leaveReq.Status = StatusCancelled
	leaveReq.DecidedBy = &actor
	leaveReq.DecidedAt = &now
	if req.Reason != "" {
		leaveReq.Comment = &req.Reason
	}

	applied, err := txRepo.ApplyDecision(ctx, leaveReq)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !applied {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	// Whoever was reviewing learns the request is gone.
	if recipient, ok := s.cancelRecipient(ctx, leaveReq); ok {
		msg := fmt.Sprintf(
			"Leave request from %s to %s was cancelled by the employee",
			leaveReq.StartDate.Format(dateLayout), leaveReq.EndDate.Format(dateLayout),
		)
		if err := s.enqueueNotification(ctx, tx, events.LeaveCancelled, leaveReq, recipient, msg); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("leave_id", leaveID),
		zap.String("employee_id", actorID),
	)
	return mapToResponse(*leaveReq), nil
}

func (s *service) cancelRecipient(ctx context.Context, l *LeaveRequest) (uuid.UUID, bool) {
	if l.ForwardedTo != nil {
		return *l.ForwardedTo, true
	}
	emp, err := s.employees.FindByID(ctx, l.EmployeeID.String())
	if err != nil || emp.SupervisorID == nil {
		return uuid.Nil, false
	}
	return *emp.SupervisorID, true
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	leaveReq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*leaveReq), nil
}

func (s *service) List(ctx context.Context, filter ListLeavesFilter) ([]LeaveResponse, error) {
	leaves, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) enqueueNotification(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest, recipient uuid.UUID, message string) error {
	eventID := uuid.New().String()
	payload, err := json.Marshal(events.LeaveNotificationEvent{
		EventID:     eventID,
		EventType:   eventType,
		LeaveID:     l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		RecipientID: recipient.String(),
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		Message:     message,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            eventID,
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveNotificationsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
