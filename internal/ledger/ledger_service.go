package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ledgererrors "go-hrms/internal/ledger/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const balanceCacheTTL = 5 * time.Minute

func balanceCacheKey(employeeID, leaveType string, year int) string {
	return fmt.Sprintf("balance:%s:%s:%d", employeeID, leaveType, year)
}

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error)
	Credit(ctx context.Context, employeeID, leaveType string, year int, days decimal.Decimal) (BalanceResponse, error)
	Invalidate(ctx context.Context, employeeID, leaveType string, year int)
}

type service struct {
	repo      Repository
	rdb       *redis.Client
	sf        *singleflight.Group
	allotment decimal.Decimal
	logger    *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, allotment decimal.Decimal, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{
		repo:      repo,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		allotment: allotment,
		logger:    l,
	}
}

func (s *service) GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, ledgererrors.ErrInvalidEmployeeID
	}
	if year < 2000 || year > 2200 {
		return BalanceResponse{}, ledgererrors.ErrInvalidPeriod
	}

	cacheKey := balanceCacheKey(employeeID, leaveType, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp BalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent cache misses into one database read.
	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		if err := s.repo.Ensure(ctx, employeeUUID, leaveType, year, s.allotment); err != nil {
			return nil, err
		}
		remaining, err := s.repo.Remaining(ctx, employeeUUID, leaveType, year)
		if err != nil {
			return nil, err
		}
		resp := BalanceResponse{
			EmployeeID:    employeeID,
			LeaveType:     leaveType,
			PeriodYear:    year,
			AllottedDays:  s.allotment.String(),
			RemainingDays: remaining.String(),
		}
		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = s.rdb.Set(ctx, cacheKey, payload, balanceCacheTTL).Err()
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get balance failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	return v.(BalanceResponse), nil
}

// Credit is the manual-adjustment surface; approvals debit through the
// repository inside the workflow transaction instead.
func (s *service) Credit(ctx context.Context, employeeID, leaveType string, year int, days decimal.Decimal) (BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, ledgererrors.ErrInvalidEmployeeID
	}
	if !days.IsPositive() {
		return BalanceResponse{}, ledgererrors.ErrInvalidAmount
	}

	remaining, err := s.repo.Credit(ctx, employeeUUID, leaveType, year, days)
	if err != nil {
		return BalanceResponse{}, err
	}

	s.Invalidate(ctx, employeeID, leaveType, year)

	s.logger.Info("balance credited",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.String("days", days.String()),
		zap.String("remaining", remaining.String()),
	)

	return BalanceResponse{
		EmployeeID:    employeeID,
		LeaveType:     leaveType,
		PeriodYear:    year,
		AllottedDays:  s.allotment.String(),
		RemainingDays: remaining.String(),
	}, nil
}

// Invalidate drops the cached balance after a committed debit or credit.
func (s *service) Invalidate(ctx context.Context, employeeID, leaveType string, year int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, balanceCacheKey(employeeID, leaveType, year)).Err(); err != nil {
		s.logger.Warn("balance cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
