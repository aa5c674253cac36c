package quota

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-hrcore/internal/employee"
	"go-hrcore/internal/leavetype"
	"go-hrcore/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidLeaveType signals a caller passing a type id that does not
// exist. That is a programming error upstream, not user input to correct.
var ErrInvalidLeaveType = apperror.New(
	apperror.CodeInternalError,
	"invalid leave type",
	http.StatusInternalServerError,
)

// ConsumedSource sums the leave hours already counting against a user's
// quota inside a window. The leave repository implements it.
type ConsumedSource interface {
	ConsumedHours(ctx context.Context, userID, leaveTypeID string, window Window, excludeID *string) (decimal.Decimal, error)
}

// Balance is the oracle's answer. Unlimited types carry no meaningful
// Remaining value and callers must skip the quota comparison.
type Balance struct {
	Remaining decimal.Decimal `json:"remaining"`
	Ceiling   decimal.Decimal `json:"ceiling"`
	Unlimited bool            `json:"unlimited"`
}

//go:generate mockgen -source=quota_service.go -destination=mock/quota_service_mock.go -package=mock
type Service interface {
	RemainingHours(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (Balance, error)
	Invalidate(ctx context.Context, userID, leaveTypeID string)
}

type service struct {
	types     leavetype.Repository
	directory employee.Directory
	consumed  ConsumedSource
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	types leavetype.Repository,
	directory employee.Directory,
	consumed ConsumedSource,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("quota.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("quota.service")
	}
	return &service{
		types:     types,
		directory: directory,
		consumed:  consumed,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func balanceCacheKey(userID, leaveTypeID string) string {
	return "leave:remaining:" + userID + ":" + leaveTypeID
}

func (s *service) RemainingHours(
	ctx context.Context,
	userID, leaveTypeID string,
	asOf time.Time,
	excludeID *string,
) (Balance, error) {
	// Amendment re-checks bypass the cache entirely, the exclusion makes
	// the value request-specific.
	if s.rdb != nil && excludeID == nil {
		if cached, err := s.rdb.Get(ctx, balanceCacheKey(userID, leaveTypeID)).Result(); err == nil {
			var b Balance
			if err := json.Unmarshal([]byte(cached), &b); err == nil {
				return b, nil
			}
		}
	}

	compute := func() (Balance, error) { return s.compute(ctx, userID, leaveTypeID, asOf, excludeID) }

	if excludeID != nil {
		return compute()
	}

	v, err, _ := s.sf.Do(balanceCacheKey(userID, leaveTypeID), func() (interface{}, error) {
		b, err := compute()
		if err != nil {
			return Balance{}, err
		}
		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(b); marshalErr == nil {
				_ = s.rdb.Set(ctx, balanceCacheKey(userID, leaveTypeID), payload, 5*time.Minute).Err()
			}
		}
		return b, nil
	})
	if err != nil {
		return Balance{}, err
	}
	return v.(Balance), nil
}

func (s *service) compute(
	ctx context.Context,
	userID, leaveTypeID string,
	asOf time.Time,
	excludeID *string,
) (Balance, error) {
	lt, err := s.types.FindByID(ctx, leaveTypeID)
	if err != nil {
		if err == leavetype.ErrLeaveTypeNotFound {
			s.logger.Error("remaining hours called with unknown leave type",
				zap.String("leave_type_id", leaveTypeID),
			)
			return Balance{}, ErrInvalidLeaveType
		}
		return Balance{}, err
	}

	profile, err := s.directory.FindProfile(ctx, userID)
	if err != nil {
		return Balance{}, err
	}

	quotaPolicy, _ := leavetype.PolicyFor(lt.Name)
	ceiling, unlimited := quotaPolicy.Ceiling(profile, *lt, asOf)
	if unlimited {
		return Balance{Unlimited: true}, nil
	}

	window, err := WindowFor(lt.ResetRules, asOf)
	if err != nil {
		return Balance{}, err
	}

	used, err := s.consumed.ConsumedHours(ctx, userID, leaveTypeID, window, excludeID)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Remaining: ceiling.Sub(used),
		Ceiling:   ceiling,
	}, nil
}

func (s *service) Invalidate(ctx context.Context, userID, leaveTypeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, balanceCacheKey(userID, leaveTypeID)).Err(); err != nil {
		s.logger.Warn("invalidate remaining hours cache failed",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Error(err),
		)
	}
}
