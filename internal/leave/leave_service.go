package leave

import (
	"context"
	"time"

	"go-hrcore/internal/employee"
	leaveerrors "go-hrcore/internal/leave/errors"
	"go-hrcore/internal/leavetype"
	"go-hrcore/internal/metrics"
	"go-hrcore/internal/notification"
	"go-hrcore/internal/quota"
	"go-hrcore/internal/rbac"
	"go-hrcore/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AttachmentRemover detaches and garbage-collects an attachment once its
// request is hard-deleted.
type AttachmentRemover interface {
	Remove(ctx context.Context, id string) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	Amend(ctx context.Context, actorID, id string, req AmendLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, actorID string, q ListLeavesQuery) ([]LeaveResponse, int64, error)
	Remaining(ctx context.Context, actorID, leaveTypeID string) (quota.Balance, error)
	Transition(ctx context.Context, actorID, id string, action Action, reason string) (LeaveResponse, error)
}

type service struct {
	repo        Repository
	types       leavetype.Repository
	directory   employee.Directory
	quota       quota.Service
	rbac        rbac.Service
	dispatcher  notification.Dispatcher
	attachments AttachmentRemover
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	types leavetype.Repository,
	directory employee.Directory,
	quotaSvc quota.Service,
	rbacSvc rbac.Service,
	dispatcher notification.Dispatcher,
	attachments AttachmentRemover,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		repo:        repo,
		types:       types,
		directory:   directory,
		quota:       quotaSvc,
		rbac:        rbacSvc,
		dispatcher:  dispatcher,
		attachments: attachments,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("actor id")
	}
	start, end, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return LeaveResponse{}, err
	}

	lt, _, err := s.resolveTypeAndEligibility(ctx, actorID, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlappingRange(ctx, actorID, start, end, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("actor_id", actorID),
			zap.Time("start_time", start),
			zap.Time("end_time", end),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	hours := HoursBetween(start, end)
	guard, err := s.quotaGuard(ctx, actorID, lt, start, hours, nil)
	if err != nil {
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:          uuid.New(),
		UserID:      actorUUID,
		LeaveTypeID: lt.ID,
		StartTime:   start,
		EndTime:     end,
		LeaveHours:  hours,
		Reason:      req.Reason,
		Status:      StatusPending,
	}
	if req.AttachmentID != nil && *req.AttachmentID != "" {
		attUUID, err := uuid.Parse(*req.AttachmentID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidAttachment
		}
		l.AttachmentID = &attUUID
	}

	if err := s.repo.Create(ctx, l, guard); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.quota.Invalidate(ctx, actorID, req.LeaveTypeID)
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("actor_id", actorID),
		zap.String("leave_hours", hours.String()),
	)

	return mapToResponse(*l), nil
}

func (s *service) Amend(ctx context.Context, actorID, id string, req AmendLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("amend leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if existing.UserID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if existing.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.NotPending(existing.Status.String())
	}

	start, end, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return LeaveResponse{}, err
	}

	lt, _, err := s.resolveTypeAndEligibility(ctx, actorID, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlappingRange(ctx, actorID, start, end, &id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	hours := HoursBetween(start, end)
	guard, err := s.quotaGuard(ctx, actorID, lt, start, hours, &id)
	if err != nil {
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:          existing.ID,
		UserID:      existing.UserID,
		LeaveTypeID: lt.ID,
		StartTime:   start,
		EndTime:     end,
		LeaveHours:  hours,
		Reason:      req.Reason,
		Status:      StatusPending,
		CreatedAt:   existing.CreatedAt,
	}
	if req.AttachmentID != nil && *req.AttachmentID != "" {
		attUUID, err := uuid.Parse(*req.AttachmentID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidAttachment
		}
		l.AttachmentID = &attUUID
	}

	amended, err := s.repo.AmendPending(ctx, l, guard)
	if err != nil {
		s.logger.Error("amend leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !amended {
		// Lost the race against a reviewer, surface the fresh state.
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return LeaveResponse{}, findErr
		}
		return LeaveResponse{}, leaveerrors.NotPending(current.Status.String())
	}

	s.quota.Invalidate(ctx, actorID, req.LeaveTypeID)
	if existing.LeaveTypeID.String() != req.LeaveTypeID {
		s.quota.Invalidate(ctx, actorID, existing.LeaveTypeID.String())
	}
	s.logger.Info("amend leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID.String() != actorID {
		return leaveerrors.ErrNotOwner
	}

	deleted, err := s.repo.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return findErr
		}
		return leaveerrors.NotPending(current.Status.String())
	}

	if existing.AttachmentID != nil && s.attachments != nil {
		if err := s.attachments.Remove(ctx, existing.AttachmentID.String()); err != nil {
			// Best effort, the orphan sweep picks up leftovers.
			s.logger.Warn("delete leave attachment cleanup failed",
				zap.String("leave_id", id),
				zap.String("attachment_id", existing.AttachmentID.String()),
				zap.Error(err),
			)
		}
	}

	s.quota.Invalidate(ctx, actorID, existing.LeaveTypeID.String())
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, actorID string, q ListLeavesQuery) ([]LeaveResponse, int64, error) {
	scope := Scope(q.Scope)
	if scope == "" {
		scope = ScopeSelf
	}

	switch scope {
	case ScopeSelf:
	case ScopeDepartment:
		if err := s.requirePermission(actorID, "read_department"); err != nil {
			return nil, 0, err
		}
	case ScopeCompany:
		if err := s.requirePermission(actorID, "read_company"); err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, apperror.InvalidField("scope")
	}

	f := Filter{
		Scope:       scope,
		ActorID:     actorID,
		LeaveTypeID: q.LeaveTypeID,
		EmployeeID:  q.EmployeeID,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	if q.Status != nil {
		st := Status(*q.Status)
		f.Status = &st
	}
	var err error
	if f.From, err = parseOptionalTime(q.From); err != nil {
		return nil, 0, err
	}
	if f.To, err = parseOptionalTime(q.To); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp, total, nil
}

func (s *service) Remaining(ctx context.Context, actorID, leaveTypeID string) (quota.Balance, error) {
	if _, _, err := s.resolveTypeAndEligibility(ctx, actorID, leaveTypeID); err != nil {
		return quota.Balance{}, err
	}
	return s.quota.RemainingHours(ctx, actorID, leaveTypeID, time.Now().UTC(), nil)
}

func (s *service) resolveTypeAndEligibility(ctx context.Context, actorID, leaveTypeID string) (*leavetype.LeaveType, employee.Profile, error) {
	lt, err := s.types.FindByID(ctx, leaveTypeID)
	if err != nil {
		if err == leavetype.ErrLeaveTypeNotFound {
			return nil, employee.Profile{}, leaveerrors.ErrUnknownLeaveType
		}
		return nil, employee.Profile{}, err
	}

	profile, err := s.directory.FindProfile(ctx, actorID)
	if err != nil {
		return nil, employee.Profile{}, err
	}

	// Eligibility is gated before any quota math (and before the oracle).
	_, eligibility := leavetype.PolicyFor(lt.Name)
	if err := eligibility.Check(profile); err != nil {
		s.logger.Warn("leave type eligibility gate rejected request",
			zap.String("actor_id", actorID),
			zap.String("leave_type", lt.Name),
		)
		return nil, employee.Profile{}, err
	}

	return lt, profile, nil
}

// quotaGuard compares the requested hours against the oracle and prepares
// the in-transaction re-check for the repository.
func (s *service) quotaGuard(
	ctx context.Context,
	actorID string,
	lt *leavetype.LeaveType,
	asOf time.Time,
	hours decimal.Decimal,
	excludeID *string,
) (*QuotaGuard, error) {
	bal, err := s.quota.RemainingHours(ctx, actorID, lt.ID.String(), asOf, excludeID)
	if err != nil {
		return nil, err
	}
	if bal.Unlimited {
		return nil, nil
	}
	if hours.GreaterThan(bal.Remaining) {
		metrics.QuotaDenialsTotal.WithLabelValues(lt.Name).Inc()
		s.logger.Warn("leave quota exceeded",
			zap.String("actor_id", actorID),
			zap.String("leave_type", lt.Name),
			zap.String("requested_hours", hours.String()),
			zap.String("remaining_hours", bal.Remaining.String()),
		)
		return nil, leaveerrors.ErrQuotaExceeded
	}

	window, err := quota.WindowFor(lt.ResetRules, asOf)
	if err != nil {
		return nil, err
	}
	return &QuotaGuard{Window: window, Ceiling: bal.Ceiling, ExcludeID: excludeID}, nil
}

func (s *service) requirePermission(actorID, action string) error {
	allowed, err := s.rbac.Enforce(actorID, "leave", action)
	if err != nil {
		return err
	}
	if !allowed {
		return apperror.ErrForbidden
	}
	return nil
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidTimeFormat
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidTimeRange
	}
	return start, end, nil
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, leaveerrors.ErrInvalidTimeFormat
	}
	return &t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		UserID:      l.UserID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		StartTime:   l.StartTime.Format(time.RFC3339),
		EndTime:     l.EndTime.Format(time.RFC3339),
		LeaveHours:  l.LeaveHours.String(),
		Reason:      l.Reason,
		Status:      int(l.Status),
		StatusLabel: l.Status.String(),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	resp.RejectReason = l.RejectReason
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.AttachmentID != nil {
		v := l.AttachmentID.String()
		resp.AttachmentID = &v
	}
	return resp
}
