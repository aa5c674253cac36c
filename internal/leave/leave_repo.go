package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-hrcore/internal/leave/errors"
	"go-hrcore/internal/quota"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotaGuard re-checks period consumption inside the insert/amend
// transaction so concurrent submissions cannot jointly overspend the quota.
type QuotaGuard struct {
	Window    quota.Window
	Ceiling   decimal.Decimal
	ExcludeID *string
}

type Scope string

const (
	ScopeSelf       Scope = "self"
	ScopeDepartment Scope = "department"
	ScopeCompany    Scope = "company"
)

type Filter struct {
	Scope       Scope
	ActorID     string
	LeaveTypeID string
	EmployeeID  string
	From        *time.Time
	To          *time.Time
	Status      *Status
	Page        int
	PageSize    int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *LeaveRequest, guard *QuotaGuard) error
	AmendPending(ctx context.Context, l *LeaveRequest, guard *QuotaGuard) (bool, error)
	DeletePending(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, f Filter) ([]LeaveRequest, int64, error)
	HasOverlappingRange(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error)
	UpdateStatusIf(ctx context.Context, id string, from, to Status, approvedBy, rejectReason *string) (bool, error)
	ConsumedHours(ctx context.Context, userID, leaveTypeID string, window quota.Window, excludeID *string) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

func (r *repository) Create(ctx context.Context, l *LeaveRequest, guard *QuotaGuard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			used, err := sumConsumedHours(tx, l.UserID.String(), l.LeaveTypeID.String(), guard.Window, guard.ExcludeID)
			if err != nil {
				return err
			}
			if used.Add(l.LeaveHours).GreaterThan(guard.Ceiling) {
				return leaveerrors.ErrQuotaExceeded
			}
		}

		if err := tx.Create(l).Error; err != nil {
			return mapConstraintError(err)
		}

		if l.AttachmentID != nil {
			if err := bindAttachment(tx, l); err != nil {
				return err
			}
		}
		return nil
	}, serializableTx)
}

func (r *repository) AmendPending(ctx context.Context, l *LeaveRequest, guard *QuotaGuard) (bool, error) {
	amended := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			used, err := sumConsumedHours(tx, l.UserID.String(), l.LeaveTypeID.String(), guard.Window, guard.ExcludeID)
			if err != nil {
				return err
			}
			if used.Add(l.LeaveHours).GreaterThan(guard.Ceiling) {
				return leaveerrors.ErrQuotaExceeded
			}
		}

		res := tx.Model(&LeaveRequest{}).
			Where("id = ? AND status = ?", l.ID, StatusPending).
			Updates(map[string]any{
				"leave_type_id": l.LeaveTypeID,
				"start_time":    l.StartTime,
				"end_time":      l.EndTime,
				"leave_hours":   l.LeaveHours,
				"reason":        l.Reason,
				"attachment_id": l.AttachmentID,
			})
		if res.Error != nil {
			return mapConstraintError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		amended = true

		if l.AttachmentID != nil {
			if err := bindAttachment(tx, l); err != nil {
				return err
			}
		}
		return nil
	}, serializableTx)
	return amended, err
}

func (r *repository) DeletePending(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, StatusPending).
		Delete(&LeaveRequest{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})

	switch f.Scope {
	case ScopeSelf:
		q = q.Where("user_id = ?", f.ActorID)
	case ScopeDepartment:
		q = q.Joins("JOIN employees requester ON requester.id = leave_requests.user_id").
			Where("requester.department_id = (SELECT department_id FROM employees WHERE id = ?)", f.ActorID)
	case ScopeCompany:
		// no scoping
	}

	if f.LeaveTypeID != "" {
		q = q.Where("leave_type_id = ?", f.LeaveTypeID)
	}
	if f.EmployeeID != "" {
		q = q.Where("user_id = ?", f.EmployeeID)
	}
	if f.From != nil {
		q = q.Where("end_time > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaveRequest
	err := q.Order("leave_requests.created_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) HasOverlappingRange(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status IN ?", statusCodes(ActiveStatuses)).
		Where("start_time < ? AND end_time > ?", end, start)

	if excludeID != nil && *excludeID != "" {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatusIf(ctx context.Context, id string, from, to Status, approvedBy, rejectReason *string) (bool, error) {
	updates := map[string]any{"status": to}
	if approvedBy != nil {
		updates["approved_by"] = *approvedBy
	}
	if rejectReason != nil {
		updates["reject_reason"] = *rejectReason
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ConsumedHours(ctx context.Context, userID, leaveTypeID string, window quota.Window, excludeID *string) (decimal.Decimal, error) {
	return sumConsumedHours(r.db.WithContext(ctx), userID, leaveTypeID, window, excludeID)
}

func sumConsumedHours(db *gorm.DB, userID, leaveTypeID string, window quota.Window, excludeID *string) (decimal.Decimal, error) {
	q := db.Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status IN ?", statusCodes(QuotaStatuses))

	if !window.Lifetime {
		q = q.Where("start_time >= ? AND start_time < ?", window.Start, window.End)
	}
	if excludeID != nil && *excludeID != "" {
		q = q.Where("id <> ?", *excludeID)
	}

	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(leave_hours), 0)").Scan(&total).Error
	return total, err
}

// bindAttachment points a pre-stored attachment row at the request. The
// reference is created with a null leave_id before the request exists; the
// null check makes binding idempotent and rejects references already claimed
// by another request.
func bindAttachment(tx *gorm.DB, l *LeaveRequest) error {
	res := tx.Table("attachments").
		Where("id = ? AND (leave_id IS NULL OR leave_id = ?)", *l.AttachmentID, l.ID).
		Update("leave_id", l.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrInvalidAttachment
	}
	return nil
}

func statusCodes(statuses []Status) []int {
	codes := make([]int, len(statuses))
	for i, s := range statuses {
		codes[i] = int(s)
	}
	return codes
}

// mapConstraintError translates storage-level race detection into the same
// errors the application-level checks produce. The active-range exclusion
// constraint (23P01) backstops the overlap guard; serialization failures
// (40001) surface as a retryable conflict.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			return leaveerrors.ErrLeaveOverlap
		case "40001":
			return leaveerrors.ErrSerializationConflict
		}
	}
	return err
}
