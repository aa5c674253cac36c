package leave_test

import (
	"context"
	"testing"
	"time"

	"go-hrcore/internal/employee"
	"go-hrcore/internal/leave"
	"go-hrcore/internal/leavetype"
	"go-hrcore/internal/notification"
	"go-hrcore/internal/quota"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	createFn              func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) error
	amendPendingFn        func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) (bool, error)
	deletePendingFn       func(ctx context.Context, id string) (bool, error)
	findByIDFn            func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	listFn                func(ctx context.Context, f leave.Filter) ([]leave.LeaveRequest, int64, error)
	hasOverlappingRangeFn func(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error)
	updateStatusIfFn      func(ctx context.Context, id string, from, to leave.Status, approvedBy, rejectReason *string) (bool, error)
	consumedHoursFn       func(ctx context.Context, userID, leaveTypeID string, window quota.Window, excludeID *string) (decimal.Decimal, error)
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) error {
	if f.createFn != nil {
		return f.createFn(ctx, l, guard)
	}
	return nil
}

func (f *fakeLeaveRepository) AmendPending(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) (bool, error) {
	if f.amendPendingFn != nil {
		return f.amendPendingFn(ctx, l, guard)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	if f.deletePendingFn != nil {
		return f.deletePendingFn(ctx, id)
	}
	return true, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeLeaveRepository) HasOverlappingRange(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingRangeFn != nil {
		return f.hasOverlappingRangeFn(ctx, userID, start, end, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) UpdateStatusIf(ctx context.Context, id string, from, to leave.Status, approvedBy, rejectReason *string) (bool, error) {
	if f.updateStatusIfFn != nil {
		return f.updateStatusIfFn(ctx, id, from, to, approvedBy, rejectReason)
	}
	return true, nil
}

func (f *fakeLeaveRepository) ConsumedHours(ctx context.Context, userID, leaveTypeID string, window quota.Window, excludeID *string) (decimal.Decimal, error) {
	if f.consumedHoursFn != nil {
		return f.consumedHoursFn(ctx, userID, leaveTypeID, window, excludeID)
	}
	return decimal.Zero, nil
}

type fakeLeaveTypeRepository struct {
	findByIDFn   func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	findByNameFn func(ctx context.Context, name string) (*leavetype.LeaveType, error)
	findAllFn    func(ctx context.Context) ([]leavetype.LeaveType, error)
}

func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, leavetype.ErrLeaveTypeNotFound
}

func (f *fakeLeaveTypeRepository) FindByName(ctx context.Context, name string) (*leavetype.LeaveType, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, leavetype.ErrLeaveTypeNotFound
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

type fakeDirectory struct {
	findProfileFn   func(ctx context.Context, userID string) (employee.Profile, error)
	listHRUserIDsFn func(ctx context.Context) ([]string, error)
}

func (f *fakeDirectory) FindProfile(ctx context.Context, userID string) (employee.Profile, error) {
	if f.findProfileFn != nil {
		return f.findProfileFn(ctx, userID)
	}
	return employee.Profile{UserID: userID}, nil
}

func (f *fakeDirectory) ListHRUserIDs(ctx context.Context) ([]string, error) {
	if f.listHRUserIDsFn != nil {
		return f.listHRUserIDsFn(ctx)
	}
	return nil, nil
}

type fakeQuotaService struct {
	remainingHoursFn func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error)
	invalidated      []string
}

func (f *fakeQuotaService) RemainingHours(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
	if f.remainingHoursFn != nil {
		return f.remainingHoursFn(ctx, userID, leaveTypeID, asOf, excludeID)
	}
	return quota.Balance{Unlimited: true}, nil
}

func (f *fakeQuotaService) Invalidate(ctx context.Context, userID, leaveTypeID string) {
	f.invalidated = append(f.invalidated, userID+":"+leaveTypeID)
}

type fakeRBACService struct {
	enforceFn func(userID, resource, action string) (bool, error)
}

func (f *fakeRBACService) LoadPolicy() error { return nil }

func (f *fakeRBACService) Enforce(userID, resource, action string) (bool, error) {
	if f.enforceFn != nil {
		return f.enforceFn(userID, resource, action)
	}
	return true, nil
}

type fakeDispatcher struct {
	notes []notification.Note
}

func (f *fakeDispatcher) Dispatch(_ context.Context, notes ...notification.Note) {
	f.notes = append(f.notes, notes...)
}

type fakeAttachmentRemover struct {
	removed []string
	err     error
}

func (f *fakeAttachmentRemover) Remove(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, id)
	return nil
}

type leaveServiceDeps struct {
	repo        *fakeLeaveRepository
	types       *fakeLeaveTypeRepository
	directory   *fakeDirectory
	quota       *fakeQuotaService
	rbac        *fakeRBACService
	dispatcher  *fakeDispatcher
	attachments *fakeAttachmentRemover
	service     leave.Service
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	deps := &leaveServiceDeps{
		repo:        &fakeLeaveRepository{},
		types:       &fakeLeaveTypeRepository{},
		directory:   &fakeDirectory{},
		quota:       &fakeQuotaService{},
		rbac:        &fakeRBACService{},
		dispatcher:  &fakeDispatcher{},
		attachments: &fakeAttachmentRemover{},
	}
	deps.service = leave.NewService(
		deps.repo,
		deps.types,
		deps.directory,
		deps.quota,
		deps.rbac,
		deps.dispatcher,
		deps.attachments,
	)
	return deps
}

func annualLeaveType(id uuid.UUID) *leavetype.LeaveType {
	return &leavetype.LeaveType{
		ID:          id,
		Name:        leavetype.NameAnnual,
		DisplayName: "Annual Leave",
		ResetRules: []leavetype.ResetRule{
			{RuleType: leavetype.RuleYearly, RuleValue: "01-01"},
		},
	}
}

func sickLeaveType(id uuid.UUID) *leavetype.LeaveType {
	hours := decimal.NewFromInt(240)
	return &leavetype.LeaveType{
		ID:          id,
		Name:        leavetype.NameSick,
		DisplayName: "Sick Leave",
		TotalHours:  &hours,
		ResetRules: []leavetype.ResetRule{
			{RuleType: leavetype.RuleYearly, RuleValue: "01-01"},
		},
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	typeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			assert.Equal(t, typeID.String(), id)
			return annualLeaveType(typeID), nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			assert.Nil(t, excludeID)
			return quota.Balance{
				Remaining: decimal.NewFromInt(40),
				Ceiling:   decimal.NewFromInt(80),
			}, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) error {
			assert.Equal(t, actorID, l.UserID.String())
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, "8", l.LeaveHours.String())
			assert.NotNil(t, guard)
			assert.Equal(t, "80", guard.Ceiling.String())
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
			Reason:      "family matter",
		})

		assert.NoError(t, err)
		assert.Equal(t, int(leave.StatusPending), resp.Status)
		assert.Equal(t, "8", resp.LeaveHours)
		assert.Contains(t, deps.quota.invalidated, actorID+":"+typeID.String())
	})

	t.Run("success unlimited type skips quota guard", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			lt := sickLeaveType(typeID)
			lt.TotalHours = nil
			return lt, nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			return quota.Balance{Unlimited: true}, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) error {
			assert.Nil(t, guard)
			return nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
		})

		assert.NoError(t, err)
	})

	t.Run("negative invalid time range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T17:00:00Z",
			EndTime:     "2026-09-07T09:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "end_time must be after start_time")
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: uuid.New().String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown leave type")
	})

	t.Run("negative overlapping request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			return annualLeaveType(typeID), nil
		}
		deps.repo.hasOverlappingRangeFn = func(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
			assert.Equal(t, actorID, userID)
			assert.Nil(t, excludeID)
			return true, nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already covers part of this period")
	})

	t.Run("negative quota exceeded", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			return sickLeaveType(typeID), nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			return quota.Balance{
				Remaining: decimal.NewFromInt(4),
				Ceiling:   decimal.NewFromInt(240),
			}, nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceed the remaining quota")
	})

	t.Run("negative menstrual leave gated on gender before quota", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			hours := decimal.NewFromInt(8)
			return &leavetype.LeaveType{
				ID:         typeID,
				Name:       leavetype.NameMenstrual,
				TotalHours: &hours,
				ResetRules: []leavetype.ResetRule{
					{RuleType: leavetype.RuleMonthly, RuleValue: "1"},
				},
			}, nil
		}
		deps.directory.findProfileFn = func(ctx context.Context, userID string) (employee.Profile, error) {
			return employee.Profile{UserID: userID, Gender: employee.GenderMale}, nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			t.Fatal("quota oracle must not be consulted for ineligible requests")
			return quota.Balance{}, nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-07T09:00:00Z",
			EndTime:     "2026-09-07T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only available to female employees")
	})
}

func TestLeaveService_Amend(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	typeID := uuid.New()
	leaveID := uuid.New()

	pendingRequest := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:          leaveID,
			UserID:      uuid.MustParse(actorID),
			LeaveTypeID: typeID,
			StartTime:   time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC),
			LeaveHours:  decimal.NewFromInt(8),
			Status:      leave.StatusPending,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingRequest(), nil
		}
		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			return annualLeaveType(typeID), nil
		}
		deps.repo.hasOverlappingRangeFn = func(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
			assert.NotNil(t, excludeID)
			assert.Equal(t, leaveID.String(), *excludeID)
			return false, nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			assert.NotNil(t, excludeID)
			return quota.Balance{
				Remaining: decimal.NewFromInt(80),
				Ceiling:   decimal.NewFromInt(80),
			}, nil
		}
		deps.repo.amendPendingFn = func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) (bool, error) {
			assert.Equal(t, "16", l.LeaveHours.String())
			assert.Equal(t, leave.StatusPending, l.Status)
			return true, nil
		}

		resp, err := deps.service.Amend(ctx, actorID, leaveID.String(), leave.AmendLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-08T09:00:00Z",
			EndTime:     "2026-09-09T01:00:00Z",
		})

		assert.NoError(t, err)
		assert.Equal(t, "16", resp.LeaveHours)
	})

	t.Run("negative not owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			other := pendingRequest()
			other.UserID = uuid.New()
			return other, nil
		}

		_, err := deps.service.Amend(ctx, actorID, leaveID.String(), leave.AmendLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-08T09:00:00Z",
			EndTime:     "2026-09-08T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the request owner")
	})

	t.Run("negative no longer pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := pendingRequest()
			l.Status = leave.StatusManagerApproved
			return l, nil
		}

		_, err := deps.service.Amend(ctx, actorID, leaveID.String(), leave.AmendLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-08T09:00:00Z",
			EndTime:     "2026-09-08T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
	})

	t.Run("negative lost race against reviewer", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		calls := 0
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			calls++
			l := pendingRequest()
			if calls > 1 {
				l.Status = leave.StatusManagerApproved
			}
			return l, nil
		}
		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			return annualLeaveType(typeID), nil
		}
		deps.repo.amendPendingFn = func(ctx context.Context, l *leave.LeaveRequest, guard *leave.QuotaGuard) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Amend(ctx, actorID, leaveID.String(), leave.AmendLeaveRequest{
			LeaveTypeID: typeID.String(),
			StartTime:   "2026-09-08T09:00:00Z",
			EndTime:     "2026-09-08T17:00:00Z",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "current state: manager_approved")
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	leaveID := uuid.New()
	attachmentID := uuid.New()

	t.Run("success with attachment cleanup", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:           leaveID,
				UserID:       uuid.MustParse(actorID),
				LeaveTypeID:  uuid.New(),
				Status:       leave.StatusPending,
				AttachmentID: &attachmentID,
			}, nil
		}

		err := deps.service.Delete(ctx, actorID, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, []string{attachmentID.String()}, deps.attachments.removed)
		assert.Len(t, deps.quota.invalidated, 1)
	})

	t.Run("negative not owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:     leaveID,
				UserID: uuid.New(),
				Status: leave.StatusPending,
			}, nil
		}

		err := deps.service.Delete(ctx, actorID, leaveID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the request owner")
	})

	t.Run("negative already reviewed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:     leaveID,
				UserID: uuid.MustParse(actorID),
				Status: leave.StatusHRApproved,
			}, nil
		}
		deps.repo.deletePendingFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}

		err := deps.service.Delete(ctx, actorID, leaveID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
	})
}

func TestLeaveService_List(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success self scope needs no extra permission", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.rbac.enforceFn = func(userID, resource, action string) (bool, error) {
			t.Fatal("self scope must not consult rbac")
			return false, nil
		}
		deps.repo.listFn = func(ctx context.Context, f leave.Filter) ([]leave.LeaveRequest, int64, error) {
			assert.Equal(t, leave.ScopeSelf, f.Scope)
			assert.Equal(t, actorID, f.ActorID)
			return []leave.LeaveRequest{}, 0, nil
		}

		_, total, err := deps.service.List(ctx, actorID, leave.ListLeavesQuery{})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("negative department scope without permission", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.rbac.enforceFn = func(userID, resource, action string) (bool, error) {
			assert.Equal(t, "leave", resource)
			assert.Equal(t, "read_department", action)
			return false, nil
		}

		_, _, err := deps.service.List(ctx, actorID, leave.ListLeavesQuery{Scope: "department"})

		assert.Error(t, err)
	})

	t.Run("negative unknown scope", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, _, err := deps.service.List(ctx, actorID, leave.ListLeavesQuery{Scope: "galaxy"})

		assert.Error(t, err)
	})
}

func TestLeaveService_Remaining(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	typeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			return sickLeaveType(typeID), nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			return quota.Balance{
				Remaining: decimal.NewFromInt(232),
				Ceiling:   decimal.NewFromInt(240),
			}, nil
		}

		bal, err := deps.service.Remaining(ctx, actorID, typeID.String())

		assert.NoError(t, err)
		assert.Equal(t, "232", bal.Remaining.String())
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Remaining(ctx, actorID, uuid.New().String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown leave type")
	})

	t.Run("negative ineligible balance query never reaches the oracle", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.types.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			hours := decimal.NewFromInt(8)
			return &leavetype.LeaveType{
				ID:         typeID,
				Name:       leavetype.NameMenstrual,
				TotalHours: &hours,
				ResetRules: []leavetype.ResetRule{
					{RuleType: leavetype.RuleMonthly, RuleValue: "1"},
				},
			}, nil
		}
		deps.directory.findProfileFn = func(ctx context.Context, userID string) (employee.Profile, error) {
			return employee.Profile{UserID: userID, Gender: employee.GenderMale}, nil
		}
		deps.quota.remainingHoursFn = func(ctx context.Context, userID, leaveTypeID string, asOf time.Time, excludeID *string) (quota.Balance, error) {
			t.Fatal("quota oracle must not be consulted for ineligible requests")
			return quota.Balance{}, nil
		}

		_, err := deps.service.Remaining(ctx, actorID, typeID.String())

		assert.Error(t, err)
	})
}
