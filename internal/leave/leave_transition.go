package leave

import (
	"context"
	"strings"

	leaveerrors "go-hrcore/internal/leave/errors"
	"go-hrcore/internal/metrics"
	"go-hrcore/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Action string

const (
	ActionManagerApprove Action = "manager_approve"
	ActionManagerReject  Action = "manager_reject"
	ActionHRApprove      Action = "hr_approve"
	ActionHRReject       Action = "hr_reject"
)

type transitionRule struct {
	from            Status
	to              Status
	permission      string // rbac action on the "leave" resource
	managerStage    bool
	departmentBound bool
	needsReason     bool
}

// transitionTable is the single source of truth for legal transitions.
// Every (state, action) pair outside it fails with a distinct reason.
var transitionTable = map[Action]transitionRule{
	ActionManagerApprove: {
		from:            StatusPending,
		to:              StatusManagerApproved,
		permission:      "approve_department",
		managerStage:    true,
		departmentBound: true,
	},
	ActionManagerReject: {
		from:            StatusPending,
		to:              StatusManagerRejected,
		permission:      "approve_department",
		managerStage:    true,
		departmentBound: true,
		needsReason:     true,
	},
	ActionHRApprove: {
		from:       StatusManagerApproved,
		to:         StatusHRApproved,
		permission: "approve",
	},
	ActionHRReject: {
		from:        StatusManagerApproved,
		to:          StatusHRRejected,
		permission:  "approve",
		needsReason: true,
	},
}

func (s *service) Transition(ctx context.Context, actorID, id string, action Action, reason string) (LeaveResponse, error) {
	s.logger.Debug("leave transition requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("action", string(action)),
	)

	rule, ok := transitionTable[action]
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrUnknownAction
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if l.Status != rule.from {
		return LeaveResponse{}, classifyIllegalTransition(l.Status, rule)
	}

	if err := s.authorizeTransition(ctx, actorID, l, rule); err != nil {
		s.logger.Warn("leave transition denied",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	reason = strings.TrimSpace(reason)
	if rule.needsReason && reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectReasonRequired
	}

	var rejectReason *string
	if rule.needsReason {
		rejectReason = &reason
	}

	// Conditional update closes the double-approval window: only one of two
	// concurrent reviewers observes an affected row.
	applied, err := s.repo.UpdateStatusIf(ctx, id, rule.from, rule.to, &actorID, rejectReason)
	if err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !applied {
		return LeaveResponse{}, leaveerrors.ConcurrentUpdate(rule.from.String())
	}

	metrics.LeaveTransitionsTotal.WithLabelValues(string(action)).Inc()
	s.quota.Invalidate(ctx, l.UserID.String(), l.LeaveTypeID.String())
	s.logger.Info("leave transition success",
		zap.String("leave_id", id),
		zap.String("from_status", rule.from.String()),
		zap.String("to_status", rule.to.String()),
		zap.String("actor_id", actorID),
	)

	s.notifyTransition(ctx, l, action, reason)

	l.Status = rule.to
	l.RejectReason = rejectReason
	if actorUUID, parseErr := uuid.Parse(actorID); parseErr == nil {
		l.ApprovedBy = &actorUUID
	}
	return mapToResponse(*l), nil
}

func classifyIllegalTransition(current Status, rule transitionRule) error {
	switch {
	case current == StatusHRApproved || current == StatusHRRejected:
		return leaveerrors.AlreadyDecided(current.String())
	case current == StatusManagerRejected:
		return leaveerrors.TerminalState(current.String())
	case !rule.managerStage && current == StatusPending:
		return leaveerrors.ErrAwaitingManagerReview
	default:
		return leaveerrors.WrongStage(current.String())
	}
}

func (s *service) authorizeTransition(ctx context.Context, actorID string, l *LeaveRequest, rule transitionRule) error {
	allowed, err := s.rbac.Enforce(actorID, "leave", rule.permission)
	if err != nil {
		return err
	}
	if !allowed {
		return leaveerrors.ErrMissingPermission
	}

	if !rule.departmentBound {
		return nil
	}

	requester, err := s.directory.FindProfile(ctx, l.UserID.String())
	if err != nil {
		return err
	}
	actor, err := s.directory.FindProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if requester.DepartmentID == "" || requester.DepartmentID != actor.DepartmentID {
		return leaveerrors.ErrWrongDepartment
	}
	return nil
}

// notifyTransition fans out best-effort notifications after the committed
// transition. Failures are logged inside the dispatcher and never surface.
func (s *service) notifyTransition(ctx context.Context, l *LeaveRequest, action Action, reason string) {
	link := "/leaves/" + l.ID.String()
	requester := l.UserID.String()

	switch action {
	case ActionManagerApprove:
		notes := []notification.Note{{
			RecipientID: requester,
			Title:       "Leave request approved by manager",
			Message:     "Your leave request passed manager review and is awaiting HR review.",
			Link:        link,
		}}
		hrUsers, err := s.directory.ListHRUserIDs(ctx)
		if err != nil {
			s.logger.Warn("list hr users for fan-out failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
		}
		for _, hrID := range hrUsers {
			notes = append(notes, notification.Note{
				RecipientID: hrID,
				Title:       "Leave request awaiting HR review",
				Message:     "A manager-approved leave request is waiting for HR review.",
				Link:        link,
			})
		}
		s.dispatcher.Dispatch(ctx, notes...)

	case ActionManagerReject:
		s.dispatcher.Dispatch(ctx, notification.Note{
			RecipientID: requester,
			Title:       "Leave request rejected by manager",
			Message:     "Your leave request was rejected: " + reason,
			Link:        link,
		})

	case ActionHRApprove:
		s.dispatcher.Dispatch(ctx, notification.Note{
			RecipientID: requester,
			Title:       "Leave request approved",
			Message:     "Your leave request passed HR review and is now final.",
			Link:        link,
		})

	case ActionHRReject:
		s.dispatcher.Dispatch(ctx, notification.Note{
			RecipientID: requester,
			Title:       "Leave request rejected by HR",
			Message:     "Your leave request was rejected: " + reason,
			Link:        link,
		})
	}
}
