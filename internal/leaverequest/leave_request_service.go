package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leaveflow/internal/directory"
	"leaveflow/internal/events"
	"leaveflow/internal/identity"
	leaverequesterrors "leaveflow/internal/leaverequest/errors"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/notification"
)

const (
	// directoryTimeout bounds lookups on the authorization path. No retry:
	// a retry there would visibly delay the caller.
	directoryTimeout = 3 * time.Second
	// relayTimeout bounds the post-commit webhook push.
	relayTimeout = 5 * time.Second

	// DefaultAnnualEntitlementDays is the yearly annual-leave allowance used
	// for the dashboard summary.
	DefaultAnnualEntitlementDays = 25.0
)

const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, actor identity.Actor, q ListQuery) ([]LeaveRequestResponse, int64, error)
	GetByID(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, id uint, req UpdateStatusRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error)
	SendForApproval(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error)
	ProcessApproval(ctx context.Context, token string, req ProcessApprovalRequest) (LeaveRequestResponse, error)
	RequestRevocation(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error)
	ProcessRevocation(ctx context.Context, token string) (LeaveRequestResponse, error)
	Resubmit(ctx context.Context, actor identity.Actor, id uint, req CreateRequest) (LeaveRequestResponse, error)
	DashboardStats(ctx context.Context, actor identity.Actor) (DashboardStats, error)
	ExportSpreadsheet(ctx context.Context, actor identity.Actor, q ListQuery) ([]byte, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	outbox        kafka.OutboxRepository
	directory     directory.Directory
	relay         notification.WebhookRelay
	publicBaseURL string
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	dir directory.Directory,
	relay notification.WebhookRelay,
	publicBaseURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		outbox:        outbox,
		directory:     dir,
		relay:         relay,
		publicBaseURL: publicBaseURL,
		logger:        l,
	}
}

// ---- create / resubmit ----

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("user_id", actor.UserID.String()),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPending(ctx, actor.UserID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave request overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave request overlap detected",
			zap.String("user_id", actor.UserID.String()),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrOverlappingPending
	}

	lr := &LeaveRequest{
		UserID:              actor.UserID,
		CreatedByUserID:     actor.UserID,
		LastUpdatedByUserID: actor.UserID,
		LeaveType:           req.LeaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Reason:              req.Reason,
		HandoverNotes:       req.HandoverNotes,
		Status:              StatusPending,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.emitEvent(ctx, tx, lr, events.LeaveRequestCreated, "", actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.Uint("request_id", lr.ID),
		zap.String("user_id", actor.UserID.String()),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Resubmit(ctx context.Context, actor identity.Actor, id uint, req CreateRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("resubmit leave request",
		zap.Uint("request_id", id),
		zap.String("user_id", actor.UserID.String()),
	)

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resubmit begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	old, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !actor.Owns(old.UserID) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}
	if old.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	fromStatus := old.Status
	old.Status = StatusCancelled
	old.LastUpdatedByUserID = actor.UserID
	old.ClearTokens()
	if err := qtx.Update(ctx, old); err != nil {
		s.logger.Error("resubmit cancel old request failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, old, events.LeaveRequestCancelled, fromStatus, actor)

	overlap, err := qtx.HasOverlappingPending(ctx, actor.UserID, startDate, endDate, &id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		return LeaveRequestResponse{}, leaverequesterrors.ErrOverlappingPending
	}

	replacement := &LeaveRequest{
		UserID:              actor.UserID,
		CreatedByUserID:     actor.UserID,
		LastUpdatedByUserID: actor.UserID,
		LeaveType:           req.LeaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Reason:              req.Reason,
		HandoverNotes:       req.HandoverNotes,
		Status:              StatusPending,
	}
	if err := qtx.Create(ctx, replacement); err != nil {
		s.logger.Error("resubmit create replacement failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, replacement, events.LeaveRequestResubmitted, fromStatus, actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("resubmit commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request resubmitted",
		zap.Uint("old_request_id", id),
		zap.Uint("new_request_id", replacement.ID),
	)
	return mapToResponse(*replacement), nil
}

// ---- read paths ----

func (s *service) List(ctx context.Context, actor identity.Actor, q ListQuery) ([]LeaveRequestResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.StatusFilter != "" && !IsValidStatus(q.StatusFilter) {
		return nil, 0, leaverequesterrors.ErrInvalidStatus
	}

	scope, err := s.visibilityScope(ctx, actor)
	if err != nil {
		return nil, 0, err
	}

	requests, total, err := s.repo.Search(ctx, scope, q)
	if err != nil {
		return nil, 0, err
	}

	resp := mapToListResponse(requests)
	s.enrich(ctx, requests, resp)
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error) {
	lr, err := s.findByID(ctx, s.repo, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := s.authorizeView(ctx, actor, lr); err != nil {
		return LeaveRequestResponse{}, err
	}

	resp := mapToResponse(*lr)
	s.enrich(ctx, []LeaveRequest{*lr}, []LeaveRequestResponse{resp})
	return resp, nil
}

func (s *service) DashboardStats(ctx context.Context, actor identity.Actor) (DashboardStats, error) {
	scope, err := s.visibilityScope(ctx, actor)
	if err != nil {
		return DashboardStats{}, err
	}

	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return DashboardStats{}, err
	}

	year := time.Now().UTC().Year()
	approved, err := s.repo.FindApprovedForUserYear(ctx, actor.UserID, LeaveTypeAnnual, year)
	if err != nil {
		return DashboardStats{}, err
	}
	var used float64
	for _, r := range approved {
		used += r.DurationDays()
	}

	recent, _, err := s.repo.Search(ctx, scope, ListQuery{Page: 1, PageSize: 5})
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		CountsByStatus: counts,
		Entitlement: EntitlementSummary{
			Year:          year,
			EntitledDays:  DefaultAnnualEntitlementDays,
			UsedDays:      used,
			RemainingDays: DefaultAnnualEntitlementDays - used,
		},
		Recent: mapToListResponse(recent),
	}, nil
}

// ---- authenticated transitions ----

func (s *service) UpdateStatus(ctx context.Context, actor identity.Actor, id uint, req UpdateStatusRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("update leave request status",
		zap.Uint("request_id", id),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("target_status", req.Status),
	)

	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update status begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	// Re-validate the precondition right before mutating: a concurrent
	// approval loses here with a definitive error, not a silent overwrite.
	if lr.Status != StatusPending || !CanTransition(lr.Status, req.Status) {
		s.logger.Warn("update status transition rejected",
			zap.Uint("request_id", id),
			zap.String("from_status", lr.Status),
			zap.String("to_status", req.Status),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	if err := s.authorizeApprover(ctx, actor, lr); err != nil {
		return LeaveRequestResponse{}, err
	}

	fromStatus := lr.Status
	lr.Status = req.Status
	lr.ResolutionReason = req.ResolutionReason
	lr.LastUpdatedByUserID = actor.UserID
	lr.ClearTokens()

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("update status persist failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	eventType := events.LeaveRequestApproved
	if req.Status == StatusRejected {
		eventType = events.LeaveRequestRejected
	}
	s.emitEvent(ctx, tx, lr, eventType, fromStatus, actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("update status commit failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request status updated",
		zap.Uint("request_id", id),
		zap.String("status", lr.Status),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Cancel(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error) {
	s.logger.Debug("cancel leave request",
		zap.Uint("request_id", id),
		zap.String("actor_id", actor.UserID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !actor.Owns(lr.UserID) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	fromStatus := lr.Status
	lr.Status = StatusCancelled
	lr.LastUpdatedByUserID = actor.UserID
	lr.ClearTokens()

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("cancel persist failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, lr, events.LeaveRequestCancelled, fromStatus, actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel commit failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request cancelled", zap.Uint("request_id", id))
	return mapToResponse(*lr), nil
}

func (s *service) SendForApproval(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error) {
	s.logger.Debug("send leave request for approval",
		zap.Uint("request_id", id),
		zap.String("actor_id", actor.UserID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("send for approval begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !actor.Owns(lr.UserID) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	token := NewToken(time.Now().UTC(), ApprovalTokenTTL)
	lr.SetApprovalToken(token)
	lr.LastUpdatedByUserID = actor.UserID

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("send for approval persist failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, lr, events.LeaveRequestSentForApproval, lr.Status, actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("send for approval commit failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.relayApprovalLink(ctx, lr, token)

	s.logger.Info("leave request sent for approval", zap.Uint("request_id", id))
	return mapToResponse(*lr), nil
}

func (s *service) RequestRevocation(ctx context.Context, actor identity.Actor, id uint) (LeaveRequestResponse, error) {
	s.logger.Debug("request leave revocation",
		zap.Uint("request_id", id),
		zap.String("actor_id", actor.UserID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request revocation begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !actor.Owns(lr.UserID) && !actor.IsAdmin() {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbidden
	}
	if lr.Status != StatusApproved {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	fromStatus := lr.Status
	lr.Status = StatusPendingRevocation
	lr.LastUpdatedByUserID = actor.UserID
	token := NewToken(time.Now().UTC(), RevocationTokenTTL)
	lr.SetRevocationToken(token)

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("request revocation persist failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, lr, events.LeaveRequestRevocationStarted, fromStatus, actor)

	if err := tx.Commit(); err != nil {
		s.logger.Error("request revocation commit failed", zap.Uint("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.relayRevocationLink(ctx, lr, token)

	s.logger.Info("leave revocation requested", zap.Uint("request_id", id))
	return mapToResponse(*lr), nil
}

// ---- anonymous token transitions ----

func (s *service) ProcessApproval(ctx context.Context, tokenValue string, req ProcessApprovalRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("process anonymous approval", zap.String("action", req.Action))

	if req.Action != ApprovalActionApprove && req.Action != ApprovalActionReject {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process approval begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByApprovalToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrTokenNotFound
		}
		return LeaveRequestResponse{}, err
	}

	token := lr.CurrentApprovalToken()
	if token == nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrTokenNotFound
	}

	now := time.Now().UTC()
	if !token.Valid(now) {
		// Lazy cleanup: consume the stale token, leave the request PENDING.
		lr.ClearTokens()
		if err := qtx.Update(ctx, lr); err != nil {
			return LeaveRequestResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return LeaveRequestResponse{}, err
		}
		s.logger.Warn("expired approval token consumed", zap.Uint("request_id", lr.ID))
		return LeaveRequestResponse{}, leaverequesterrors.ErrApprovalTokenExpired
	}

	// The token implies PENDING, but a replayed link on a request that has
	// moved on must fail loudly.
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	fromStatus := lr.Status
	eventType := events.LeaveRequestApproved
	if req.Action == ApprovalActionReject {
		lr.Status = StatusRejected
		eventType = events.LeaveRequestRejected
	} else {
		lr.Status = StatusApproved
	}
	lr.ResolutionReason = req.ResolutionReason
	lr.ClearTokens()

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("process approval persist failed", zap.Uint("request_id", lr.ID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, lr, eventType, fromStatus, identity.Actor{})

	if err := tx.Commit(); err != nil {
		s.logger.Error("process approval commit failed", zap.Uint("request_id", lr.ID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("anonymous approval processed",
		zap.Uint("request_id", lr.ID),
		zap.String("status", lr.Status),
	)
	return mapToResponse(*lr), nil
}

func (s *service) ProcessRevocation(ctx context.Context, tokenValue string) (LeaveRequestResponse, error) {
	s.logger.Debug("process anonymous revocation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process revocation begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByRevocationToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrTokenNotFound
		}
		return LeaveRequestResponse{}, err
	}

	token := lr.CurrentRevocationToken()
	if token == nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrTokenNotFound
	}
	if lr.Status != StatusPendingRevocation {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	if !token.Valid(now) {
		// Expired revocation reverts to APPROVED, and the caller is told so.
		lr.Status = StatusApproved
		lr.ClearTokens()
		if err := qtx.Update(ctx, lr); err != nil {
			return LeaveRequestResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return LeaveRequestResponse{}, err
		}
		s.logger.Warn("expired revocation token, request reverted to approved",
			zap.Uint("request_id", lr.ID),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrRevocationTokenExpired
	}

	fromStatus := lr.Status
	lr.Status = StatusPending
	lr.ClearTokens()

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("process revocation persist failed", zap.Uint("request_id", lr.ID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.emitEvent(ctx, tx, lr, events.LeaveRequestRevoked, fromStatus, identity.Actor{})

	if err := tx.Commit(); err != nil {
		s.logger.Error("process revocation commit failed", zap.Uint("request_id", lr.ID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("approval revoked, request re-entered pipeline", zap.Uint("request_id", lr.ID))
	return mapToResponse(*lr), nil
}

// ---- authorization ----

// visibilityScope resolves the set of user ids the actor may see. A
// directory failure here aborts: scoping is an authorization decision.
func (s *service) visibilityScope(ctx context.Context, actor identity.Actor) (VisibilityScope, error) {
	switch {
	case actor.IsAdmin():
		return ScopeAll(), nil
	case actor.IsSuperUser():
		dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
		defer cancel()

		ids, err := s.directory.ListDepartment(dctx, actor.Department)
		if err != nil {
			s.logger.Error("department listing failed", zap.String("department", actor.Department), zap.Error(err))
			return VisibilityScope{}, leaverequesterrors.ErrDirectoryUnavailable
		}

		seen := false
		for _, id := range ids {
			if id == actor.UserID {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, actor.UserID)
		}
		return ScopeUsers(ids...), nil
	default:
		return ScopeUsers(actor.UserID), nil
	}
}

func (s *service) authorizeView(ctx context.Context, actor identity.Actor, lr *LeaveRequest) error {
	if actor.IsAdmin() || actor.Owns(lr.UserID) {
		return nil
	}
	if !actor.IsSuperUser() {
		return leaverequesterrors.ErrForbidden
	}
	return s.requireSameDepartment(ctx, actor, lr.UserID)
}

// authorizeApprover enforces the approve/reject rules: Admin always,
// SuperUser only within their own department.
func (s *service) authorizeApprover(ctx context.Context, actor identity.Actor, lr *LeaveRequest) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsSuperUser() {
		return leaverequesterrors.ErrForbidden
	}
	return s.requireSameDepartment(ctx, actor, lr.UserID)
}

// requireSameDepartment fails closed: if the directory cannot answer, we
// cannot verify authorization and must abort rather than guess.
func (s *service) requireSameDepartment(ctx context.Context, actor identity.Actor, requesterID uuid.UUID) error {
	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()

	profile, err := s.directory.Resolve(dctx, requesterID)
	if err != nil {
		s.logger.Error("requester lookup failed",
			zap.String("requester_id", requesterID.String()),
			zap.Error(err),
		)
		return leaverequesterrors.ErrDirectoryUnavailable
	}
	if profile.Department != actor.Department {
		return leaverequesterrors.ErrDepartmentMismatch
	}
	return nil
}

// ---- side effects ----

// emitEvent stages a lifecycle event in the outbox within the transaction.
// An outbox failure is logged and swallowed: delivery never gates the
// transition.
func (s *service) emitEvent(ctx context.Context, tx *sql.Tx, lr *LeaveRequest, eventType, fromStatus string, actor identity.Actor) {
	ev := events.LeaveRequestEvent{
		EventType:  eventType,
		RequestID:  lr.ID,
		UserID:     lr.UserID.String(),
		FromStatus: fromStatus,
		ToStatus:   lr.Status,
		LeaveType:  lr.LeaveType,
		StartDate:  lr.StartDate.Format("2006-01-02"),
		EndDate:    lr.EndDate.Format("2006-01-02"),
		OccurredAt: time.Now().UTC(),
	}
	if actor.UserID != uuid.Nil {
		ev.ActorID = actor.UserID.String()
	}
	if lr.ResolutionReason != nil {
		ev.ResolutionReason = *lr.ResolutionReason
	}

	outboxEvent, err := kafka.NewLeaveRequestOutboxEvent(ctx, ev)
	if err != nil {
		s.logger.Error("build outbox event failed", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("stage outbox event failed", zap.String("event_type", eventType), zap.Error(err))
	}
}

// relayApprovalLink pushes the action links after commit. Best-effort: a
// relay failure is logged, the transition already stands.
func (s *service) relayApprovalLink(ctx context.Context, lr *LeaveRequest, token Token) {
	rctx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()

	link := notification.ApprovalLink{
		RequestID:    lr.ID,
		LeaveType:    lr.LeaveType,
		StartDate:    lr.StartDate.Format("2006-01-02"),
		EndDate:      lr.EndDate.Format("2006-01-02"),
		DurationDays: lr.DurationDays(),
		Reason:       lr.Reason,
		ApproveURL:   fmt.Sprintf("%s/api/v1/public/leave-approvals/%s/approve", s.publicBaseURL, token.Value),
		RejectURL:    fmt.Sprintf("%s/api/v1/public/leave-approvals/%s/reject", s.publicBaseURL, token.Value),
		ExpiresAt:    token.ExpiresAt,
	}

	// Enrichment is optional: missing directory data degrades to a sparse
	// payload, it never blocks the link.
	if profile, err := s.directory.Resolve(rctx, lr.UserID); err == nil {
		link.RequesterName = profile.FullName
		link.RequesterEmail = profile.Email
		link.Department = profile.Department
	} else {
		s.logger.Warn("approval link enrichment failed", zap.Uint("request_id", lr.ID), zap.Error(err))
	}

	if err := s.relay.SendApprovalRequest(rctx, link); err != nil {
		s.logger.Warn("approval link relay failed", zap.Uint("request_id", lr.ID), zap.Error(err))
	}
}

func (s *service) relayRevocationLink(ctx context.Context, lr *LeaveRequest, token Token) {
	rctx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()

	link := notification.RevocationLink{
		RequestID:  lr.ID,
		StartDate:  lr.StartDate.Format("2006-01-02"),
		EndDate:    lr.EndDate.Format("2006-01-02"),
		ConfirmURL: fmt.Sprintf("%s/api/v1/public/leave-revocations/%s", s.publicBaseURL, token.Value),
		ExpiresAt:  token.ExpiresAt,
	}

	if profile, err := s.directory.Resolve(rctx, lr.UserID); err == nil {
		link.RequesterName = profile.FullName
		link.RequesterEmail = profile.Email
		link.Department = profile.Department
	} else {
		s.logger.Warn("revocation link enrichment failed", zap.Uint("request_id", lr.ID), zap.Error(err))
	}

	if err := s.relay.SendRevocationRequest(rctx, link); err != nil {
		s.logger.Warn("revocation link relay failed", zap.Uint("request_id", lr.ID), zap.Error(err))
	}
}

// ---- helpers ----

func (s *service) findByID(ctx context.Context, repo Repository, id uint) (*LeaveRequest, error) {
	lr, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaverequesterrors.ErrNotFound
		}
		return nil, err
	}
	return lr, nil
}

// enrich decorates responses with requester names from the directory.
// Failures degrade to un-enriched rows.
func (s *service) enrich(ctx context.Context, requests []LeaveRequest, resp []LeaveRequestResponse) {
	if len(requests) == 0 {
		return
	}

	idSet := make(map[uuid.UUID]struct{}, len(requests))
	ids := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		if _, ok := idSet[r.UserID]; !ok {
			idSet[r.UserID] = struct{}{}
			ids = append(ids, r.UserID)
		}
	}

	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()

	profiles, err := s.directory.ResolveMany(dctx, ids)
	if err != nil {
		s.logger.Warn("list enrichment failed", zap.Error(err))
		return
	}

	byID := make(map[string]directory.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID.String()] = p
	}
	for i := range resp {
		if p, ok := byID[resp[i].UserID]; ok {
			resp[i].UserName = p.FullName
			resp[i].Department = p.Department
		}
	}
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}
