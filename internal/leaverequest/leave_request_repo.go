package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibilityScope narrows queries to what the caller may see: everything for
// admins, an explicit user-id set for everyone else.
type VisibilityScope struct {
	AllUsers bool
	UserIDs  []uuid.UUID
}

func ScopeAll() VisibilityScope {
	return VisibilityScope{AllUsers: true}
}

func ScopeUsers(ids ...uuid.UUID) VisibilityScope {
	return VisibilityScope{UserIDs: ids}
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id uint) (*LeaveRequest, error)
	FindByApprovalToken(ctx context.Context, token string) (*LeaveRequest, error)
	FindByRevocationToken(ctx context.Context, token string) (*LeaveRequest, error)
	Search(ctx context.Context, scope VisibilityScope, q ListQuery) ([]LeaveRequest, int64, error)
	Update(ctx context.Context, r *LeaveRequest) error
	HasOverlappingPending(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time, excludeID *uint) (bool, error)
	CountByStatus(ctx context.Context, scope VisibilityScope) ([]StatusCount, error)
	FindApprovedForUserYear(ctx context.Context, userID uuid.UUID, leaveType string, year int) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) FindByApprovalToken(ctx context.Context, token string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		First(&lr, "approval_token = ?", token).Error
	return &lr, err
}

func (r *repository) FindByRevocationToken(ctx context.Context, token string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		First(&lr, "revocation_token = ?", token).Error
	return &lr, err
}

func (r *repository) scoped(db *gorm.DB, scope VisibilityScope) *gorm.DB {
	if scope.AllUsers {
		return db
	}
	return db.Where("user_id IN ?", scope.UserIDs)
}

func (r *repository) Search(ctx context.Context, scope VisibilityScope, q ListQuery) ([]LeaveRequest, int64, error) {
	db := r.scoped(r.db.WithContext(ctx).Model(&LeaveRequest{}), scope)

	if q.StatusFilter != "" {
		db = db.Where("status = ?", q.StatusFilter)
	}
	if q.SearchTerm != "" {
		like := "%" + q.SearchTerm + "%"
		db = db.Where("reason ILIKE ? OR leave_type ILIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := db.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) HasOverlappingPending(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time, excludeID *uint) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusPending).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByStatus(ctx context.Context, scope VisibilityScope) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.scoped(r.db.WithContext(ctx).Model(&LeaveRequest{}), scope).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *repository) FindApprovedForUserYear(ctx context.Context, userID uuid.UUID, leaveType string, year int) ([]LeaveRequest, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type = ?", leaveType).
		Where("status = ?", StatusApproved).
		Where("start_date >= ? AND start_date < ?", yearStart, yearEnd).
		Find(&requests).Error
	return requests, err
}
