package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID uint `gorm:"primaryKey"`

	UserID              uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates"`
	CreatedByUserID     uuid.UUID `gorm:"type:uuid;not null"`
	LastUpdatedByUserID uuid.UUID `gorm:"type:uuid;not null"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	// HH:mm, only meaningful for partial-day leave. Nil means whole days.
	StartTime *string `gorm:"type:varchar(5)"`
	EndTime   *string `gorm:"type:varchar(5)"`

	Reason        string  `gorm:"type:text;not null"`
	HandoverNotes *string `gorm:"type:text"`

	Status           string  `gorm:"type:varchar(30);not null;default:'PENDING';index:idx_leave_requests_status"`
	ResolutionReason *string `gorm:"type:text"`

	ApprovalToken            *string `gorm:"type:varchar(64);uniqueIndex:idx_leave_requests_approval_token"`
	ApprovalTokenExpiresAt   *time.Time
	RevocationToken          *string `gorm:"type:varchar(64);uniqueIndex:idx_leave_requests_revocation_token"`
	RevocationTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// DurationDays is derived, never stored: always recomputed from the current
// date/time fields.
func (r *LeaveRequest) DurationDays() float64 {
	return DurationDays(r.StartDate, r.EndDate, r.StartTime, r.EndTime)
}

// CurrentApprovalToken returns the approval token slot as a Token value, nil
// when no token has been issued.
func (r *LeaveRequest) CurrentApprovalToken() *Token {
	if r.ApprovalToken == nil || r.ApprovalTokenExpiresAt == nil {
		return nil
	}
	return &Token{Value: *r.ApprovalToken, ExpiresAt: *r.ApprovalTokenExpiresAt}
}

// CurrentRevocationToken returns the revocation token slot as a Token value.
func (r *LeaveRequest) CurrentRevocationToken() *Token {
	if r.RevocationToken == nil || r.RevocationTokenExpiresAt == nil {
		return nil
	}
	return &Token{Value: *r.RevocationToken, ExpiresAt: *r.RevocationTokenExpiresAt}
}

// SetApprovalToken stores t in the approval slot and clears the revocation
// slot: at most one of the two token families is active at a time.
func (r *LeaveRequest) SetApprovalToken(t Token) {
	r.ApprovalToken = &t.Value
	r.ApprovalTokenExpiresAt = &t.ExpiresAt
	r.RevocationToken = nil
	r.RevocationTokenExpiresAt = nil
}

// SetRevocationToken stores t in the revocation slot and clears the approval
// slot.
func (r *LeaveRequest) SetRevocationToken(t Token) {
	r.RevocationToken = &t.Value
	r.RevocationTokenExpiresAt = &t.ExpiresAt
	r.ApprovalToken = nil
	r.ApprovalTokenExpiresAt = nil
}

// ClearTokens consumes whichever token is present. Tokens are single-use:
// cleared on successful processing or on detected expiry.
func (r *LeaveRequest) ClearTokens() {
	r.ApprovalToken = nil
	r.ApprovalTokenExpiresAt = nil
	r.RevocationToken = nil
	r.RevocationTokenExpiresAt = nil
}
