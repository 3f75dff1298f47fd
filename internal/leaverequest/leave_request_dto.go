package leaverequest

import "time"

type CreateRequest struct {
	LeaveType     string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID STATUTORY"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Reason        string  `json:"reason" binding:"required"`
	HandoverNotes *string `json:"handover_notes"`
}

type UpdateStatusRequest struct {
	Status           string  `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	ResolutionReason *string `json:"resolution_reason"`
}

// ProcessApprovalRequest carries the optional body of an anonymous approval
// POST. The action itself comes from the route, not the payload.
type ProcessApprovalRequest struct {
	Action           string  `json:"-"`
	ResolutionReason *string `json:"resolution_reason"`
}

type ListQuery struct {
	SearchTerm   string
	StatusFilter string
	Page         int
	PageSize     int
}

type LeaveRequestResponse struct {
	ID                  uint    `json:"id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name,omitempty"`
	Department          string  `json:"department,omitempty"`
	CreatedByUserID     string  `json:"created_by_user_id"`
	LastUpdatedByUserID string  `json:"last_updated_by_user_id"`
	LeaveType           string  `json:"leave_type"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	StartTime           *string `json:"start_time,omitempty"`
	EndTime             *string `json:"end_time,omitempty"`
	DurationInDays      float64 `json:"duration_in_days"`
	Reason              string  `json:"reason"`
	HandoverNotes       *string `json:"handover_notes,omitempty"`
	Status              string  `json:"status"`
	ResolutionReason    *string `json:"resolution_reason,omitempty"`
	CreatedAt           string  `json:"created_at"`
	LastUpdatedAt       string  `json:"last_updated_at"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type EntitlementSummary struct {
	Year          int     `json:"year"`
	EntitledDays  float64 `json:"entitled_days"`
	UsedDays      float64 `json:"used_days"`
	RemainingDays float64 `json:"remaining_days"`
}

type DashboardStats struct {
	CountsByStatus []StatusCount          `json:"counts_by_status"`
	Entitlement    EntitlementSummary     `json:"entitlement"`
	Recent         []LeaveRequestResponse `json:"recent"`
}

func mapToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                  r.ID,
		UserID:              r.UserID.String(),
		CreatedByUserID:     r.CreatedByUserID.String(),
		LastUpdatedByUserID: r.LastUpdatedByUserID.String(),
		LeaveType:           r.LeaveType,
		StartDate:           r.StartDate.Format("2006-01-02"),
		EndDate:             r.EndDate.Format("2006-01-02"),
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		DurationInDays:      r.DurationDays(),
		Reason:              r.Reason,
		HandoverNotes:       r.HandoverNotes,
		Status:              r.Status,
		ResolutionReason:    r.ResolutionReason,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		LastUpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
