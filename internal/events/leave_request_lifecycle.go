package events

import "time"

const LeaveRequestLifecycleTopic = "hr.leave-request.lifecycle.v1"

const (
	LeaveRequestCreated           = "leave_request.created"
	LeaveRequestCancelled         = "leave_request.cancelled"
	LeaveRequestSentForApproval   = "leave_request.sent_for_approval"
	LeaveRequestApproved          = "leave_request.approved"
	LeaveRequestRejected          = "leave_request.rejected"
	LeaveRequestRevocationStarted = "leave_request.revocation_started"
	LeaveRequestRevoked           = "leave_request.revoked"
	LeaveRequestResubmitted       = "leave_request.resubmitted"
)

// LeaveRequestEvent is the single payload for every lifecycle event. The
// workflow persists it through the transactional outbox; audit and
// notification consumers fan it out downstream, so delivery never gates a
// transition.
type LeaveRequestEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        uint      `json:"request_id"`
	UserID           string    `json:"user_id"`
	ActorID          string    `json:"actor_id,omitempty"`
	FromStatus       string    `json:"from_status,omitempty"`
	ToStatus         string    `json:"to_status"`
	LeaveType        string    `json:"leave_type"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	ResolutionReason string    `json:"resolution_reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
