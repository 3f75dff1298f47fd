package leaverequest

const (
	StatusPending           = "PENDING"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusCancelled         = "CANCELLED"
	StatusPendingRevocation = "PENDING_REVOCATION"
)

const (
	LeaveTypeAnnual    = "ANNUAL"
	LeaveTypeSick      = "SICK"
	LeaveTypeUnpaid    = "UNPAID"
	LeaveTypeStatutory = "STATUTORY"
)

// allowedTransitions is the single source of truth for status legality. It is
// deliberately independent of authorization: whether a transition may happen
// and whether this actor may trigger it are checked separately.
var allowedTransitions = map[string][]string{
	StatusPending:           {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:          {StatusPendingRevocation},
	StatusPendingRevocation: {StatusPending, StatusApproved},
	StatusRejected:          {},
	StatusCancelled:         {},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status. APPROVED is not
// terminal: the revocation cycle can reopen it.
func IsTerminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}
