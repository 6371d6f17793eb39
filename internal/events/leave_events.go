package events

import "time"

// All leave lifecycle notifications share one topic; the event_type field
// tells the consumer which transition fired.
const LeaveNotificationsTopic = "hr.leave.notifications.v1"

const (
	LeaveSubmitted = "leave.submitted"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveForwarded = "leave.forwarded"
	LeaveCancelled = "leave.cancelled"
)

type LeaveNotificationEvent struct {
	// EventID is the outbox row id; the dispatcher dedupes on it so a
	// redelivered kafka message cannot notify twice.
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	EmployeeID  string    `json:"employee_id"`
	RecipientID string    `json:"recipient_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}
