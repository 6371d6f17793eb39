package notification

import "time"

type NotificationResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
	EventType      string  `json:"event_type"`
	Channel        string  `json:"channel"`
	Message        string  `json:"message"`
	Status         string  `json:"status"`
	FailureReason  *string `json:"failure_reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
	DeliveredAt    *string `json:"delivered_at,omitempty"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID.String(),
		EventType:     n.EventType,
		Channel:       n.Channel,
		Message:       n.Message,
		Status:        n.Status,
		FailureReason: n.FailureReason,
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
	}
	if n.LeaveRequestID != nil {
		v := n.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	if n.DeliveredAt != nil {
		v := n.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &v
	}
	return resp
}

func mapToListResponse(notifications []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp
}
