package leave

import "time"

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type DecisionRequest struct {
	Decision  string  `json:"decision" binding:"required,oneof=approve reject forward"`
	Comment   string  `json:"comment"`
	ForwardTo *string `json:"forward_to"`
}

type CancelLeaveRequest struct {
	Reason string `json:"reason"`
}

type ListLeavesFilter struct {
	EmployeeID string `form:"employee_id"`
	ReviewerID string `form:"reviewer_id"`
	Status     string `form:"status"`
}

type LeaveResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	LeaveType   string  `json:"leave_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalDays   int     `json:"total_days"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	ForwardedTo *string `json:"forwarded_to,omitempty"`
	DecidedBy   *string `json:"decided_by,omitempty"`
	DecidedAt   *string `json:"decided_at,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		Comment:    l.Comment,
		CreatedBy:  l.CreatedBy.String(),
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.ForwardedTo != nil {
		v := l.ForwardedTo.String()
		resp.ForwardedTo = &v
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
