package ledger

type BalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	PeriodYear    int    `json:"period_year"`
	AllottedDays  string `json:"allotted_days"`
	RemainingDays string `json:"remaining_days"`
}

type CreditBalanceRequest struct {
	LeaveType  string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID"`
	PeriodYear int    `json:"period_year" binding:"required,min=2000,max=2200"`
	Days       string `json:"days" binding:"required"`
}
