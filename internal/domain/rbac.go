package domain

// EnforceRequest is the access-control question asked of the rbac service.
type EnforceRequest struct {
	EmployeeID string
	Resource   string
	Action     string
}
