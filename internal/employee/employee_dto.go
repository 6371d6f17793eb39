package employee

type CreateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        string  `json:"phone"`
	Role         string  `json:"role" binding:"required,oneof=employee supervisor admin"`
	SupervisorID *string `json:"supervisor_id"`
}

type UpdateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Phone        string  `json:"phone"`
	Role         string  `json:"role" binding:"required,oneof=employee supervisor admin"`
	SupervisorID *string `json:"supervisor_id"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	Role         string  `json:"role"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Phone:    e.Phone,
		Role:     e.Role,
	}
	if e.SupervisorID != nil {
		v := e.SupervisorID.String()
		resp.SupervisorID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
