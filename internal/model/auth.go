package model

type LoginRequest struct {
	EmployeeNumber string `json:"employeeNumber" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

// Caller identifies who is making a request.
type Caller struct {
	ID             string
	Name           string
	EmployeeNumber string
	Role           Role
	Department     string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsReviewer() bool {
	return c.Role == RoleReviewer
}
