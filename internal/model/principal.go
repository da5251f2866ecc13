package model

import (
	"time"
)

// Role is the access level of a principal.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
	RoleEmployee Role = "employee"
)

var Roles = []Role{RoleAdmin, RoleReviewer, RoleEmployee}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleEmployee:
		return true
	}
	return false
}

// HasPassword reports whether principals with this role carry credentials.
func (r Role) HasPassword() bool {
	return r == RoleAdmin || r == RoleReviewer
}

// Principal is any user of the system: admin, reviewer or plain employee.
type Principal struct {
	ID             string    `json:"id" bson:"_id" db:"id"`
	EmployeeNumber string    `json:"employeeNumber" bson:"employeeNumber" db:"employee_number"`
	Name           string    `json:"name" bson:"name" db:"name"`
	Email          string    `json:"email" bson:"email" db:"email"`
	Department     string    `json:"department" bson:"department" db:"department"`
	Designation    string    `json:"designation" bson:"designation" db:"designation"`
	Role           Role      `json:"role" bson:"role" db:"role"`
	PasswordHash   string    `json:"-" bson:"password,omitempty" db:"password_hash"`
	CreditPoints   int       `json:"creditPoints" bson:"creditPoints" db:"credit_points"`
	IsActive       bool      `json:"isActive" bson:"isActive" db:"is_active"`
	MobileNumber   string    `json:"mobileNumber" bson:"mobileNumber" db:"mobile_number"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// Caller is the authenticated principal as seen by the services.
func (p *Principal) Caller() Caller {
	return Caller{
		ID:             p.ID,
		Name:           p.Name,
		EmployeeNumber: p.EmployeeNumber,
		Role:           p.Role,
		Department:     p.Department,
	}
}

// PrincipalQuery filters principal listings.
type PrincipalQuery struct {
	Department      string
	Search          string
	Roles           []Role
	IncludeInactive bool
	Pagination      Pagination
	Sort            SortOrder
}

// PrincipalSortFields are the accepted sortBy values.
var PrincipalSortFields = map[string]bool{
	"creditPoints":   true,
	"name":           true,
	"employeeNumber": true,
	"email":          true,
	"department":     true,
	"designation":    true,
	"role":           true,
	"createdAt":      true,
	"updatedAt":      true,
}

// PrincipalFilter is the raw query string of a principal listing.
type PrincipalFilter struct {
	Department string
	Search     string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

type CreatePrincipalRequest struct {
	EmployeeNumber string `json:"employeeNumber" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Department     string `json:"department" binding:"required"`
	Designation    string `json:"designation" binding:"required"`
	Role           Role   `json:"role" binding:"omitempty,role"`
	MobileNumber   string `json:"mobileNumber" binding:"required,mobile"`
	Password       string `json:"password"`
	CreditPoints   int    `json:"creditPoints" binding:"min=0"`
}

type UpdatePrincipalRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Department   *string `json:"department"`
	Designation  *string `json:"designation"`
	Role         *Role   `json:"role" binding:"omitempty,role"`
	MobileNumber *string `json:"mobileNumber" binding:"omitempty,mobile"`
	Password     *string `json:"password"`
	CreditPoints *int    `json:"creditPoints" binding:"omitempty,min=0"`
	IsActive     *bool   `json:"isActive"`
}

type UpdateCreditsRequest struct {
	CreditPoints *int   `json:"creditPoints" binding:"required,min=0"`
	Reason       string `json:"reason"`
}

type CreateReviewerRequest struct {
	EmployeeNumber string `json:"employeeNumber" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           Role   `json:"role" binding:"omitempty,oneof=admin reviewer"`
	Department     string `json:"department" binding:"required"`
	Designation    string `json:"designation"`
	MobileNumber   string `json:"mobileNumber" binding:"required,mobile"`
}

type UpdateReviewerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=admin reviewer"`
	IsActive *bool   `json:"isActive"`
}

// PrincipalPage is a principal listing page.
type PrincipalPage struct {
	Principals  []*Principal
	Total       int64
	Departments []string
	TotalPages  int
	CurrentPage int
}
