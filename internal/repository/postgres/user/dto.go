package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit        *int
	Offset       *int
	Page         *int
	Search       *string
	DepartmentID *int
	Role         *string
}

type SignInRequest struct {
	EmployeeID string `json:"employee_id" form:"employee_id"`
	Password   string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID           int     `json:"id"`
	EmployeeID   *string `json:"employee_id"`
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Role         *string `json:"role"`
	DepartmentID *int    `json:"department_id"`
	Department   *string `json:"department"`
	IsActive     *bool   `json:"is_active"`
	FaceEnrolled *bool   `json:"face_enrolled"`
}

type GetDetailByIdResponse struct {
	ID           int     `json:"id"`
	EmployeeID   *string `json:"employee_id"`
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Role         *string `json:"role"`
	DepartmentID *int    `json:"department_id"`
	Department   *string `json:"department"`
	IsActive     *bool   `json:"is_active"`
	FaceEnrolled *bool   `json:"face_enrolled"`
}

type CreateRequest struct {
	EmployeeID   *string `json:"employee_id" form:"employee_id"`
	Password     *string `json:"password" form:"password"`
	FullName     *string `json:"full_name" form:"full_name"`
	Email        *string `json:"email" form:"email"`
	Phone        *string `json:"phone" form:"phone"`
	Role         *string `json:"role" form:"role"`
	DepartmentID *int    `json:"department_id" form:"department_id"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID           int       `json:"id" bun:"-"`
	EmployeeID   *string   `json:"employee_id" bun:"employee_id"`
	Password     *string   `json:"-" bun:"password"`
	FullName     *string   `json:"full_name" bun:"full_name"`
	Email        *string   `json:"email" bun:"email"`
	Phone        *string   `json:"phone" bun:"phone"`
	Role         *string   `json:"role" bun:"role"`
	DepartmentID *int      `json:"department_id" bun:"department_id"`
	IsActive     bool      `json:"is_active" bun:"is_active"`
	CreatedAt    time.Time `json:"-" bun:"created_at"`
	CreatedBy    int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID           int     `json:"id" form:"id"`
	EmployeeID   *string `json:"employee_id" form:"employee_id"`
	Password     *string `json:"password" form:"password"`
	FullName     *string `json:"full_name" form:"full_name"`
	Email        *string `json:"email" form:"email"`
	Phone        *string `json:"phone" form:"phone"`
	Role         *string `json:"role" form:"role"`
	DepartmentID *int    `json:"department_id" form:"department_id"`
	IsActive     *bool   `json:"is_active" form:"is_active"`
}
