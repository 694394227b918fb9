package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	EmployeeID   *string    `json:"employee_id"   bun:"employee_id"`
	FullName     *string    `json:"full_name"     bun:"full_name"`
	Email        *string    `json:"email"         bun:"email"`
	Phone        *string    `json:"phone"         bun:"phone"`
	Password     *string    `json:"-"             bun:"password"`
	Role         *string    `json:"role"          bun:"role"`
	DepartmentID *int       `json:"department_id" bun:"department_id"`
	IsActive     *bool      `json:"is_active"     bun:"is_active"`
	FaceEnrolled *bool      `json:"face_enrolled" bun:"face_enrolled"`
	FaceRef      *string    `json:"-"             bun:"face_ref"`
	EnrolledAt   *time.Time `json:"-"             bun:"enrolled_at"`
}
