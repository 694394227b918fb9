package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance statuses. Computed once at check-in, never recomputed.
const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
	StatusOnLeave = "On Leave"
)

type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	BasicEntity
	UserID       *int       `json:"user_id"        bun:"user_id"`
	WorkDay      string     `json:"work_day"       bun:"work_day"`
	CheckInTime  *time.Time `json:"check_in_time"  bun:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time" bun:"check_out_time"`
	Status       *string    `json:"status"         bun:"status"`
	Latitude     *float64   `json:"latitude"       bun:"latitude"`
	Longitude    *float64   `json:"longitude"      bun:"longitude"`
	SnapshotRef  *string    `json:"snapshot_ref"   bun:"snapshot_ref"`
}
