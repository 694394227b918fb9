package attendance

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

type Filter struct {
	Limit        *int
	Offset       *int
	Page         *int
	Search       *string
	DepartmentID *int
	Status       *string
	Date         *string
}

type GetListResponse struct {
	ID           int        `json:"id"`
	UserID       *int       `json:"user_id"`
	EmployeeID   *string    `json:"employee_id"`
	FullName     *string    `json:"full_name"`
	DepartmentID *int       `json:"department_id"`
	Department   *string    `json:"department"`
	WorkDay      *date.Date `json:"work_day"`
	Status       *string    `json:"status"`
	CheckInTime  *time.Time `json:"-"`
	CheckOutTime *time.Time `json:"-"`
	TotalHours   string     `json:"total_hours"`
}

func (r *GetListResponse) MarshalJSON() ([]byte, error) {
	type Alias GetListResponse
	aux := &struct {
		CheckInTime  string `json:"check_in_time,omitempty"`
		CheckOutTime string `json:"check_out_time,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.CheckInTime != nil {
		aux.CheckInTime = r.CheckInTime.Format("15:04")
	}
	if r.CheckOutTime != nil {
		aux.CheckOutTime = r.CheckOutTime.Format("15:04")
	}

	return json.Marshal(aux)
}

type MonthlyFilter struct {
	Year         int
	Month        time.Month
	DepartmentID *int
}

// MonthlyRow is one attendance record flattened for the excel export and the
// pdf report.
type MonthlyRow struct {
	EmployeeID   string
	FullName     string
	Department   string
	WorkDay      string
	Status       string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	TotalHours   string
}

type GetStatisticsResponse struct {
	TotalEmployees int `json:"total_employees"`
	Present        int `json:"present"`
	Late           int `json:"late"`
	Absent         int `json:"absent"`
	CheckedOut     int `json:"checked_out"`
}

type TrendPoint struct {
	WorkDay      *date.Date `json:"work_day"`
	PresentCount int        `json:"present_count"`
	LateCount    int        `json:"late_count"`
	AbsentCount  int        `json:"absent_count"`
}
