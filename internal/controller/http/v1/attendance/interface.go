package attendance

import (
	"context"

	engine "intelliface/backend/internal/attendance"
	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/geofence"
	"intelliface/backend/internal/repository/postgres/attendance"
)

// Engine runs the check-in/check-out verification gates.
type Engine interface {
	AttemptCheckIn(ctx context.Context, userID int, point *geofence.Point, sample *engine.Sample) (*entity.Attendance, error)
	AttemptCheckOut(ctx context.Context, userID int, sample *engine.Sample) (*entity.Attendance, error)
	GetTodayRecord(ctx context.Context, userID int) (*entity.Attendance, error)
}

type Attendance interface {
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetById(ctx context.Context, id int) (entity.Attendance, error)
	GetMonthly(ctx context.Context, filter attendance.MonthlyFilter) ([]attendance.MonthlyRow, error)
	Delete(ctx context.Context, id int) error
}
