package dashboard

import (
	"context"

	"intelliface/backend/internal/repository/postgres/attendance"
)

type Attendance interface {
	GetStatistics(ctx context.Context, workDay string) (attendance.GetStatisticsResponse, error)
	GetTrend(ctx context.Context, days int) ([]attendance.TrendPoint, error)
}
