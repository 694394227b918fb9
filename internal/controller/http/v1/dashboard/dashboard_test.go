package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"intelliface/backend/foundation/web"
	"intelliface/backend/internal/repository/postgres/attendance"
)

type fakeAttendance struct {
	statsFn func(ctx context.Context, workDay string) (attendance.GetStatisticsResponse, error)
	trendFn func(ctx context.Context, days int) ([]attendance.TrendPoint, error)
}

func (f *fakeAttendance) GetStatistics(ctx context.Context, workDay string) (attendance.GetStatisticsResponse, error) {
	return f.statsFn(ctx, workDay)
}

func (f *fakeAttendance) GetTrend(ctx context.Context, days int) ([]attendance.TrendPoint, error) {
	return f.trendFn(ctx, days)
}

func testContext(t *testing.T, target string) (*web.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	gc, _ := gin.CreateTestContext(w)
	gc.Request = httptest.NewRequest(http.MethodGet, target, nil)

	return web.NewContext(gc), w
}

func TestGetStatistics_TodayInConfiguredTimezone(t *testing.T) {
	// An offset no server runs in, so local time would pick the wrong day
	// for part of every date.
	loc := time.FixedZone("UTC+14", 14*60*60)

	var got string
	fake := &fakeAttendance{
		statsFn: func(ctx context.Context, workDay string) (attendance.GetStatisticsResponse, error) {
			got = workDay
			return attendance.GetStatisticsResponse{}, nil
		},
	}

	uc := NewController(fake, nil, loc)

	c, w := testContext(t, "/api/v1/dashboard/statistics")

	before := time.Now().In(loc).Format("2006-01-02")
	err := uc.GetStatistics(c)
	after := time.Now().In(loc).Format("2006-01-02")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, []string{before, after}, got)
}

func TestGetTrend_DaysOutOfRangeRejected(t *testing.T) {
	fake := &fakeAttendance{
		trendFn: func(ctx context.Context, days int) ([]attendance.TrendPoint, error) {
			t.Fatal("trend must not be queried for an invalid range")
			return nil, nil
		},
	}

	uc := NewController(fake, nil, time.UTC)

	c, w := testContext(t, "/api/v1/dashboard/trend?days=91")
	err := uc.GetTrend(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
