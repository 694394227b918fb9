package dashboard

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"

	"intelliface/backend/foundation/web"
	"intelliface/backend/internal/repository/postgres/attendance"
)

// cacheTTL bounds how stale dashboard numbers may get.
const cacheTTL = 60 * time.Second

type Controller struct {
	attendance Attendance
	cache      *redis.Client
	loc        *time.Location
}

// NewController wires the dashboard. cache may be nil, which disables
// caching. loc is the system-wide timezone; "today" here must agree with the
// work day the engine stamps on records.
func NewController(attendance Attendance, cache *redis.Client, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{attendance: attendance, cache: cache, loc: loc}
}

// GetStatistics serves today's headline numbers, cached for a minute.
func (uc Controller) GetStatistics(c *web.Context) error {
	workDay := time.Now().In(uc.loc).Format("2006-01-02")
	key := "dashboard:stats:" + workDay

	var cached attendance.GetStatisticsResponse
	if uc.fromCache(c, key, &cached) {
		return c.Respond(map[string]interface{}{
			"data":   cached,
			"status": true,
		}, http.StatusOK)
	}

	response, err := uc.attendance.GetStatistics(c.Ctx, workDay)
	if err != nil {
		return c.RespondError(err)
	}

	uc.toCache(c, key, response)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// GetTrend serves the per-day attendance counts of the last week (or ?days=N).
func (uc Controller) GetTrend(c *web.Context) error {
	days := 7
	if d, ok := c.GetQueryFunc(reflect.Int, "days").(*int); ok && d != nil {
		days = *d
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}
	if days < 1 || days > 90 {
		return c.RespondError(web.NewRequestError(fmt.Errorf("days must be 1..90, got %d", days), http.StatusBadRequest))
	}

	key := fmt.Sprintf("dashboard:trend:%s:%d", time.Now().In(uc.loc).Format("2006-01-02"), days)

	var cached []attendance.TrendPoint
	if uc.fromCache(c, key, &cached) {
		return c.Respond(map[string]interface{}{
			"data":   cached,
			"status": true,
		}, http.StatusOK)
	}

	response, err := uc.attendance.GetTrend(c.Ctx, days)
	if err != nil {
		return c.RespondError(err)
	}

	uc.toCache(c, key, response)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// fromCache fills target from redis. A cache miss or a broken cache is never
// an error, the caller just recomputes.
func (uc Controller) fromCache(c *web.Context, key string, target interface{}) bool {
	if uc.cache == nil {
		return false
	}

	raw, err := uc.cache.Get(c.Ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("dashboard cache get:", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		log.Println("dashboard cache decode:", err)
		return false
	}

	return true
}

func (uc Controller) toCache(c *web.Context, key string, value interface{}) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Println("dashboard cache encode:", err)
		return
	}

	if err := uc.cache.Set(c.Ctx, key, raw, cacheTTL).Err(); err != nil {
		log.Println("dashboard cache set:", err)
	}
}
