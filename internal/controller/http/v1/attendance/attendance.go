package attendance

import (
	"fmt"
	"log"
	"net/http"
	"reflect"
	"time"

	"github.com/pkg/errors"

	"intelliface/backend/foundation/web"
	engine "intelliface/backend/internal/attendance"
	"intelliface/backend/internal/auth"
	"intelliface/backend/internal/geofence"
	"intelliface/backend/internal/repository/postgres/attendance"
	"intelliface/backend/internal/service"
)

type Controller struct {
	engine     Engine
	attendance Attendance
}

func NewController(eng Engine, attendance Attendance) *Controller {
	return &Controller{engine: eng, attendance: attendance}
}

// CheckIn runs the verification gates for the authenticated user and creates
// today's record when every gate passes.
func (uc Controller) CheckIn(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request CheckInRequest
	if err := c.BindFunc(&request, "Latitude", "Longitude", "ImageBase64"); err != nil {
		return c.RespondError(err)
	}

	sample := engine.Sample{Data: *request.ImageBase64}
	if ref, err := service.SaveSnapshot(*request.ImageBase64, "snapshots"); err != nil {
		log.Println("saving check-in snapshot:", err)
	} else {
		sample.Ref = ref
	}

	point := &geofence.Point{Latitude: *request.Latitude, Longitude: *request.Longitude}

	record, err := uc.engine.AttemptCheckIn(c.Ctx, claims.UserId, point, &sample)
	if err != nil {
		return c.RespondError(engineError(err))
	}

	return c.Respond(map[string]interface{}{
		"data":   record,
		"status": true,
	}, http.StatusCreated)
}

// CheckOut closes today's open record. The face sample is optional here.
func (uc Controller) CheckOut(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request CheckOutRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	var sample *engine.Sample
	if request.ImageBase64 != nil && *request.ImageBase64 != "" {
		sample = &engine.Sample{Data: *request.ImageBase64}
		if ref, err := service.SaveSnapshot(*request.ImageBase64, "snapshots"); err != nil {
			log.Println("saving check-out snapshot:", err)
		} else {
			sample.Ref = ref
		}
	}

	record, err := uc.engine.AttemptCheckOut(c.Ctx, claims.UserId, sample)
	if err != nil {
		return c.RespondError(engineError(err))
	}

	return c.Respond(map[string]interface{}{
		"data":   record,
		"status": true,
	}, http.StatusOK)
}

// GetToday returns the authenticated user's record for the current work day,
// or null when there is none.
func (uc Controller) GetToday(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	record, err := uc.engine.GetTodayRecord(c.Ctx, claims.UserId)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   record,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if departmentId, ok := c.GetQueryFunc(reflect.Int, "department_id").(*int); ok {
		filter.DepartmentID = departmentId
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// ExportExcel builds an xlsx of the requested month and serves it.
func (uc Controller) ExportExcel(c *web.Context) error {
	filter, err := uc.monthlyFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.attendance.GetMonthly(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	fileName := fmt.Sprintf("attendance-%d-%02d.xlsx", filter.Year, filter.Month)
	path, err := service.CreateAttendanceExcel(rows, fileName)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "creating excel export"), http.StatusInternalServerError))
	}

	c.FileAttachment(path, fileName)
	return nil
}

// ExportReport builds a pdf report of the requested month and serves it.
func (uc Controller) ExportReport(c *web.Context) error {
	filter, err := uc.monthlyFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.attendance.GetMonthly(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	fileName := fmt.Sprintf("attendance-%d-%02d.pdf", filter.Year, filter.Month)
	path, err := service.CreateMonthlyReport(rows, filter.Year, filter.Month, fileName)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "creating pdf report"), http.StatusInternalServerError))
	}

	c.FileAttachment(path, fileName)
	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.attendance.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) monthlyFilter(c *web.Context) (attendance.MonthlyFilter, error) {
	now := time.Now()
	filter := attendance.MonthlyFilter{Year: now.Year(), Month: now.Month()}

	if year, ok := c.GetQueryFunc(reflect.Int, "year").(*int); ok && year != nil {
		filter.Year = *year
	}
	if month, ok := c.GetQueryFunc(reflect.Int, "month").(*int); ok && month != nil {
		if *month < 1 || *month > 12 {
			return attendance.MonthlyFilter{}, web.NewRequestError(errors.New("month must be 1..12"), http.StatusBadRequest)
		}
		filter.Month = time.Month(*month)
	}
	if departmentId, ok := c.GetQueryFunc(reflect.Int, "department_id").(*int); ok {
		filter.DepartmentID = departmentId
	}
	if err := c.ValidQuery(); err != nil {
		return attendance.MonthlyFilter{}, err
	}

	return filter, nil
}

// engineError translates the engine's sentinel errors into response statuses.
func engineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, engine.ErrNotEnrolled),
		errors.Is(err, engine.ErrNoLocationAssigned),
		errors.Is(err, engine.ErrAlreadyCheckedIn),
		errors.Is(err, engine.ErrAlreadyCheckedOut),
		errors.Is(err, engine.ErrFaceMismatch):
		return web.NewRequestError(err, http.StatusBadRequest)
	case errors.Is(err, engine.ErrOutsideGeofence):
		return web.NewRequestError(err, http.StatusForbidden)
	case errors.Is(err, engine.ErrNoCheckInFound):
		return web.NewRequestError(err, http.StatusNotFound)
	case errors.Is(err, engine.ErrVerificationUnavailable):
		return web.NewRequestError(err, http.StatusServiceUnavailable)
	default:
		return err
	}
}
