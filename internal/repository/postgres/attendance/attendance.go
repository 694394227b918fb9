package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"

	"intelliface/backend/foundation/web"
	engine "intelliface/backend/internal/attendance"
	"intelliface/backend/internal/auth"
	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/pkg/repository/postgresql"
	"intelliface/backend/internal/repository/postgres"
)

// uniqueViolation is the postgres error code raised by the (user_id, work_day)
// unique index. The engine relies on it to serialize concurrent check-ins.
const uniqueViolation = "23505"

type Repository struct {
	*postgresql.Database

	loc *time.Location
}

// NewRepository wires the repository. loc is the system-wide timezone the
// engine bounds work days in; "today" defaults here must agree with it.
func NewRepository(database *postgresql.Database, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{Database: database, loc: loc}
}

// workDay is the calendar day of t in loc, the same boundary the engine uses
// when it stamps records.
func workDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func (r Repository) FindTodayRecord(ctx context.Context, userID int, day time.Time) (*entity.Attendance, error) {
	var detail entity.Attendance

	err := r.NewSelect().Model(&detail).
		Where("user_id = ? AND work_day = ? AND deleted_at IS NULL", userID, day.Format("2006-01-02")).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting today's attendance")
	}

	return &detail, nil
}

func (r Repository) InsertCheckIn(ctx context.Context, record *entity.Attendance) (*entity.Attendance, error) {
	record.CreatedAt = time.Now()
	if record.UserID != nil {
		record.CreatedBy = record.UserID
	}

	_, err := r.NewInsert().Model(record).Returning("id").Exec(ctx, &record.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return nil, engine.ErrDuplicateKey
		}
		return nil, errors.Wrap(err, "inserting attendance")
	}

	return record, nil
}

func (r Repository) UpdateCheckOut(ctx context.Context, recordID int, checkOutTime time.Time, snapshotRef *string) (*entity.Attendance, error) {
	q := r.NewUpdate().Table("attendance").Where("deleted_at IS NULL AND id = ?", recordID)
	q.Set("check_out_time = ?", checkOutTime)
	if snapshotRef != nil {
		q.Set("snapshot_ref = ?", *snapshotRef)
	}
	q.Set("updated_at = ?", time.Now())

	_, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "updating check-out")
	}

	var detail entity.Attendance
	err = r.NewSelect().Model(&detail).Where("id = ?", recordID).Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "selecting updated attendance")
	}

	return &detail, nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Attendance, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return entity.Attendance{}, err
	}

	var detail entity.Attendance

	err = r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Attendance{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Attendance{}, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			a.deleted_at IS NULL
	`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
		(u.employee_id ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.DepartmentID != nil {
		whereQuery += fmt.Sprintf(` AND u.department_id = %d`, *filter.DepartmentID)
	}
	if filter.Status != nil {
		status := strings.Replace(*filter.Status, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND a.status = '%s'`, status)
	}

	if filter.Date != nil {
		parsed, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "parsing date filter"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", parsed.Format("2006-01-02"))
	} else {
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", workDay(time.Now(), r.loc))
	}

	orderQuery := "ORDER BY a.check_in_time desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.user_id,
			u.employee_id,
			u.full_name,
			u.department_id,
			d.name,
			a.work_day,
			a.status,
			a.check_in_time,
			a.check_out_time
		FROM attendance a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN department d ON u.department_id = d.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.EmployeeID,
			&detail.FullName,
			&detail.DepartmentID,
			&detail.Department,
			&workDayString,
			&detail.Status,
			&detail.CheckInTime,
			&detail.CheckOutTime); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusInternalServerError)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusInternalServerError)
		}
		detail.WorkDay = &workDay

		detail.TotalHours = totalHours(detail.CheckInTime, detail.CheckOutTime)

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN department d ON u.department_id = d.id
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// GetMonthly returns every record of the given month, ordered for the excel
// export and the pdf report.
func (r Repository) GetMonthly(ctx context.Context, filter MonthlyFilter) ([]MonthlyRow, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	from := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	whereQuery := fmt.Sprintf(`
		WHERE
			a.deleted_at IS NULL
			AND a.work_day >= '%s' AND a.work_day < '%s'
	`, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if filter.DepartmentID != nil {
		whereQuery += fmt.Sprintf(" AND u.department_id = %d", *filter.DepartmentID)
	}

	query := fmt.Sprintf(`
		SELECT
			u.employee_id,
			u.full_name,
			coalesce(d.name, ''),
			a.work_day,
			a.status,
			a.check_in_time,
			a.check_out_time
		FROM attendance a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN department d ON u.department_id = d.id
		%s
		ORDER BY u.full_name, a.work_day
	`, whereQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting monthly attendance"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []MonthlyRow

	for rows.Next() {
		var row MonthlyRow

		if err = rows.Scan(
			&row.EmployeeID,
			&row.FullName,
			&row.Department,
			&row.WorkDay,
			&row.Status,
			&row.CheckInTime,
			&row.CheckOutTime); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning monthly attendance"), http.StatusInternalServerError)
		}

		row.TotalHours = totalHours(row.CheckInTime, row.CheckOutTime)

		list = append(list, row)
	}

	return list, nil
}

// GetStatistics aggregates the given work day for the dashboard. Absent is
// the active users with no record that day.
func (r Repository) GetStatistics(ctx context.Context, workDay string) (GetStatisticsResponse, error) {
	var response GetStatisticsResponse

	query := fmt.Sprintf(`
		SELECT
			(SELECT count(id) FROM users WHERE deleted_at IS NULL AND is_active = true) AS total_employees,
			(SELECT count(id) FROM attendance WHERE deleted_at IS NULL AND work_day = '%s' AND status = 'Present') AS present,
			(SELECT count(id) FROM attendance WHERE deleted_at IS NULL AND work_day = '%s' AND status = 'Late') AS late,
			(SELECT count(id) FROM attendance WHERE deleted_at IS NULL AND work_day = '%s' AND check_out_time IS NOT NULL) AS checked_out
	`, workDay, workDay, workDay)

	err := r.QueryRowContext(ctx, query).Scan(
		&response.TotalEmployees,
		&response.Present,
		&response.Late,
		&response.CheckedOut,
	)
	if err != nil {
		return GetStatisticsResponse{}, web.NewRequestError(errors.Wrap(err, "scanning statistics"), http.StatusInternalServerError)
	}

	response.Absent = response.TotalEmployees - response.Present - response.Late
	if response.Absent < 0 {
		response.Absent = 0
	}

	return response, nil
}

// GetTrend returns per-day present/late counts for the last days work days,
// oldest first.
func (r Repository) GetTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	from := workDay(time.Now().In(r.loc).AddDate(0, 0, -days+1), r.loc)

	query := `
		SELECT
			a.work_day,
			count(CASE WHEN a.status = 'Present' THEN 1 END) AS present_count,
			count(CASE WHEN a.status = 'Late' THEN 1 END) AS late_count
		FROM attendance a
		WHERE a.deleted_at IS NULL AND a.work_day >= $1
		GROUP BY a.work_day
		ORDER BY a.work_day
	`

	rows, err := r.QueryContext(ctx, query, from)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance trend"), http.StatusInternalServerError)
	}
	defer rows.Close()

	totalQuery := `SELECT count(id) FROM users WHERE deleted_at IS NULL AND is_active = true`
	total := 0
	if err = r.QueryRowContext(ctx, totalQuery).Scan(&total); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "scanning active user count"), http.StatusInternalServerError)
	}

	var list []TrendPoint

	for rows.Next() {
		var point TrendPoint
		var workDayString string

		if err = rows.Scan(&workDayString, &point.PresentCount, &point.LateCount); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning attendance trend"), http.StatusInternalServerError)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusInternalServerError)
		}
		point.WorkDay = &workDay

		point.AbsentCount = total - point.PresentCount - point.LateCount
		if point.AbsentCount < 0 {
			point.AbsentCount = 0
		}

		list = append(list, point)
	}

	return list, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}
	return r.DeleteRow(ctx, "attendance", id)
}

func totalHours(checkIn, checkOut *time.Time) string {
	if checkIn == nil || checkOut == nil {
		return ""
	}

	diff := checkOut.Sub(*checkIn)
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60

	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
