package location

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"intelliface/backend/foundation/web"
	"intelliface/backend/internal/auth"
	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/geofence"
	"intelliface/backend/internal/pkg/repository/postgresql"
	"intelliface/backend/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// ZonesForUser resolves the geofence zones the user may check in from: the
// location of the user's department, or every location when the user has no
// department (or the department has no location).
func (r Repository) ZonesForUser(ctx context.Context, userID int) ([]geofence.Zone, error) {
	query := `
		SELECT
			l.name,
			l.latitude,
			l.longitude,
			l.radius
		FROM users u
		JOIN department d ON d.id = u.department_id AND d.deleted_at IS NULL
		JOIN location l ON l.id = d.location_id AND l.deleted_at IS NULL
		WHERE u.id = $1 AND u.deleted_at IS NULL
	`

	zones, err := r.scanZones(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	if len(zones) > 0 {
		return zones, nil
	}

	fallback := `
		SELECT
			l.name,
			l.latitude,
			l.longitude,
			l.radius
		FROM location l
		WHERE l.deleted_at IS NULL
	`

	return r.scanZones(ctx, fallback)
}

func (r Repository) scanZones(ctx context.Context, query string, args ...interface{}) ([]geofence.Zone, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "selecting locations")
	}
	defer rows.Close()

	var zones []geofence.Zone

	for rows.Next() {
		var zone geofence.Zone
		if err = rows.Scan(&zone.Name, &zone.Latitude, &zone.Longitude, &zone.Radius); err != nil {
			return nil, errors.Wrap(err, "scanning location")
		}
		zones = append(zones, zone)
	}

	return zones, rows.Err()
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Location, error) {
	var detail entity.Location

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Location{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Location{}, web.NewRequestError(errors.Wrap(err, "selecting location"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			l.deleted_at IS NULL
	`
	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
			l.name ILIKE '%s'`, "%"+search+"%")
	}
	orderQuery := "ORDER BY l.created_at desc"

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
			l.id,
			l.name,
			l.latitude,
			l.longitude,
			l.radius
		FROM location l
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting locations"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.Latitude,
			&detail.Longitude,
			&detail.Radius); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning location list"), http.StatusInternalServerError)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(l.id)
		FROM location l
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning location count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name", "Latitude", "Longitude", "Radius"); err != nil {
		return CreateResponse{}, err
	}

	if *request.Radius <= 0 {
		return CreateResponse{}, web.NewRequestError(errors.New("radius must be positive"), http.StatusBadRequest)
	}

	var response CreateResponse

	response.Name = request.Name
	response.Latitude = request.Latitude
	response.Longitude = request.Longitude
	response.Radius = request.Radius
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating location"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	q := r.NewUpdate().Table("location").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", *request.Name)
	}
	if request.Latitude != nil {
		q.Set("latitude = ?", *request.Latitude)
	}
	if request.Longitude != nil {
		q.Set("longitude = ?", *request.Longitude)
	}
	if request.Radius != nil {
		if *request.Radius <= 0 {
			return web.NewRequestError(errors.New("radius must be positive"), http.StatusBadRequest)
		}
		q.Set("radius = ?", *request.Radius)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating location"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}
	return r.DeleteRow(ctx, "location", id)
}
