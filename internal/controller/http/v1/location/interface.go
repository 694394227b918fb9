package location

import (
	"context"

	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/repository/postgres/location"
)

type Location interface {
	GetList(ctx context.Context, filter location.Filter) ([]location.GetListResponse, int, error)
	GetById(ctx context.Context, id int) (entity.Location, error)
	Create(ctx context.Context, request location.CreateRequest) (location.CreateResponse, error)
	UpdateColumns(ctx context.Context, request location.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
