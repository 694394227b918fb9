package location

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type GetListResponse struct {
	ID        int      `json:"id"`
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`
}

type CreateRequest struct {
	Name      *string  `json:"name" form:"name"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Radius    *float64 `json:"radius" form:"radius"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:location"`

	ID        int       `json:"id" bun:"-"`
	Name      *string   `json:"name" bun:"name"`
	Latitude  *float64  `json:"latitude" bun:"latitude"`
	Longitude *float64  `json:"longitude" bun:"longitude"`
	Radius    *float64  `json:"radius" bun:"radius"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID        int      `json:"id" form:"id"`
	Name      *string  `json:"name" form:"name"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Radius    *float64 `json:"radius" form:"radius"`
}
