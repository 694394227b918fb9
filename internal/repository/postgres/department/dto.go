package department

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
	ID         int     `json:"id"`
	Name       *string `json:"name"`
	LocationID *int    `json:"location_id"`
	Location   *string `json:"location"`
}

type CreateRequest struct {
	Name       *string `json:"name" form:"name"`
	LocationID *int    `json:"location_id" form:"location_id"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:department"`

	ID         int       `json:"id" bun:"-"`
	Name       *string   `json:"name" bun:"name"`
	LocationID *int      `json:"location_id" bun:"location_id"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
	CreatedBy  int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int     `json:"id" form:"id"`
	Name       *string `json:"name" form:"name"`
	LocationID *int    `json:"location_id" form:"location_id"`
}
