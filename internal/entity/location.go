package entity

import (
	"github.com/uptrace/bun"
)

// Location is a named geofence zone: check-ins are only accepted inside the
// radius around its center.
type Location struct {
	bun.BaseModel `bun:"table:location"`

	BasicEntity
	Name      *string  `json:"name"      bun:"name"`
	Latitude  *float64 `json:"latitude"  bun:"latitude"`
	Longitude *float64 `json:"longitude" bun:"longitude"`
	Radius    *float64 `json:"radius"    bun:"radius"`
}
