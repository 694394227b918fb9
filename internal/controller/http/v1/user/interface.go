package user

import (
	"context"

	"intelliface/backend/internal/entity"
	"intelliface/backend/internal/repository/postgres/user"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (user.GetDetailByIdResponse, error)
	GetById(ctx context.Context, id int) (entity.User, error)
	Create(ctx context.Context, request user.CreateRequest) (user.CreateResponse, error)
	UpdateColumns(ctx context.Context, request user.UpdateRequest) error
	Delete(ctx context.Context, id int) error
	SetFaceTemplate(ctx context.Context, userID int, faceRef string) error
}

// Enroller registers a face template with the verification capability and
// returns where the template lives.
type Enroller interface {
	Enroll(ctx context.Context, employeeID, imageBase64 string) (string, error)
}
