package user

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"intelliface/backend/foundation/web"
	"intelliface/backend/internal/face"
	"intelliface/backend/internal/repository/postgres/user"
	"intelliface/backend/internal/service"
)

type Controller struct {
	user     User
	enroller Enroller
}

func NewController(user User, enroller Enroller) *Controller {
	return &Controller{user: user, enroller: enroller}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter user.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if departmentId, ok := c.GetQueryFunc(reflect.Int, "department_id").(*int); ok {
		filter.DepartmentID = departmentId
	}
	if role, ok := c.GetQueryFunc(reflect.String, "role").(*string); ok {
		filter.Role = role
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.user.GetList(c.Ctx, filter)
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

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request user.CreateRequest

	if err := c.BindFunc(&request, "EmployeeID", "Password", "FullName", "Role"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request user.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}
	request.ID = id

	if err := uc.user.UpdateColumns(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.user.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// EnrollFace registers the user's face with the verification capability and
// marks the user enrolled. Until this succeeds every check-in is rejected.
func (uc Controller) EnrollFace(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request EnrollFaceRequest
	if err := c.BindFunc(&request, "ImageBase64"); err != nil {
		return c.RespondError(err)
	}

	if _, err := uc.user.GetById(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	faceRef, err := uc.enroller.Enroll(c.Ctx, strconv.Itoa(id), *request.ImageBase64)
	if errors.Is(err, face.ErrServiceUnavailable) {
		return c.RespondError(web.NewRequestError(err, http.StatusServiceUnavailable))
	}
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	if err := uc.user.SetFaceTemplate(c.Ctx, id, faceRef); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"face_enrolled": true,
		},
		"status": true,
	}, http.StatusOK)
}

// GetBadge serves the user's employee id as a qr code png.
func (uc Controller) GetBadge(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}
	if detail.EmployeeID == nil {
		return c.RespondError(web.NewRequestError(errors.New("user has no employee id"), http.StatusBadRequest))
	}

	path, err := service.CreateBadge(*detail.EmployeeID)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "creating badge"), http.StatusInternalServerError))
	}

	c.FileAttachment(path, *detail.EmployeeID+".png")
	return nil
}
