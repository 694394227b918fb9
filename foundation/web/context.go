package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Context wraps gin.Context with binding helpers and the request-scoped
// context.Context values (auth claims and friends) travel through Ctx.
type Context struct {
	*gin.Context

	Ctx context.Context

	paramErrs []error
	queryErrs []error
}

func NewContext(gc *gin.Context) *Context {
	return &Context{
		Context: gc,
		Ctx:     gc.Request.Context(),
	}
}

// Respond writes obj as the JSON response body.
func (c *Context) Respond(obj interface{}, status int) error {
	c.JSON(status, obj)
	return nil
}

// RespondError writes the standard error envelope. Errors that were not
// wrapped with a status report as 500 without leaking internals.
func (c *Context) RespondError(err error) error {
	status := StatusOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	c.JSON(status, map[string]interface{}{
		"status": false,
		"error":  message,
	})
	return nil
}

// BindFunc binds the JSON body into data and checks the listed struct fields
// are set. Field lists may be given comma separated.
func (c *Context) BindFunc(data interface{}, requiredFields ...string) error {
	if err := c.ShouldBindJSON(data); err != nil {
		return NewRequestError(errors.Wrap(err, "parsing request body"), http.StatusBadRequest)
	}

	return ValidateRequired(data, requiredFields...)
}

// GetParam parses the named path parameter into the requested kind. Parse
// failures are collected and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, fmt.Errorf("param %q must be an integer", name))
			return 0
		}
		return v
	case reflect.String:
		return value
	default:
		c.paramErrs = append(c.paramErrs, fmt.Errorf("param %q: unsupported kind %s", name, kind))
		return nil
	}
}

// ValidParam reports any parse failure recorded by GetParam.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return NewRequestError(c.paramErrs[0], http.StatusBadRequest)
}

// GetQueryFunc parses the named query parameter into a typed pointer. A
// missing parameter yields a typed nil pointer so callers can assign it
// straight into optional filter fields.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Errorf("query %q must be an integer", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Errorf("query %q must be a boolean", name))
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok {
			return (*string)(nil)
		}
		return &value
	default:
		c.queryErrs = append(c.queryErrs, fmt.Errorf("query %q: unsupported kind %s", name, kind))
		return nil
	}
}

// ValidQuery reports any parse failure recorded by GetQueryFunc.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return NewRequestError(c.queryErrs[0], http.StatusBadRequest)
}

// ValidateRequired checks that the named fields of the struct behind data are
// set (non-nil and non-zero), then runs tag validation.
func ValidateRequired(data interface{}, requiredFields ...string) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return NewRequestError(errors.New("binding target must be a struct"), http.StatusBadRequest)
	}

	var fields []string
	for _, f := range requiredFields {
		fields = append(fields, strings.Split(f, ",")...)
	}

	for _, name := range fields {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		field := v.FieldByName(name)
		if !field.IsValid() {
			return NewRequestError(fmt.Errorf("unknown field %q", name), http.StatusBadRequest)
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return NewRequestError(fmt.Errorf("field %q is required", name), http.StatusBadRequest)
			}
			continue
		}
		if field.IsZero() {
			return NewRequestError(fmt.Errorf("field %q is required", name), http.StatusBadRequest)
		}
	}

	if err := validate.Struct(data); err != nil {
		return NewRequestError(err, http.StatusBadRequest)
	}
	return nil
}
