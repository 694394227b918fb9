// Package web is a small framework on top of gin. Controllers work with
// *web.Context and return errors; the framework turns unhandled errors into
// the standard response envelope.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler is the signature every controller method implements.
type Handler func(c *Context) error

// Middleware wraps a Handler with pre/post processing.
type Middleware func(Handler) Handler

type App struct {
	*gin.Engine
}

func NewApp() *App {
	return &App{Engine: gin.New()}
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	// Middlewares are applied so that the first listed runs first.
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}

	h := handler
	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := NewContext(gc)
		if err := h(c); err != nil {
			_ = c.RespondError(err)
		}
	})
}
