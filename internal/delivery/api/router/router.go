// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"horizons/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// HealthPath is the liveness probe route. Access logging skips it.
const HealthPath = "/healthz"

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET(HealthPath, handler.HealthCheck)

	e.POST("/signup", r.accountHandler.Signup)
	e.POST("/login", r.accountHandler.Login)
	e.GET("/users/:id", r.accountHandler.GetAccount)
}
