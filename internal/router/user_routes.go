package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-registry/internal/handler"
)

// RegisterUsers registers the user endpoints. Creation and listing are per
// variant; a single id addresses either variant under /v1/users.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	g.POST("/owners", u.CreateOwner)
	g.GET("/owners", u.ListOwners)
	g.POST("/drivers", u.CreateDriver)
	g.GET("/drivers", u.ListDrivers)

	g.GET("/users", u.ListUsers)
	g.GET("/users/:id", u.GetUser)
	g.PUT("/users/:id", u.UpdateUser)
	g.DELETE("/users/:id", u.DeleteUser)
}
