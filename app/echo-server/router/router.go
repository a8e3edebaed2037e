package router

import (
	"workflowAdvisor/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetBanditRoutes(api *echo.Group, handler *rest.BanditHandler) {
	reco := api.Group("/recommendations")
	reco.POST("", handler.Recommend)
	reco.POST("/feedback", handler.Feedback)
}

// SetBanditAdminRoutes mounts the read-only posterior and audit views behind guards.
func SetBanditAdminRoutes(api *echo.Group, handler *rest.BanditAdminHandler, guards ...echo.MiddlewareFunc) {
	admin := api.Group("/admin/bandit", guards...)

	admin.GET("/posteriors", handler.GetPosteriors)
	admin.GET("/events", handler.GetEvents)
}
