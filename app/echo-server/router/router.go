package router

import (
	"marketSearch/internal/middleware"
	"marketSearch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	interactions := api.Group("/interactions", middleware.OptionalAuthMiddleware())
	interactions.POST("", handler.Record)
}

func SetupSearchRoutes(api *echo.Group, handler *rest.SearchHandler) {
	search := api.Group("/search", middleware.OptionalAuthMiddleware())
	search.POST("", handler.Search)
}

func SetupPreferenceRoutes(api *echo.Group, handler *rest.PreferenceHandler) {
	preferences := api.Group("/preferences", middleware.AuthMiddleware())
	preferences.GET("", handler.Get)
	preferences.DELETE("", handler.Clear)
}

func SetupSessionRoutes(api *echo.Group, handler *rest.SessionHandler) {
	sessions := api.Group("/sessions")
	sessions.GET("/:id/weights", handler.Weights)
}

func SetupExperimentRoutes(api *echo.Group, handler *rest.ExperimentHandler) {
	experiments := api.Group("/experiments", middleware.OptionalAuthMiddleware())
	experiments.GET("/:id/assignment", handler.Assignment)
}

func SetupAdminRoutes(api *echo.Group, experimentHandler *rest.ExperimentHandler, decayHandler *rest.DecayAdminHandler, interactionHandler *rest.InteractionHandler) {
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())

	admin.GET("/experiments", experimentHandler.ListActive)
	admin.GET("/experiments/:id", experimentHandler.Get)
	admin.PUT("/experiments/:id", experimentHandler.Upsert)

	admin.GET("/users/:id/events", interactionHandler.RecentEvents)

	admin.POST("/decay/sweep", decayHandler.Sweep)
	admin.POST("/decay/immediate", decayHandler.Immediate)
}
