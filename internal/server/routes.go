package server

import (
	"mindweave/internal/server/routes"
	"mindweave/pkg/mindmap"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, mindmapClient *mindmap.Client) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	h := routes.NewHandler(mindmapClient)

	apiRoutes := e.Group("/api")

	// Mind map routes
	apiRoutes.POST("/mindmaps", h.GenerateMindMapHandler)
	apiRoutes.POST("/mindmaps/expand", h.ExpandNodeHandler)
}
