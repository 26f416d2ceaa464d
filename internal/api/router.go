package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "launch-dashboard/internal/api/docs" // registers the OpenAPI doc with swag
	"launch-dashboard/internal/api/handler"
	"launch-dashboard/pkg/router"
)

// @title SpaceX Launch Records Dashboard API
// @version 1.0
// @description Site selection, payload range events and chart views for the launch records dashboard.
// @BasePath /

// RegisterRoutes mounts the dashboard page, its JSON API and the Swagger UI.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/", h.Index)
	r.GET("/healthz", h.Healthz)

	r.GET("/api/v1/options", h.GetOptions)
	r.GET("/api/v1/views", h.GetViews)
	r.POST("/api/v1/events/site", h.PostSiteEvent)
	r.POST("/api/v1/events/payload-range", h.PostPayloadRangeEvent)

	r.GET("/api/v1/charts/breakdown.png", h.GetBreakdownChart)
	r.GET("/api/v1/charts/scatter.png", h.GetScatterChart)

	r.GET("/api/v1/views/breakdown/export", h.ExportBreakdown)
	r.GET("/api/v1/views/scatter/export", h.ExportScatter)
	r.GET("/api/v1/metrics", h.GetMetrics)

	r.Handle(http.MethodGet, "/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
