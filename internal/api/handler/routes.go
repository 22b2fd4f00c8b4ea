package handler

import (
	"net/http"

	"github.com/vfg2006/attribution-pipeline/internal/api/handler/router"
	"github.com/vfg2006/attribution-pipeline/internal/scheduler"
	"github.com/vfg2006/attribution-pipeline/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func AttributionRuns(runService *scheduler.AttributionRunService, opsToken string) []router.Route {
	return []router.Route{
		{
			Path:    "/attribution/runs",
			Method:  http.MethodPost,
			Handler: TriggerRun(runService),
			Middlewares: []func(http.Handler) http.Handler{
				middleware.TokenMiddleware(opsToken),
			},
		},
		{
			Path:    "/attribution/runs/status",
			Method:  http.MethodGet,
			Handler: GetRunStatus(runService),
			Middlewares: []func(http.Handler) http.Handler{
				middleware.TokenMiddleware(opsToken),
			},
		},
	}
}
