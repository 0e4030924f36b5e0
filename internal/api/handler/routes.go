package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/records-api/internal/api/handler/router"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/internal/usecases/reporting"
	"github.com/vfg2006/records-api/pkg/middleware"
)

type middlewares = []func(http.Handler) http.Handler

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteUser(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/roles",
			Method:      http.MethodGet,
			Handler:     ListRoles(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

func Navigation(service navigating.Navigator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/nav",
			Method:      http.MethodGet,
			Handler:     GetMenu(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/nav/items",
			Method:      http.MethodGet,
			Handler:     ListNavItems(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/nav/items",
			Method:      http.MethodPost,
			Handler:     CreateNavItem(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/nav/items/:id",
			Method:      http.MethodPut,
			Handler:     UpdateNavItem(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/nav/items/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteNavItem(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

func Records(service recording.Recorder, cfg config.Records) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/records",
			Method:      http.MethodGet,
			Handler:     ListRecords(service, cfg),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/categories",
			Method:      http.MethodGet,
			Handler:     ListCategories(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/records/:id",
			Method:      http.MethodGet,
			Handler:     GetRecord(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/records",
			Method:      http.MethodPost,
			Handler:     CreateRecord(service),
			Middlewares: middlewares{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/records/:id",
			Method:      http.MethodPut,
			Handler:     UpdateRecord(service),
			Middlewares: middlewares{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/records/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteRecord(service),
			Middlewares: middlewares{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/records/bulk",
			Method:      http.MethodPost,
			Handler:     BulkInsertRecords(service),
			Middlewares: middlewares{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/records/upload",
			Method:      http.MethodPost,
			Handler:     UploadRecords(service, cfg),
			Middlewares: middlewares{middleware.AdminOrAnalyst()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/stats",
			Method:      http.MethodGet,
			Handler:     GetStats(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/aggregate",
			Method:      http.MethodGet,
			Handler:     GetAggregate(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/timeseries",
			Method:      http.MethodGet,
			Handler:     GetTimeSeries(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/exports/xlsx",
			Method:      http.MethodGet,
			Handler:     ExportWorkbook(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/exports/csv",
			Method:      http.MethodGet,
			Handler:     ExportCSV(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}
