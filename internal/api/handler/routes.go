package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/social-dashboard/internal/api/handler/router"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/pkg/middleware"
)

func Healthcheck(sess *session.Session) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(sess),
		},
	}
}

func Authentication(service Authenticator, sess *session.Session) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/auth/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/auth/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:    "/v1/auth/facebook",
			Method:  http.MethodPost,
			Handler: FacebookLogin(service),
		},
		{
			Path:    "/v1/auth/logout",
			Method:  http.MethodPost,
			Handler: Logout(service),
		},
		{
			Path:    "/v1/auth/session",
			Method:  http.MethodGet,
			Handler: GetSession(service, sess),
		},
	}
}

func Accounts(service AccountService, app *dashboard.App) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/accounts",
			Method:  http.MethodGet,
			Handler: ListAccounts(service, app.Store()),
		},
		{
			Path:    "/v1/accounts",
			Method:  http.MethodPost,
			Handler: AddAccount(service),
		},
		{
			Path:    "/v1/accounts/:id",
			Method:  http.MethodDelete,
			Handler: RemoveAccount(service, app.Store()),
		},
		{
			Path:    "/v1/accounts/discover",
			Method:  http.MethodPost,
			Handler: DiscoverAccounts(app),
		},
	}
}

func Filters(app *dashboard.App) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/filters",
			Method:  http.MethodGet,
			Handler: GetFilters(app),
		},
		{
			Path:    "/v1/filters",
			Method:  http.MethodPatch,
			Handler: UpdateFilters(app),
		},
		{
			Path:    "/v1/preferences",
			Method:  http.MethodGet,
			Handler: GetPreferences(app),
		},
		{
			Path:    "/v1/preferences",
			Method:  http.MethodPut,
			Handler: UpdatePreferences(app),
		},
	}
}

func Pages(app *dashboard.App, service AccountService, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/pages/:page",
			Method:  http.MethodGet,
			Handler: GetPage(app, service),
		},
		{
			Path:    "/v1/pages/:page",
			Method:  http.MethodDelete,
			Handler: LeavePage(app),
		},
		{
			Path:    "/v1/pages/:page/reload",
			Method:  http.MethodPost,
			Handler: ReloadPage(app, service),
		},
		{
			Path:    "/v1/pages/:page/charts/:chart",
			Method:  http.MethodGet,
			Handler: GetPageChart(app),
		},
		{
			Path:    "/v1/reports/export.csv",
			Method:  http.MethodGet,
			Handler: ExportReportCSV(app, loc),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
