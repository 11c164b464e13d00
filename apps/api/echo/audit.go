package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core/audit"
	"github.com/trezcool/gce/core/user"
)

type auditApi struct {
	svc *audit.Service
}

func registerAuditAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *audit.Service,
) {
	api := auditApi{svc: svc}

	ag := g.Group("/audit", chain(authed, adminMiddleware(usrSvc))...)
	ag.GET("", api.query)
	ag.DELETE("", api.clear)
}

func (api *auditApi) query(ctx echo.Context) error {
	entries, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing audit entries")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *auditApi) clear(ctx echo.Context) error {
	if err := api.svc.Clear(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing audit log")
	}
	return ctx.NoContent(http.StatusNoContent)
}
