package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/fee"
	"github.com/trezcool/gce/core/user"
)

type systemApi struct {
	svc          *candidate.Service
	factoryReset func(ctx context.Context) error
}

func registerSystemAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *candidate.Service,
	factoryReset func(ctx context.Context) error,
) {
	api := systemApi{
		svc:          svc,
		factoryReset: factoryReset,
	}

	sg := g.Group("/system", chain(authed, adminMiddleware(usrSvc))...)
	sg.POST("/factory-reset", api.reset)

	cg := g.Group("/catalogue", authed...)
	cg.GET("/subjects", api.subjects)
	cg.GET("/districts", api.districts)
}

func (api *systemApi) reset(ctx echo.Context) error {
	if api.factoryReset == nil {
		return errHttpNotFound
	}
	if err := api.factoryReset(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "factory reset")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "System reset to factory defaults."})
}

func (api *systemApi) subjects(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Catalogue().Subjects())
}

func (api *systemApi) districts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, fee.Districts)
}
