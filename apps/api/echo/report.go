package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/user"
	"github.com/trezcool/gce/services/export"
	"github.com/trezcool/gce/storage/kvstore"
)

type reportApi struct {
	svc   *candidate.Service
	store core.Store
}

func registerReportAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *candidate.Service,
	store core.Store,
) {
	api := reportApi{
		svc:   svc,
		store: store,
	}

	rg := g.Group("/reports", authed...)
	rg.GET("/stats", api.stats, permMiddleware(usrSvc, user.PermView))
	rg.GET("/subjects", api.subjects, permMiddleware(usrSvc, user.PermView))
	rg.GET("/export/:format", api.export, permMiddleware(usrSvc, user.PermExport))
}

func (api *reportApi) stats(ctx echo.Context) error {
	st, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	used, limit, err := kvstore.Usage(ctx.Request().Context(), api.store)
	if err != nil {
		return errors.Wrap(err, "measuring storage")
	}
	return ctx.JSON(http.StatusOK, StatsResponse{
		Stats:   st,
		Storage: StorageUsage{Used: used, Limit: limit},
	})
}

func (api *reportApi) subjects(ctx echo.Context) error {
	rep, err := api.svc.SubjectTotals(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting subject entries")
	}
	return ctx.JSON(http.StatusOK, rep.Rows())
}

func (api *reportApi) export(ctx echo.Context) error {
	format, err := export.ParseFormat(ctx.Param("format"))
	if err != nil {
		return errHttpNotFound
	}

	// render fully before writing so failures still get a JSON error
	var buf bytes.Buffer
	if err = export.Render(ctx.Request().Context(), &buf, format, api.svc); err != nil {
		return errors.Wrapf(err, "rendering %s export", format)
	}
	ctx.Response().Header().Set(
		echo.HeaderContentDisposition,
		`attachment; filename="`+format.Filename(core.NowFunc())+`"`,
	)
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

type (
	StorageUsage struct {
		Used  int64 `json:"used"`
		Limit int64 `json:"limit"` // 0 when unlimited
	}

	StatsResponse struct {
		candidate.Stats
		Storage StorageUsage `json:"storage"`
	}
)
