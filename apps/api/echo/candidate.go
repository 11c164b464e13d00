package echoapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/user"
)

type candidateApi struct {
	usrSvc *user.Service
	svc    *candidate.Service
}

func registerCandidateAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *candidate.Service,
) {
	api := candidateApi{
		usrSvc: usrSvc,
		svc:    svc,
	}
	can := func(perm user.Permission) echo.MiddlewareFunc { return permMiddleware(usrSvc, perm) }

	cg := g.Group("/candidates", authed...)
	cg.GET("", api.query, can(user.PermView))
	cg.POST("", api.create, can(user.PermCreate))
	cg.GET("/fees", api.fees, can(user.PermView))
	cg.POST("/import", api.importRecords, can(user.PermCreate))

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve, can(user.PermView))
	dg.PUT("", api.update, can(user.PermEdit))
	dg.DELETE("", api.destroy, can(user.PermDelete))
	dg.PUT("/query", api.setQuery, adminMiddleware(usrSvc))
}

func (api *candidateApi) actor(ctx echo.Context) (string, error) {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}
	return usr.Username, nil
}

func (api *candidateApi) query(ctx echo.Context) error {
	records, err := api.svc.Filter(ctx.Request().Context(), bindFilter(ctx))
	if err != nil {
		return errors.Wrap(err, "querying candidates")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *candidateApi) retrieve(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding candidate by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *candidateApi) create(ctx echo.Context) error {
	var data candidate.Registration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}
	data.ID = 0

	actor, err := api.actor(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Save(ctx.Request().Context(), data, actor)
	if err != nil {
		return errors.Wrap(err, "registering candidate")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *candidateApi) update(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.Get(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "finding candidate by ID")
	}

	var data candidate.Registration
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}
	data.ID = id

	actor, err := api.actor(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Save(ctx.Request().Context(), data, actor)
	if err != nil {
		return errors.Wrap(err, "updating candidate")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *candidateApi) destroy(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting candidate")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *candidateApi) setQuery(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var data QueryRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QueryRequest")
	}
	c, err := api.svc.SetQuery(ctx.Request().Context(), id, data.Query)
	if err != nil {
		return errors.Wrap(err, "setting query flag")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *candidateApi) fees(ctx echo.Context) error {
	bill, err := api.svc.Quote(ctx.Request().Context(), bindSubjects(ctx))
	if err != nil {
		return errors.Wrap(err, "quoting fees")
	}
	return ctx.JSON(http.StatusOK, bill)
}

// importRecords reads a backup file either as the raw body or as the multipart "file" field.
func (api *candidateApi) importRecords(ctx echo.Context) error {
	var r io.Reader = ctx.Request().Body
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "missing import file").SetInternal(err)
		}
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening import file")
		}
		defer f.Close()
		r = f
	}

	actor, err := api.actor(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.Import(ctx.Request().Context(), r, actor)
	if err != nil {
		return errors.Wrap(err, "importing candidates")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Imported: n})
}

type (
	QueryRequest struct {
		Query bool `json:"query"`
	}

	ImportResponse struct {
		Imported int `json:"imported"`
	}
)
