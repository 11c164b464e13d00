package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core/user"
)

// adminMiddleware only lets live, active admin accounts through.
func adminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.IsActive() && usr.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// permMiddleware checks perm against the live account, not the login snapshot.
func permMiddleware(svc *user.Service, perm user.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.IsActive() && usr.Can(perm) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
