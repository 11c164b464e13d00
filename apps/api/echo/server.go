package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/audit"
	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/settings"
	"github.com/trezcool/gce/core/user"
)

type ServerDeps struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	Store        core.Store
	UserSvc      *user.Service
	CandidateSvc *candidate.Service
	SettingsSvc  *settings.Service
	AuditSvc     *audit.Service

	// FactoryReset wipes every collection and seeds them again.
	FactoryReset func(ctx context.Context) error
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	tokens   *tokenIssuer
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger()
	}
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		tokens:   newTokenIssuer(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit("8M"))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	authed := []echo.MiddlewareFunc{middleware.JWTWithConfig(s.tokens.config), sessionMiddleware(s.deps.UserSvc)}

	registerAuthAPI(v1, authed, s.tokens, s.deps.UserSvc, s.deps.Validate)
	registerUserAPI(v1, authed, s.deps.UserSvc, s.deps.Validate)
	registerCandidateAPI(v1, authed, s.deps.UserSvc, s.deps.CandidateSvc)
	registerReportAPI(v1, authed, s.deps.UserSvc, s.deps.CandidateSvc, s.deps.Store)
	registerSettingsAPI(v1, authed, s.deps.UserSvc, s.deps.SettingsSvc)
	registerAuditAPI(v1, authed, s.deps.UserSvc, s.deps.AuditSvc)
	registerSystemAPI(v1, authed, s.deps.UserSvc, s.deps.CandidateSvc, s.deps.FactoryReset)
}

// Start blocks until the server stops; failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}

// chain returns a copy of mws followed by extra.
func chain(mws []echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws)+len(extra))
	out = append(out, mws...)
	return append(out, extra...)
}
