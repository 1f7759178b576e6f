package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/activity"
	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
)

type (
	// Refresher drops cached workbook data so the next request reads the file again.
	Refresher interface {
		InvalidateCache()
	}

	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		Logger         core.Logger
		PeopleSvc      *person.Service
		PaymentSvc     *payment.Service
		ActivitySvc    *activity.Service
		Refresher      Refresher
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerPeopleAPI(v1, s.opts.PeopleSvc)
	registerPaymentAPI(v1, s.opts.PaymentSvc, s.opts.PeopleSvc)
	registerActivityAPI(v1, s.opts.ActivitySvc, s.opts.Refresher)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to SchoolDesk API!")
}
