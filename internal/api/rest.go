package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/keepr/mediakit/internal/api/links"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080" validate:"required,hostname_port"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	healthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. Its sole responsibility
	// is to expose the link extraction endpoints over HTTP.
	RestGateway struct {
		config          *RestConfig
		ec              *echo.Echo
		linksController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with the routes
// defined by the controllers.
func NewRestGateway(config *RestConfig, extractor links.Extractor) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	validate := validator.New()
	gateway := &RestGateway{
		config:          config,
		ec:              ec,
		linksController: links.New(validate, extractor),
	}

	ec.Use(middleware.RequestID())
	ec.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Emit(logger.DEBUG, "%s %s -> %d (%s) [%s]\n", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	ec.Use(middleware.Recover())
	ec.Pre(middleware.AddTrailingSlash())

	ec.GET("/api/health/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	})

	linksGroup := ec.Group("/api/links")
	gateway.linksController.SetRoutes(linksGroup)

	return gateway
}

// ServeHTTP dispatches the request through the gateway's router.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails. Cancellation of the parent context is not reported as an error.
func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	defer ctxCancel(nil)
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil {
			ctxCancel(err)
		}
	}()

	go func(ec *echo.Echo) {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ec.Shutdown(shutdownCtx); err != nil {
			log.Emit(logger.WARNING, "Graceful shutdown failed, closing: %v\n", err)
			ec.Close()
		}
	}(gateway.ec)

	wg.Wait()

	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
