package metrics

import (
	"github.com/gistsearch/gistsearch/internal/web/context"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"sync"
)

var (
	middlewareOnce sync.Once
	middleware     echo.MiddlewareFunc
)

// Middleware records HTTP request metrics. Collectors are registered with
// the default registry only once per process, however many servers are built.
func Middleware() echo.MiddlewareFunc {
	middlewareOnce.Do(func() {
		middleware = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem: "gistsearch",
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		})
	})
	return middleware
}

// Metrics handles prometheus metrics endpoint requests.
func Metrics(ctx *context.Context) error {
	return echoprometheus.NewHandler()(ctx.Context)
}
