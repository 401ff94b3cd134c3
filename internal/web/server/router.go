package server

import (
	"github.com/gistsearch/gistsearch/internal/config"
	"github.com/gistsearch/gistsearch/internal/web/context"
	"github.com/gistsearch/gistsearch/internal/web/handlers/gist"
	"github.com/gistsearch/gistsearch/internal/web/handlers/health"
	"github.com/gistsearch/gistsearch/internal/web/handlers/metrics"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerRoutes() {
	r := NewRouter(s.echo.Group(""))

	{
		r.GET("/ping", health.Ping)
		r.GET("/healthcheck", health.Healthcheck)

		if config.C.MetricsEnabled {
			r.GET("/metrics", metrics.Metrics)
		}

		api := r.SubGroup("/api/v1", noCache)
		{
			api.POST("/search", gist.Search(s.searcher))
			api.GET("/search", gist.Search(s.searcher))
		}
	}

	r.Any("/*", noRouteFound)
}

// Router wraps echo.Group to provide custom Handler support
type Router struct {
	*echo.Group
}

func NewRouter(g *echo.Group) *Router {
	return &Router{Group: g}
}

func (r *Router) SubGroup(prefix string, m ...Middleware) *Router {
	echoMiddleware := make([]echo.MiddlewareFunc, len(m))
	for i, mw := range m {
		echoMiddleware[i] = mw.toEcho()
	}
	return NewRouter(r.Group.Group(prefix, echoMiddleware...))
}

func (r *Router) GET(path string, h Handler, m ...Middleware) {
	r.Group.GET(path, chain(h, m...).toEchoHandler())
}

func (r *Router) POST(path string, h Handler, m ...Middleware) {
	r.Group.POST(path, chain(h, m...).toEchoHandler())
}

func (r *Router) Any(path string, h Handler, m ...Middleware) {
	r.Group.Any(path, chain(h, m...).toEchoHandler())
}

func (r *Router) Use(middleware ...Middleware) {
	for _, m := range middleware {
		r.Group.Use(m.toEcho())
	}
}

func noRouteFound(ctx *context.Context) error {
	return ctx.NotFound("Page not found")
}
