package health

import (
	"github.com/gistsearch/gistsearch/internal/web/context"
	"net/http"
	"time"
)

// Ping provides a static response to verify the server is up.
func Ping(ctx *context.Context) error {
	return ctx.PlainText(http.StatusOK, "pong")
}

func Healthcheck(ctx *context.Context) error {
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"gistsearch": "ok",
		"time":       time.Now().Format(time.RFC3339),
	})
}
