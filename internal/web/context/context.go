package context

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"net/http"
	"sync"
)

type Context struct {
	echo.Context

	data echo.Map
	lock sync.RWMutex
}

func NewContext(c echo.Context) *Context {
	return &Context{
		Context: c,
		data:    make(echo.Map),
	}
}

func (ctx *Context) SetData(key string, value any) {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	ctx.data[key] = value
}

func (ctx *Context) GetData(key string) any {
	ctx.lock.RLock()
	defer ctx.lock.RUnlock()

	return ctx.data[key]
}

// RequestID returns the id assigned to the current request by the request
// id middleware.
func (ctx *Context) RequestID() string {
	return ctx.Response().Header().Get(echo.HeaderXRequestID)
}

// ErrorRes returns an error that the server error handler renders as a JSON
// error body with the given status code and message.
func (ctx *Context) ErrorRes(code int, message string, err error) error {
	if code >= 500 {
		var skipLogger = log.With().CallerWithSkipFrameCount(3).Logger()
		skipLogger.Error().Err(err).Str("request_id", ctx.RequestID()).Msg(message)
	}

	return &echo.HTTPError{Code: code, Message: message, Internal: err}
}

func (ctx *Context) Json(data any) error {
	return ctx.JsonWithCode(http.StatusOK, data)
}

func (ctx *Context) JsonWithCode(code int, data any) error {
	return ctx.JSON(code, data)
}

func (ctx *Context) PlainText(code int, message string) error {
	return ctx.String(code, message)
}

func (ctx *Context) NotFound(message string) error {
	return ctx.ErrorRes(http.StatusNotFound, message, nil)
}

func (ctx *Context) BadRequest(message string, err error) error {
	return ctx.ErrorRes(http.StatusBadRequest, message, err)
}
