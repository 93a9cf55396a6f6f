package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/deppfellow/posts-api/internal/response"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS allows requests without an Origin header and requests from the
// configured allow-list (credentials included). Any other origin is rejected
// with 403 before the route runs, and gets no CORS headers.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	allowed := global.server.Config.Server.AllowedOrigins()

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			if slices.Contains(allowed, origin) {
				return true, nil
			}
			return false, errs.NewForbiddenError(fmt.Sprintf("Origin %s not allowed by CORS", origin))
		},
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
	})
}

// RequestLogger writes one "API" line per request, at a level derived from
// the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The response is not written yet when a handler returns an error;
			// the global error handler decides the status after this runs.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := v.Status
			if v.Error != nil {
				statusCode, _, _ = classifyError(c, v.Error)
			}

			logger := loggerOr(c, global.server.Logger)

			var e *zerolog.Event
			switch {
			case statusCode >= http.StatusInternalServerError:
				e = logger.Error().Err(v.Error)
			case statusCode >= http.StatusBadRequest:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover is the last line of defense against panics outside the handler
// boundary (middleware, system routes). The panic is logged with its stack
// and rendered as a generic 500.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			loggerOr(c, global.server.Logger).Error().
				Err(err).
				Bytes("stack", stack).
				Msg("recovered from panic")
			return err
		},
	})
}

// Secure sets the standard security headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// BodyLimit rejects request bodies above the configured size with 413.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// GlobalErrorHandler renders every error that reaches echo as the failure
// envelope.
//
//   - echo 404/405: 404 "Route METHOD PATH not found"
//   - *errs.HTTPError: its own status and message
//   - other *echo.HTTPError (413, 415, malformed body): its status and message
//   - anything else: 500 "Internal server error"
//
// 5xx are logged at error level with the stack, 4xx at warn.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	status, code, message := classifyError(c, err)

	logger := loggerOr(c, global.server.Logger)

	if status >= http.StatusInternalServerError {
		logger.Error().Stack().
			Err(err).
			Int("status", status).
			Str("error_code", code).
			Msg(message)
	} else {
		logger.Warn().
			Err(err).
			Int("status", status).
			Str("error_code", code).
			Msg(message)
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, response.Failure(message))
}

// classifyError maps err to the status, code and client message the error
// handler responds with.
func classifyError(c echo.Context, err error) (status int, code, message string) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, httpErr.Code, httpErr.Message
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound || echoErr.Code == http.StatusMethodNotAllowed {
			routeErr := errs.NewRouteNotFoundError(c.Request().Method, c.Request().URL.RequestURI())
			return routeErr.Status, routeErr.Code, routeErr.Message
		}

		message, ok := echoErr.Message.(string)
		if !ok || message == "" {
			message = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)), message
	}

	internal := errs.NewInternalServerError()
	return internal.Status, internal.Code, internal.Message
}
