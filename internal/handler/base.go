package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/deppfellow/posts-api/internal/middleware"
	"github.com/deppfellow/posts-api/internal/response"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/deppfellow/posts-api/internal/sqlerr"
	"github.com/deppfellow/posts-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers (PostHandler, HealthHandler) embed it to reach config,
// logger and the database through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// handleRequest is the shared execution pipeline for every typed endpoint:
// bind and validate, run the handler, write the result inside a success
// envelope with status.
//
// It is also the per-request exception boundary. A panic, or an error that
// is not an *errs.HTTPError, is logged with its stack and replaced by a
// generic 500 so internals never reach the client. The global error handler
// only renders what comes out of here.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	status int,
) (err error) {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	// Set by nrecho; nil when New Relic is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("method", method).
		Str("route", route).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			cause := errors.WithStack(fmt.Errorf("panic: %v", r))
			err = unexpectedError(&logger, txn, cause, "handler panicked")
		}
	}()

	logger.Debug().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		// Client input problems are never logged at error level.
		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}

		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			return unexpectedError(&logger, txn, err, "handler execution failed")
		}

		event := logger.Warn()
		if httpErr.Status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		if dbErr := sqlerr.Details(err); dbErr != nil {
			event = event.
				Str("db_code", dbErr.DatabaseCode).
				Str("db_severity", string(dbErr.Severity)).
				Str("db_table", dbErr.TableName).
				Str("db_column", dbErr.ColumnName).
				Str("db_constraint", dbErr.ConstraintName)
			if txn != nil {
				txn.AddAttribute("db.code", dbErr.DatabaseCode)
			}
		}

		event.
			Err(err).
			Str("error_code", httpErr.Code).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler returned an error")

		return httpErr
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return c.JSON(status, response.Success(result))
}

// unexpectedError logs cause with its stack, reports it to New Relic, and
// returns the generic 500 the client receives instead.
func unexpectedError(logger *zerolog.Logger, txn *newrelic.Transaction, cause error, msg string) error {
	logger.Error().Stack().Err(cause).Msg(msg)

	if txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(cause))
	}

	return errs.NewInternalServerError()
}

// Handle wraps a typed endpoint into an echo.HandlerFunc. The endpoint
// receives a bound and validated request and returns the value placed in the
// envelope's data field.
//
// A fresh request value is allocated for every call, so PReq is the pointer
// type the endpoint receives (for example *GetPostRequest) and Req is
// inferred from it.
//
//	api.POST("/posts", handler.Handle(h.Posts.CreatePost, http.StatusCreated))
func Handle[Req any, PReq interface {
	*Req
	validation.Validatable
}, Res any](
	handler func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PReq(new(Req)), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, status)
	}
}
