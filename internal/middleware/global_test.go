package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/posts-api/internal/config"
	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(out *bytes.Buffer) *server.Server {
	logger := zerolog.New(out)
	return &server.Server{
		Config: config.DefaultConfig(),
		Logger: &logger,
	}
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(method, target, nil), rec), rec
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		err        error
		wantStatus int
		wantMsg    string
		wantLevel  string
	}{
		{
			name:       "http error",
			err:        errs.NewNotFoundError("Post not found"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Post not found",
			wantLevel:  "warn",
		},
		{
			name:       "route not found",
			target:     "/api/nonexistent?x=1",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Route GET /api/nonexistent?x=1 not found",
			wantLevel:  "warn",
		},
		{
			name:       "method not allowed",
			method:     http.MethodPatch,
			target:     "/api/posts/1",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Route PATCH /api/posts/1 not found",
			wantLevel:  "warn",
		},
		{
			name:       "echo error",
			err:        echo.ErrStatusRequestEntityTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "Request Entity Too Large",
			wantLevel:  "warn",
		},
		{
			name:       "unknown error",
			err:        errors.New("nil pointer somewhere"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
			wantLevel:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			target := tt.target
			if target == "" {
				target = "/"
			}

			var logs bytes.Buffer
			logger := zerolog.New(&logs)
			c, rec := newContext(method, target)
			c.Set(LoggerKey, &logger)

			NewGlobalMiddlewares(newTestServer(&logs)).GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, `{"success":false,"data":null,"error":`+quote(tt.wantMsg)+`}`, rec.Body.String())

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
		})
	}
}

func TestGlobalErrorHandler_CommittedResponse(t *testing.T) {
	var logs bytes.Buffer
	c, rec := newContext(http.MethodGet, "/")
	require.NoError(t, c.String(http.StatusOK, "partial"))

	NewGlobalMiddlewares(newTestServer(&logs)).GlobalErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	var logs bytes.Buffer
	c, rec := newContext(http.MethodHead, "/missing")

	NewGlobalMiddlewares(newTestServer(&logs)).GlobalErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestGlobalErrorHandler_LogsBeforeContextEnhancer(t *testing.T) {
	var logs bytes.Buffer
	c, rec := newContext(http.MethodGet, "/api/posts")
	c.Set(RequestIDKey, "req-9")

	NewGlobalMiddlewares(newTestServer(&logs)).GlobalErrorHandler(errors.New("connection reset"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection reset", entry["error"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "/api/posts", entry["path"])
}

func TestRecover_LogsBeforeContextEnhancer(t *testing.T) {
	var logs bytes.Buffer
	c, _ := newContext(http.MethodGet, "/")

	_ = NewGlobalMiddlewares(newTestServer(&logs)).Recover()(func(echo.Context) error {
		panic("nil map write")
	})(c)

	assert.Contains(t, logs.String(), "recovered from panic")
	assert.Contains(t, logs.String(), "nil map write")
}

func TestRequestID(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})(c)

	require.NoError(t, err)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestGetLogger_FallsBackToNop(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/")
	assert.Equal(t, zerolog.Disabled, GetLogger(c).GetLevel())
}

func TestEnhanceContext_PropagatesLogger(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(&logs)
	c, _ := newContext(http.MethodGet, "/")
	c.Set(RequestIDKey, "req-1")

	err := NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return nil
	})(c)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "from service", entry["message"])
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
