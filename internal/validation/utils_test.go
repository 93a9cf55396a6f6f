package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID    string `param:"id" json:"-"`
	Title any    `json:"title"`
	Body  any    `json:"body"`

	cleanTitle string
}

func (p *samplePayload) Validate() error {
	if !ValidateID(p.ID) {
		return errs.NewBadRequestError(MsgInvalidID)
	}
	if ok, problems := ValidatePostData(p.Title, p.Body); !ok {
		return Errors(problems)
	}
	p.cleanTitle = SanitizeString(p.Title)
	return nil
}

func newContext(method, body, contentType, id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/posts/"+id, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/posts/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestBindAndValidate_Success(t *testing.T) {
	c := newContext(http.MethodPut, `{"title":"  Hello  ","body":"World"}`, echo.MIMEApplicationJSON, "5")

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))

	assert.Equal(t, "5", payload.ID)
	assert.Equal(t, "Hello", payload.cleanTitle)
}

func TestBindAndValidate_Failures(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		id          string
		status      int
		message     string
	}{
		{
			name: "invalid id", body: `{"title":"a","body":"b"}`, contentType: echo.MIMEApplicationJSON, id: "abc",
			status: http.StatusBadRequest, message: MsgInvalidID,
		},
		{
			name: "validation messages joined", body: `{"title":"","body":""}`, contentType: echo.MIMEApplicationJSON, id: "1",
			status: http.StatusBadRequest, message: MsgTitleRequired + ", " + MsgBodyRequired,
		},
		{
			name: "malformed json", body: `{"title":`, contentType: echo.MIMEApplicationJSON, id: "1",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPut, tt.body, tt.contentType, tt.id)

			err := BindAndValidate(c, &samplePayload{})
			require.Error(t, err)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, httpErr.Message)
			} else {
				assert.NotEmpty(t, httpErr.Message)
			}
		})
	}
}

func TestBindAndValidate_UnsupportedMediaTypePassesThrough(t *testing.T) {
	c := newContext(http.MethodPut, `title=a`, "text/plain", "1")

	err := BindAndValidate(c, &samplePayload{})

	var echoErr *echo.HTTPError
	require.True(t, errors.As(err, &echoErr))
	assert.Equal(t, http.StatusUnsupportedMediaType, echoErr.Code)
}

func TestErrors_Error(t *testing.T) {
	assert.Equal(t, "a, b", Errors{"a", "b"}.Error())
}
