package handler

import (
	"net/http"

	"github.com/deppfellow/posts-api/internal/response"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Version is reported by GET /.
const Version = "1.0.0"

// RootHandler describes the service at GET /.
type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{
		Handler: NewHandler(s),
	}
}

type InfoResponse struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

func (h *RootHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Success(InfoResponse{
		Message:     "Posts API is running",
		Version:     Version,
		Environment: h.server.Config.Primary.Env,
		Endpoints: map[string]string{
			"health": "/health",
			"status": "/status",
			"posts":  "/api/posts",
			"docs":   "/docs",
		},
	}))
}
