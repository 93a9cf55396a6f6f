package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/posts-api/internal/middleware"
	"github.com/deppfellow/posts-api/internal/response"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusOK        = "OK"
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	msgServiceUnavailable = "Service unavailable"
)

// HealthHandler serves the system endpoints monitors and load balancers poll.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// LivenessResponse is the data of GET /health.
type LivenessResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

// Liveness reports that the process is up. It never touches the database,
// so it stays green while the database is down.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Success(LivenessResponse{
		Status:    statusOK,
		Uptime:    h.server.Uptime().Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}))
}

// CheckResult is one dependency check of the readiness report.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// ReadinessResponse is the data of a healthy GET /status.
type ReadinessResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth pings the database within the configured timeout.
//
// It returns 200 with the check results when every check passes and 503 when
// any fails. The failure detail is logged and recorded in New Relic, not
// returned.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	report := ReadinessResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	checks := h.server.Config.Observability.HealthChecks
	if checks.Enabled {
		result := h.checkDatabase(c.Request().Context(), checks.Timeout)
		report.Checks["database"] = result

		if result.Status != statusHealthy {
			report.Status = statusUnhealthy

			logger.Error().
				Str("error", result.Error).
				Str("response_time", result.ResponseTime).
				Msg("database health check failed")

			h.recordHealthCheckError("database", result.Error, time.Since(start))
		}
	}

	if report.Status != statusHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response.Failure(msgServiceUnavailable))
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response.Success(report))
}

func (h *HealthHandler) checkDatabase(ctx context.Context, timeout time.Duration) CheckResult {
	dbStart := time.Now()

	if h.server.DB == nil {
		return CheckResult{
			Status:       statusUnhealthy,
			ResponseTime: time.Since(dbStart).String(),
			Error:        "database not initialized",
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := h.server.DB.Ping(ctx); err != nil {
		return CheckResult{
			Status:       statusUnhealthy,
			ResponseTime: time.Since(dbStart).String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       statusHealthy,
		ResponseTime: time.Since(dbStart).String(),
	}
}

func (h *HealthHandler) recordHealthCheckError(checkType, message string, elapsed time.Duration) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       checkType + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    message,
	})
}
