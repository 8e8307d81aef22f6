package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"school-service/pkg/config"
	"school-service/prometheus"
)

// HealthCheck returns the service health status
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "school-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Status returns the service banner for the root path
func Status(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"message":     "School Service API",
			"version":     "1.0.0",
			"environment": cfg.Server.Env,
		})
	}
}

// MetricsHandler exposes the Prometheus scrape endpoint
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
