package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperror"
	"school-service/pkg/logger"
)

// ErrorHandler translates every error escaping a handler or middleware into
// the uniform envelope. With production set, 500-class messages and details
// are replaced with a generic message so internals never leak.
func ErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		log := logger.FromContext(c)

		var appErr *apperror.Error
		switch e := err.(type) {
		case *apperror.Error:
			appErr = e
		case *echo.HTTPError:
			appErr = &apperror.Error{
				Message:    fmt.Sprintf("%v", e.Message),
				StatusCode: e.Code,
				Code:       codeForStatus(e.Code),
			}
		default:
			appErr = apperror.From(err)
		}

		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.Int("status", appErr.StatusCode),
				zap.String("code", appErr.Code),
				zap.Error(err))
			if production {
				appErr = &apperror.Error{
					Message:    "An internal server error occurred.",
					StatusCode: appErr.StatusCode,
					Code:       appErr.Code,
				}
			}
		} else {
			log.Warn("Request rejected",
				zap.Int("status", appErr.StatusCode),
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message))
		}

		if writeErr := c.JSON(appErr.StatusCode, appErr); writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return apperror.CodeServer
	}
}
