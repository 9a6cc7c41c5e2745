package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"horizons/internal/delivery/api/response"
	deliverycontext "horizons/internal/delivery/context"
	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/errors"

	"github.com/labstack/echo/v4"
)

// statusClientClosedRequest marks requests the client abandoned before a response was written.
const statusClientClosedRequest = 499

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
// Only server faults are logged here; client errors are visible in the access log.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if domainerrors.IsServerFault(appErr) {
			m.logFault(c, err, appErr.ErrorCode())
		}
		_ = response.AppError(c, appErr)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	if errors.Is(err, context.Canceled) {
		_ = response.Error(c, statusClientClosedRequest, "REQUEST_CANCELED", "Request canceled", nil)

		return
	}

	m.logFault(c, err, "INTERNAL_ERROR")

	// For 500 errors, do not expose internal error details to the client
	_ = response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error, please try again later", nil)
}

func (m *ErrorMiddleware) logFault(c echo.Context, err error, code string) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Request failed",
		slog.String("code", code),
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
