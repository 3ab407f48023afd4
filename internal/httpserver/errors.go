package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/labstack/echo/v4"
)

// writeError translates domain errors into JSON responses. Unrecognized
// errors are logged and hidden behind a generic 500.
func writeError(c echo.Context, err error) error {
	var vErr *apperror.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": vErr.Fields})
	case errors.Is(err, apperror.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, apperror.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		logging.FromContext(c.Request().Context()).Error("request_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
