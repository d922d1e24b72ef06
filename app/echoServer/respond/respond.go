// Package respond maps service errors onto HTTP responses. Unexpected
// failures are logged with the request correlation id and never leak
// internal detail to the caller.
package respond

import (
	"log/slog"
	"net/http"

	"clothingrental/apperr"

	"github.com/labstack/echo/v4"
)

func Error(c echo.Context, log *slog.Logger, op string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		body := echo.Map{"message": err.Error()}
		if f := apperr.FieldsOf(err); len(f) > 0 {
			body["errors"] = f
		}
		return c.JSON(http.StatusBadRequest, body)
	case apperr.NotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.InvalidState:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case apperr.Conflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Error(op, "err", err, "req_id", rid)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "internal error",
			"ref":     rid,
		})
	}
}
