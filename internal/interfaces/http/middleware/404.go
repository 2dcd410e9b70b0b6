package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NoRouteMatched strip the body from unmatched routes so the router does not
// leak its default error payload
func NoRouteMatched() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			var httpError *echo.HTTPError
			if errors.As(err, &httpError) && httpError.Code == http.StatusNotFound {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
}
