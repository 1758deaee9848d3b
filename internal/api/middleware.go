package api

import (
	"context"
	"log"
	"time"

	"dispatch-route-service/internal/platform/obs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogger tags every request with an ID (propagated to adapter timing
// logs via the context) and logs end-to-end duration and response size.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := uuid.NewString()
			ctx := context.WithValue(c.Request().Context(), obs.RequestIDKey, reqID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			log.Printf(
				"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
				reqID, c.Request().Method, c.Request().URL.RequestURI(),
				res.Status, res.Size, time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
