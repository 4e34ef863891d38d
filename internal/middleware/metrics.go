package middleware

import (
	"errors"

	"go-signshop-api/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count, duration and in-flight gauge per route
// pattern. It must be registered before the routes it measures.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := metrics.StartRequest()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		// Route pattern (/api/products/:id), bukan path asli
		done(c.Method(), c.Route().Path, status)
		return err
	}
}
