package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MethodOverride lets HTML forms send PUT and DELETE through a _method field
func MethodOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			if method := strings.ToUpper(c.FormValue("_method")); method == fiber.MethodPut || method == fiber.MethodDelete {
				c.Method(method)
			}
		}
		return c.Next()
	}
}
