package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kpdgayao/vivita-inventory/database"
)

const sqlStartKey = "sqlQueryStart"

// SQLDebugMiddleware marks where the request starts in the query log so
// pages can show the statements they ran.
func SQLDebugMiddleware(ql *database.QueryLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sqlStartKey, ql.Count())
		err := c.Next()

		queries := RequestQueries(c, ql)
		c.Locals("SQLQueries", queries)
		c.Locals("TotalSQLQueries", len(queries))
		return err
	}
}

// RequestQueries returns the statements logged since the request began,
// newest first. Concurrent requests may interleave.
func RequestQueries(c *fiber.Ctx, ql *database.QueryLogger) []database.QueryLog {
	start, ok := c.Locals(sqlStartKey).(int)
	if !ok {
		return []database.QueryLog{}
	}
	diff := ql.Count() - start
	if diff <= 0 {
		return []database.QueryLog{}
	}
	return ql.GetRecentQueries(diff)
}
