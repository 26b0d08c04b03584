package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/database"
	"github.com/kpdgayao/vivita-inventory/models"
)

const (
	dashboardRecent    = 10
	dashboardTrendDays = 7
)

// Dashboard displays the summary cards, alerts, recent movements and trends
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		summary  analytics.Summary
		alerts   []analytics.StockAlert
		recent   []analytics.RecentTransaction
		trends   analytics.Trends
		activity []models.ActivityLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { summary, err = h.analytics.Summary(gctx); return })
	g.Go(func() (err error) { alerts, err = h.analytics.StockAlerts(gctx); return })
	g.Go(func() (err error) { recent, err = h.analytics.RecentTransactions(gctx, dashboardRecent); return })
	g.Go(func() (err error) { trends, err = h.analytics.TransactionTrends(gctx, dashboardTrendDays); return })
	g.Go(func() (err error) { activity, err = h.activity.Recent(gctx, dashboardRecent); return })
	if err := g.Wait(); err != nil {
		return err
	}

	if WantsJSON(c) {
		return c.JSON(fiber.Map{
			"summary":  summary,
			"alerts":   alerts,
			"recent":   recent,
			"trends":   trends,
			"activity": activity,
		})
	}
	return h.render(c, "pages/dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Active":   "dashboard",
		"Summary":  summary,
		"Alerts":   alerts,
		"Recent":   recent,
		"Trends":   trends,
		"Activity": activity,
	})
}

// Health pings the database
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := database.CheckConnection(c.UserContext(), h.db); err != nil {
		h.log.Warn("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetSQLLogs returns recent SQL query logs
func (h *Handler) GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(h.queries.GetRecentQueries(queryInt(c, "limit", 20)))
}

// ClearSQLLogs clears all SQL logs
func (h *Handler) ClearSQLLogs(c *fiber.Ctx) error {
	h.queries.Clear()
	return c.SendStatus(fiber.StatusOK)
}
