package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/export"
	"github.com/kpdgayao/vivita-inventory/models"
)

// AnalyticsPage displays value by category, trends, top sellers and turnover
func (h *Handler) AnalyticsPage(c *fiber.Ctx) error {
	days := queryInt(c, "days", analytics.DefaultTrendDays)
	if days <= 0 {
		days = analytics.DefaultTrendDays
	}

	var (
		summary    analytics.Summary
		categories []analytics.CategoryValue
		trends     analytics.Trends
		top        []analytics.TopSeller
		turnover   []analytics.Turnover
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) { summary, err = h.analytics.Summary(ctx); return })
	g.Go(func() (err error) { categories, err = h.analytics.CategoryDistribution(ctx); return })
	g.Go(func() (err error) { trends, err = h.analytics.TransactionTrends(ctx, days); return })
	g.Go(func() (err error) {
		top, err = h.analytics.TopSellingItems(ctx, days, queryInt(c, "top", analytics.DefaultTopSellers))
		return
	})
	g.Go(func() (err error) { turnover, err = h.analytics.ItemTurnover(ctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	if WantsJSON(c) {
		return c.JSON(fiber.Map{
			"summary":     summary,
			"categories":  categories,
			"trends":      trends,
			"top_sellers": top,
			"turnover":    turnover,
		})
	}
	return h.render(c, "pages/analytics", fiber.Map{
		"Title":      "Analytics",
		"Active":     "analytics",
		"Days":       days,
		"Summary":    summary,
		"Categories": categories,
		"Trends":     trends,
		"TopSellers": top,
		"Turnover":   turnover,
	})
}

// Alerts lists low and out of stock items with reorder suggestions
func (h *Handler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.analytics.StockAlerts(c.UserContext())
	if err != nil {
		return err
	}
	if WantsJSON(c) {
		return c.JSON(alerts)
	}
	return h.render(c, "pages/alerts", fiber.Map{
		"Title":  "Stock Alerts",
		"Active": "alerts",
		"Alerts": alerts,
	})
}

// GetSummary returns the dashboard summary
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetCategories returns inventory value per category
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.analytics.CategoryDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// GetTrends returns daily counts for ?days (default 30)
func (h *Handler) GetTrends(c *fiber.Ctx) error {
	trends, err := h.analytics.TransactionTrends(c.UserContext(), queryInt(c, "days", analytics.DefaultTrendDays))
	if err != nil {
		return err
	}
	return c.JSON(trends)
}

// ExportTransactions downloads the valued ledger as CSV
func (h *Handler) ExportTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		items []models.Item
		txns  []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { items, err = h.items.All(gctx, true); return })
	g.Go(func() (err error) { txns, err = h.txns.All(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, items, txns, h.analytics.Location()); err != nil {
		return err
	}
	c.Attachment(export.Filename(h.analytics.Now()))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
